package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable that overrides the settings file location.
const ConfigEnv = "NANOBUNDLE_CONFIG"

// Dotenv files loaded from the working directory, highest precedence first.
var envFiles = []string{".env.local", ".env"}

// User defaults for build flags.
type Settings struct {
	OutDir      string `yaml:"outDir"`      // Output directory, relative to the package.
	SourceDir   string `yaml:"sourceDir"`   // Source directory, relative to the package.
	Minify      bool   `yaml:"minify"`      // Whether to minify output.
	Sourcemap   bool   `yaml:"sourcemap"`   // Whether to emit linked source maps.
	Concurrency int    `yaml:"concurrency"` // Parallel build tasks, zero for one per CPU.
	Cache       bool   `yaml:"cache"`       // Whether to skip unchanged tasks.
}

// Returns the built-in defaults.
func Defaults() Settings {
	return Settings{
		OutDir:    "dist",
		SourceDir: "src",
		Cache:     true,
	}
}

// Loads settings from a YAML file on top of [Defaults].
//
// A missing file yields the defaults. Environment variable references in
// the file (${HOME}) are expanded before parsing.
func Load(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrRead, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &s); err != nil {
		return Defaults(), fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	if err := s.Validate(); err != nil {
		return Defaults(), fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Checks that every field holds a usable value.
func (s Settings) Validate() error {
	if s.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative, got %d", ErrInvalid, s.Concurrency)
	}
	if s.OutDir == "" {
		return fmt.Errorf("%w: outDir must not be empty", ErrInvalid)
	}
	if s.SourceDir == "" {
		return fmt.Errorf("%w: sourceDir must not be empty", ErrInvalid)
	}
	return nil
}

// Returns the settings as interpolation variables for flag defaults.
func (s Settings) Vars() map[string]string {
	return map[string]string{
		"out_dir":     s.OutDir,
		"source_dir":  s.SourceDir,
		"minify":      strconv.FormatBool(s.Minify),
		"sourcemap":   strconv.FormatBool(s.Sourcemap),
		"concurrency": strconv.Itoa(s.Concurrency),
		"cache":       strconv.FormatBool(s.Cache),
	}
}

// Loads the dotenv files found in dir into the process environment and
// returns the paths loaded.
//
// Variables already set are left untouched, so .env.local takes precedence
// over .env and the real environment over both.
func LoadEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("%w: %w", ErrRead, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
