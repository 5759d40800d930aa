package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cruciblehq/nanobundle/internal"
)

const (

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Name of the build cache database within [Cache].
	cacheFile = "cache.db"

	// Name of the user settings file within [Config].
	configFile = "config.yaml"
)

// Path to the directory for cached build state.
//
//	Linux:   $XDG_CACHE_HOME/nanobundle or ~/.cache/nanobundle
//	macOS:   ~/Library/Caches/nanobundle
func Cache() string {
	return filepath.Join(xdg.CacheHome, internal.Name)
}

// Default path to the build cache database.
//
//	Linux:   $XDG_CACHE_HOME/nanobundle/cache.db
//	macOS:   ~/Library/Caches/nanobundle/cache.db
func CacheFile() string {
	return filepath.Join(Cache(), cacheFile)
}

// Path to the directory for user settings.
//
//	Linux:   $XDG_CONFIG_HOME/nanobundle or ~/.config/nanobundle
//	macOS:   ~/Library/Application Support/nanobundle
func Config() string {
	return filepath.Join(xdg.ConfigHome, internal.Name)
}

// Default path to the user settings file.
//
//	Linux:   $XDG_CONFIG_HOME/nanobundle/config.yaml
//	macOS:   ~/Library/Application Support/nanobundle/config.yaml
func ConfigFile() string {
	return filepath.Join(Config(), configFile)
}
