package cache

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cruciblehq/nanobundle/internal"
	"github.com/cruciblehq/nanobundle/internal/build"
)

// Hashes everything that determines a task's output: the tool version, the
// task itself, the build options and the contents of the input files.
func fingerprint(task build.Task, opts build.Options, inputs []string) (string, error) {
	h := xxhash.New()

	fmt.Fprintf(h, "version=%s\n", internal.Version())
	fmt.Fprintf(h, "entry=%s\nsource=%s\n", task.Entry, task.Entry.SourceFile)
	fmt.Fprintf(h, "target=%s\nconditions=%s\n", task.Target, strings.Join(task.Target.Conditions, ","))
	fmt.Fprintf(h, "output=%s\n", task.OutputFile)
	fmt.Fprintf(h, "externals=%s\nminify=%t\nsourcemap=%t\n", strings.Join(opts.Externals, ","), opts.Minify, opts.Sourcemap)

	for _, input := range inputs {
		fmt.Fprintf(h, "input=%s\n", input)
		if err := hashFile(h, input); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
