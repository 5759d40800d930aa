package cli

import (
	"io"
	"log/slog"

	"github.com/cruciblehq/nanobundle/internal"
)

// Creates the text handler used for all output.
//
// The level follows the current quiet and debug modes. Timestamps and
// source locations are only included in verbose mode.
func NewHandler(w io.Writer) slog.Handler {
	verbose := internal.IsVerbose()

	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     internal.LogLevel(),
		AddSource: verbose,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && !verbose {
				return slog.Attr{}
			}
			return a
		},
	})
}
