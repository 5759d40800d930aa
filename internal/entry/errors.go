package entry

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed     = errors.New("malformed exports")
	ErrUnresolvable  = errors.New("unresolvable source file")
	ErrMissingSource = errors.New(`"source" field must be specified in the package.json`)
	ErrPattern       = errors.New("subpath patterns are not supported")
	ErrNoEntries     = errors.New("exports declares no entries")
)

// Export declaration that cannot be turned into a build entry.
type EntryError struct {
	ExportPath string   // Subpath the declaration belongs to.
	Conditions []string // Condition path leading to the declaration.
	Path       string   // Offending manifest path or field, if any.
	Err        error    // Underlying cause.
}

func (e *EntryError) Error() string {
	loc := fmt.Sprintf("exports[%q]", e.ExportPath)
	for _, c := range e.Conditions {
		loc += fmt.Sprintf("[%q]", c)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", loc, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
