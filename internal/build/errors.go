package build

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConflict = errors.New("build output conflict")
	ErrTask     = errors.New("build task failed")
)

// Two tasks computing the same output file.
type Conflict struct {
	OutputFile string // Shared output path.
	First      Task   // Task planned first.
	Second     Task   // Task colliding with First.
}

// Returned by [NewPlan] when tasks collide on an output file. Names every
// colliding pair.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	pairs := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		pairs[i] = fmt.Sprintf("%s: %s and %s", c.OutputFile, c.First.label(), c.Second.label())
	}
	return fmt.Sprintf("%v: %s", ErrConflict, strings.Join(pairs, "; "))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// Failure of the backend for one task.
type TaskError struct {
	Task Task  // Task that failed.
	Err  error // Backend diagnostic or context error.
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task.label(), e.Err)
}

func (e *TaskError) Unwrap() []error {
	return []error{ErrTask, e.Err}
}
