package cli

import "fmt"

// Reports a command that completed with a non-zero exit code after
// reporting its own failures.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
