package target

import (
	"errors"
	"fmt"
)

var (
	ErrNoTargetInfo  = errors.New("no target information")
	ErrInvalidType   = errors.New("unsupported module type")
	ErrInvalidEngine = errors.New("engine constraint must be a string")
	ErrEmptyEngine   = errors.New("engine constraint must not be empty")
)

// Manifest field that prevents target resolution.
type ConfigError struct {
	Field string // Offending manifest field (e.g., "engines.node").
	Err   error  // Underlying cause.
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("package.json %q: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
