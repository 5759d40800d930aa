package bundler

import "errors"

var (
	ErrBundle = errors.New("bundle failed")
	ErrWrite  = errors.New("failed to write output")
)
