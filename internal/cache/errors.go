package cache

import "errors"

var (
	ErrOpen    = errors.New("failed to open build cache")
	ErrCorrupt = errors.New("corrupt build cache record")
)
