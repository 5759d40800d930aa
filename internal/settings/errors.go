package settings

import "errors"

var (
	ErrRead    = errors.New("failed to read settings")
	ErrInvalid = errors.New("invalid settings")
)
