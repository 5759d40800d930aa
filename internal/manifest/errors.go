package manifest

import "errors"

var (
	ErrNotFound  = errors.New("package.json not found")
	ErrMalformed = errors.New("malformed package.json")
)
