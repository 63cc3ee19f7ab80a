package tree

import "errors"

var (
	ErrPath     = errors.New("bad path")
	ErrNotFound = errors.New("not found")
)
