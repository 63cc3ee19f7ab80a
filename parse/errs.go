package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse    = errors.New("parse error")
	ErrTopLevel = fmt.Errorf("%w: top level must be a mapping", ErrParse)
)
