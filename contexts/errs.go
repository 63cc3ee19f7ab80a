package contexts

import "errors"

var ErrContext = errors.New("context error")
