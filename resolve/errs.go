package resolve

import (
	"errors"
	"strings"

	"github.com/signadot/ctree/tree"
)

var ErrCycle = errors.New("reference cycle")

// CycleError reports references which lead back to themselves. Cycle
// starts and ends with the same path.
type CycleError struct {
	Cycle []tree.Path
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, p := range e.Cycle {
		parts[i] = p.String()
	}
	return ErrCycle.Error() + ": " + strings.Join(parts, " -> ")
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}
