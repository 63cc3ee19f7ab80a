package tree

import "fmt"

type Origin uint8

const (
	// Explicit values were written in a source.
	Explicit Origin = iota
	// Default values come from a property declaration.
	Default
	// Derived values were computed, for example by a transform.
	Derived
)

func (o Origin) String() string {
	switch o {
	case Explicit:
		return "explicit"
	case Default:
		return "default"
	case Derived:
		return "derived"
	}
	return fmt.Sprintf("Origin(%d)", uint8(o))
}

// Trace records where a value came from. Traces are carried for
// diagnostics only and never take part in comparisons.
type Trace struct {
	Source string
	Line   int
	Column int
	Origin Origin
}

func At(source string, line, col int) Trace {
	return Trace{Source: source, Line: line, Column: col}
}

func DefaultTrace(property string) Trace {
	return Trace{Source: property, Origin: Default}
}

func (t Trace) IsZero() bool {
	return t == Trace{}
}

func (t Trace) String() string {
	switch {
	case t.Origin == Default:
		return "default of " + t.Source
	case t.Source == "" && t.Line == 0:
		return "<unknown>"
	case t.Line == 0:
		return t.Source
	}
	return fmt.Sprintf("%s:%d:%d", t.Source, t.Line, t.Column)
}
