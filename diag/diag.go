// Package diag collects problems found in configuration trees.
//
// Problems with the configuration itself never abort a transformation.
// They are recorded as Diagnostics and the transformation carries on with
// the rest of the tree.
package diag

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/signadot/ctree/tree"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Codes identifying kinds of diagnostics.
const (
	UnresolvedReference = "unresolved-reference"
	InterpolationType   = "interpolation-type"
	TransformFailed     = "transform-failed"
	AmbiguousOverride   = "ambiguous-override"
	InvalidValue        = "invalid-value"
	MissingValue        = "missing-value"
	UnknownProperty     = "unknown-property"
	InvalidContext      = "invalid-context"
)

type Diagnostic struct {
	Severity Severity
	Code     string
	Trace    tree.Trace
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Trace, d.Severity, d.Msg, d.Code)
}

func (d Diagnostic) Error() string {
	return d.String()
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(Diagnostic)
}

// Discard is a Reporter which drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

type Diagnostics []Diagnostic

// Err combines the error severity diagnostics into one error. It returns
// nil when there are none.
func (ds Diagnostics) Err() error {
	var res *multierror.Error
	for _, d := range ds {
		if d.Severity == Error {
			res = multierror.Append(res, d)
		}
	}
	return res.ErrorOrNil()
}

func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// WithCode returns the diagnostics with code.
func (ds Diagnostics) WithCode(code string) Diagnostics {
	var res Diagnostics
	for _, d := range ds {
		if d.Code == code {
			res = append(res, d)
		}
	}
	return res
}

func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Collector is a Reporter which keeps what it is given. It is safe for
// concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags Diagnostics
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

func (c *Collector) Diagnostics() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make(Diagnostics, len(c.diags))
	copy(res, c.diags)
	return res
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// Errorf reports an error severity diagnostic.
func Errorf(r Reporter, code string, tr tree.Trace, format string, args ...any) {
	r.Report(Diagnostic{Severity: Error, Code: code, Trace: tr, Msg: fmt.Sprintf(format, args...)})
}

// Warnf reports a warning severity diagnostic.
func Warnf(r Reporter, code string, tr tree.Trace, format string, args ...any) {
	r.Report(Diagnostic{Severity: Warning, Code: code, Trace: tr, Msg: fmt.Sprintf(format, args...)})
}
