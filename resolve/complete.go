package resolve

import (
	"fmt"
	"strings"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/gomap"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

// Policy gives the severity with which a dropped error value is reported.
// prop is the declaration of the value, nil in free form maps.
type Policy func(prop *schema.Property) diag.Severity

// DefaultPolicy reports errors in required properties as errors and the
// others as warnings.
func DefaultPolicy(prop *schema.Property) diag.Severity {
	if prop != nil && prop.Required {
		return diag.Error
	}
	return diag.Warning
}

// Strict reports every dropped error value as an error.
func Strict(*schema.Property) diag.Severity {
	return diag.Error
}

type completeOpts struct {
	policy   Policy
	defaults bool
}

type Option func(*completeOpts)

func WithPolicy(p Policy) Option {
	return func(o *completeOpts) { o.policy = p }
}

// WithDefaults controls whether declared defaults are added for missing
// properties of typed mappings. It is on by default.
func WithDefaults(v bool) Option {
	return func(o *completeOpts) { o.defaults = v }
}

// Complete turns the resolved tree n into a complete tree: context sets
// are removed, error and no-value leaves are dropped and typed mappings
// get the defaults of their missing properties.
//
// A typed mapping lacking a required property is dropped and reported.
// Complete panics if n still holds references, interpolations or
// duplicate keys, none of which a resolved refined tree has. It returns
// false when nothing remains of n.
func Complete(n *tree.Node, opts ...Option) (*tree.Node, bool, diag.Diagnostics) {
	o := &completeOpts{policy: DefaultPolicy, defaults: true}
	for _, f := range opts {
		f(o)
	}
	c := &completer{completeOpts: o, diags: &diag.Collector{}}
	res, ok := c.complete(n, nil)
	return res, ok, c.diags.Diagnostics()
}

type completer struct {
	*completeOpts
	diags *diag.Collector
}

func (c *completer) report(sev diag.Severity, code string, tr tree.Trace, format string, args ...any) {
	c.diags.Report(diag.Diagnostic{Severity: sev, Code: code, Trace: tr, Msg: fmt.Sprintf(format, args...)})
}

func (c *completer) complete(n *tree.Node, prop *schema.Property) (*tree.Node, bool) {
	switch n.Type {
	case tree.ErrorType:
		if !n.Reported {
			c.report(c.policy(prop), diag.InvalidValue, n.Trace, "%s", n.String)
		}
		return nil, false
	case tree.NoValueType:
		return nil, false
	case tree.ReferenceType, tree.InterpolationType:
		panic(fmt.Sprintf("resolve: %s left at %s", n.Type, n.Trace))
	case tree.ListType:
		values := make([]*tree.Node, 0, len(n.Values))
		for _, v := range n.Values {
			if cv, ok := c.complete(v, prop); ok {
				values = append(values, cv)
			}
		}
		return n.WithValues(values).WithContexts(contexts.Set{}), true
	case tree.MappingType:
		return c.mapping(n)
	}
	return n.WithContexts(contexts.Set{}), true
}

func (c *completer) mapping(n *tree.Node) (*tree.Node, bool) {
	var (
		fields  = make([]tree.KeyValue, 0, len(n.Fields))
		seen    = map[string]bool{}
		dropped = map[string]bool{}
	)
	for _, kv := range n.Fields {
		if seen[kv.Key] {
			panic(fmt.Sprintf("resolve: duplicate key %q at %s", kv.Key, kv.KeyTrace))
		}
		seen[kv.Key] = true
		v, ok := c.complete(kv.Value, kv.Property)
		if !ok {
			if kv.Value.Type != tree.NoValueType {
				dropped[kv.Key] = true
			}
			continue
		}
		fields = append(fields, kv.WithValue(v))
	}
	decl := n.Decl
	if decl == nil {
		return n.WithFields(fields).WithContexts(contexts.Set{}), true
	}
	present := make(map[string]bool, len(fields))
	for _, kv := range fields {
		present[kv.Key] = true
	}
	var missing []string
	incomplete := false
	for _, p := range decl.Properties {
		switch {
		case present[p.Name]:
		case c.defaults && p.HasDefault():
			tr := tree.DefaultTrace(decl.Name + "." + p.Name)
			v, err := gomap.FromAny(p.Default, p.Type, tr, contexts.Set{})
			if err != nil {
				c.report(diag.Error, diag.InvalidValue, tr, "bad default: %v", err)
				continue
			}
			fields = append(fields, tree.KeyValue{Key: p.Name, KeyTrace: tr, Value: v, Property: p})
		case p.Required && dropped[p.Name]:
			incomplete = true
		case p.Required:
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		c.report(diag.Error, diag.MissingValue, n.Trace, "%s: missing required %s", decl.Name, strings.Join(missing, ", "))
		return nil, false
	}
	if incomplete {
		return nil, false
	}
	return n.WithFields(fields).WithContexts(contexts.Set{}), true
}
