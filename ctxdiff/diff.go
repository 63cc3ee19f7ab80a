// Package ctxdiff computes the part of a refined tree which is specific to
// a context.
//
// Exporting configuration writes a main block, holding what was declared
// for the default context, and a test block, holding only what the test
// context changes. Diff extracts each block from refined trees.
package ctxdiff

import (
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/tree"
)

// Diff returns the values of n which carry every tag of c and differ from
// the value at the same place in baseline. A nil baseline inherits nothing.
// Diff returns false when nothing remains.
//
// Mappings are diffed key by key and are absent when no key remains. A
// list is reduced to the elements carrying c, or kept whole when an element
// differs from the baseline element at its index below c. It is absent
// when it equals the baseline list. Results do not carry context sets, except lists which
// carry c.
func Diff(n, baseline *tree.Node, c contexts.Set) (*tree.Node, bool) {
	res, ok := diff(n, baseline, c)
	if debug.Diff() {
		debug.Logf("diff for %s: %v (present %t)\n", c, res, ok)
	}
	return res, ok
}

func diff(n, baseline *tree.Node, c contexts.Set) (*tree.Node, bool) {
	switch n.Type {
	case tree.MappingType:
		var fields []tree.KeyValue
		for _, kv := range n.Fields {
			var base *tree.Node
			if baseline != nil {
				base, _ = baseline.Lookup(kv.Key)
			}
			if d, ok := diff(kv.Value, base, c); ok {
				fields = append(fields, kv.WithValue(d))
			}
		}
		if len(fields) == 0 {
			return nil, false
		}
		return n.WithFields(fields).WithContexts(contexts.Set{}), true

	case tree.ListType:
		all := carries(n, c)
		var values []*tree.Node
		for i, v := range n.Values {
			if all || carries(v, c) {
				values = append(values, v.StripContexts())
				continue
			}
			if _, ok := diff(v, element(baseline, i), c); ok {
				// a list replaces the baseline list whole
				all = true
				break
			}
		}
		if all {
			values = n.StripContexts().Values
		}
		if len(values) == 0 {
			return nil, false
		}
		if baseline != nil && baseline.Type == tree.ListType && tree.Equal(n.WithValues(values), baseline) {
			return nil, false
		}
		return n.WithValues(values).WithContexts(c), true
	}
	if !carries(n, c) {
		return nil, false
	}
	if baseline != nil && tree.Equal(n, baseline) {
		return nil, false
	}
	return n.WithContexts(contexts.Set{}), true
}

func element(l *tree.Node, i int) *tree.Node {
	if l == nil || l.Type != tree.ListType || i >= len(l.Values) {
		return nil
	}
	return l.Values[i]
}

// carries reports whether n was declared under every tag of c.
func carries(n *tree.Node, c contexts.Set) bool {
	return n.Contexts.ContainsAll(c)
}
