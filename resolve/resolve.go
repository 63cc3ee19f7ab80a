// Package resolve replaces the references and interpolations of a refined
// tree by the values they designate and turns the result into a complete
// tree.
package resolve

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/tree"
)

// Resolve substitutes every reference of n by a copy of the value it
// designates in n, and every interpolation by a string.
//
// References which designate nothing and interpolations of non scalar
// values become error leaves and are reported, the rest of the tree is
// still resolved. A reference cycle fails the whole call with a
// *CycleError.
func Resolve(n *tree.Node) (*tree.Node, diag.Diagnostics, error) {
	r := &resolver{
		root:    n,
		memo:    map[string]*tree.Node{},
		onStack: map[string]int{},
		diags:   &diag.Collector{},
	}
	res, err := r.resolveAt(nil, n)
	if debug.Resolve() {
		debug.Logf("resolved %v\n  to %v (err %v)\n", n, res, err)
	}
	if err != nil {
		return nil, r.diags.Diagnostics(), err
	}
	return res, r.diags.Diagnostics(), nil
}

type resolver struct {
	root *tree.Node
	// memo holds resolved nodes by path.
	memo    map[string]*tree.Node
	stack   []tree.Path
	onStack map[string]int
	diags   *diag.Collector
}

func pathKey(p tree.Path) string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte(0)
		b.WriteString(seg)
	}
	return b.String()
}

func (r *resolver) resolveAt(p tree.Path, n *tree.Node) (*tree.Node, error) {
	k := pathKey(p)
	if res, ok := r.memo[k]; ok {
		return res, nil
	}
	if i, ok := r.onStack[k]; ok {
		cycle := append(slices.Clone(r.stack[i:]), p)
		return nil, &CycleError{Cycle: cycle}
	}
	r.onStack[k] = len(r.stack)
	r.stack = append(r.stack, p)
	res, err := r.resolveNode(p, n)
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.onStack, k)
	if err != nil {
		return nil, err
	}
	r.memo[k] = res
	return res, nil
}

func (r *resolver) resolveNode(p tree.Path, n *tree.Node) (*tree.Node, error) {
	switch n.Type {
	case tree.ReferenceType:
		target, ok, err := r.lookup(n.Ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			return r.unresolved(n, n.Ref), nil
		}
		return r.apply(target, n.Transform, n), nil

	case tree.InterpolationType:
		var b strings.Builder
		for _, part := range n.Parts {
			if !part.IsRef() {
				b.WriteString(part.Text)
				continue
			}
			target, ok, err := r.lookup(part.Ref)
			if err != nil {
				return nil, err
			}
			if !ok {
				return r.unresolved(n, part.Ref), nil
			}
			v := r.apply(target, part.Transform, n)
			if v.Type == tree.ErrorType {
				return v, nil
			}
			s, ok := v.Text()
			if !ok {
				msg := fmt.Sprintf("${%s} is a %s, only scalars can be interpolated", part.Ref, v.Type)
				diag.Errorf(r.diags, diag.InterpolationType, n.Trace, "%s", msg)
				return tree.Error(msg, n.Trace, n.Contexts).MarkReported(), nil
			}
			b.WriteString(s)
		}
		return tree.FromString(b.String(), n.Trace, n.Contexts), nil

	case tree.MappingType:
		var fields []tree.KeyValue
		for i := range n.Fields {
			kv := &n.Fields[i]
			v, err := r.resolveAt(p.Field(kv.Key), kv.Value)
			if err != nil {
				return nil, err
			}
			if v != kv.Value && fields == nil {
				fields = slices.Clone(n.Fields)
			}
			if fields != nil {
				fields[i] = kv.WithValue(v)
			}
		}
		if fields == nil {
			return n, nil
		}
		return n.WithFields(fields), nil

	case tree.ListType:
		var values []*tree.Node
		for i, e := range n.Values {
			v, err := r.resolveAt(p.Index(i), e)
			if err != nil {
				return nil, err
			}
			if v != e && values == nil {
				values = slices.Clone(n.Values)
			}
			if values != nil {
				values[i] = v
			}
		}
		if values == nil {
			return n, nil
		}
		return n.WithValues(values), nil
	}
	return n, nil
}

// lookup finds and resolves the node at ref, resolving the references met
// on the way.
func (r *resolver) lookup(ref tree.Path) (*tree.Node, bool, error) {
	cur := r.root
	var at tree.Path
	for _, seg := range ref {
		if cur.Type == tree.ReferenceType || cur.Type == tree.InterpolationType {
			var err error
			if cur, err = r.resolveAt(at, cur); err != nil {
				return nil, false, err
			}
		}
		next, ok := child(cur, seg)
		if !ok {
			return nil, false, nil
		}
		cur = next
		at = at.Field(seg)
	}
	res, err := r.resolveAt(at, cur)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func child(n *tree.Node, seg string) (*tree.Node, bool) {
	switch n.Type {
	case tree.MappingType:
		return n.Lookup(seg)
	case tree.ListType:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n.Values) {
			return nil, false
		}
		return n.Values[i], true
	}
	return nil, false
}

func (r *resolver) unresolved(n *tree.Node, ref tree.Path) *tree.Node {
	msg := fmt.Sprintf("unresolved reference ${%s}", ref)
	diag.Errorf(r.diags, diag.UnresolvedReference, n.Trace, "%s", msg)
	return tree.Error(msg, n.Trace, n.Contexts).MarkReported()
}

// apply returns the value substituted for ref, which designates target.
func (r *resolver) apply(target *tree.Node, tf *tree.Transform, ref *tree.Node) *tree.Node {
	// invalid values are reported where they are declared
	target = markReported(target)
	if tf == nil || target.Type == tree.ErrorType {
		return target.WithContexts(ref.Contexts)
	}
	res, err := tf.Apply(target)
	if err != nil {
		diag.Errorf(r.diags, diag.TransformFailed, ref.Trace, "%v", err)
		return tree.Error(err.Error(), ref.Trace, ref.Contexts).MarkReported()
	}
	return res.WithContexts(ref.Contexts)
}

func markReported(n *tree.Node) *tree.Node {
	switch n.Type {
	case tree.ErrorType:
		return n.MarkReported()
	case tree.ListType:
		var values []*tree.Node
		for i, v := range n.Values {
			mv := markReported(v)
			if mv != v && values == nil {
				values = slices.Clone(n.Values)
			}
			if values != nil {
				values[i] = mv
			}
		}
		if values != nil {
			return n.WithValues(values)
		}
	case tree.MappingType:
		var fields []tree.KeyValue
		for i, kv := range n.Fields {
			mv := markReported(kv.Value)
			if mv != kv.Value && fields == nil {
				fields = slices.Clone(n.Fields)
			}
			if fields != nil {
				fields[i] = kv.WithValue(mv)
			}
		}
		if fields != nil {
			return n.WithFields(fields)
		}
	}
	return n
}
