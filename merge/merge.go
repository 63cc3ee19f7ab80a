// Package merge combines partial configuration trees.
//
// Trees are merged in order of increasing precedence: a module's own file
// comes after the templates it applies, which come after defaults. Entries
// of the same key and the same context set are collapsed; entries of the
// same key under different context sets are all kept for the refiner to
// choose from.
package merge

import (
	"fmt"

	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/tree"
)

// Merge merges trees, later trees taking precedence. Nil trees are
// skipped. The inputs are not modified and unchanged subtrees are shared
// with the result.
func Merge(trees ...*tree.Node) *tree.Node {
	var res *tree.Node
	for _, t := range trees {
		switch {
		case t == nil:
		case res == nil:
			res = t
		default:
			res = merge(res, t)
		}
	}
	if debug.Merge() && res != nil {
		debug.Logf("merged %d trees: %v\n", len(trees), res)
	}
	return res
}

func merge(a, b *tree.Node) *tree.Node {
	if b.Type == tree.NoValueType {
		return a
	}
	if a.Type != tree.MappingType || b.Type != tree.MappingType {
		return b
	}
	decl := b.Decl
	switch {
	case decl == nil:
		decl = a.Decl
	case a.Decl != nil && a.Decl != decl:
		panic(fmt.Sprintf("merge: mapping declared as %s at %s and as %s at %s",
			a.Decl.Name, a.Trace, decl.Name, b.Trace))
	}
	fields := make([]tree.KeyValue, 0, len(a.Fields)+len(b.Fields))
	fields = append(fields, a.Fields...)
	fields = append(fields, b.Fields...)
	res := b.WithFields(Collapse(fields))
	res.Decl = decl
	return res
}

type fieldKey struct {
	key      string
	contexts string
}

// Collapse merges entries which have both the same key and the same
// context set. A collapsed entry stays at the position of its first
// occurrence.
func Collapse(fields []tree.KeyValue) []tree.KeyValue {
	res := make([]tree.KeyValue, 0, len(fields))
	index := make(map[fieldKey]int, len(fields))
	for _, kv := range fields {
		k := fieldKey{key: kv.Key, contexts: kv.Contexts().Key()}
		i, ok := index[k]
		if !ok {
			index[k] = len(res)
			res = append(res, kv)
			continue
		}
		prev := res[i]
		next := kv.WithValue(merge(prev.Value, kv.Value))
		if kv.Value.Type == tree.NoValueType {
			next.KeyTrace = prev.KeyTrace
		}
		if next.Property == nil {
			next.Property = prev.Property
		}
		res[i] = next
	}
	return res
}
