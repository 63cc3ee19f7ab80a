package merge

import (
	"fmt"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/gomap"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

// Defaults returns a tree holding the declared defaults of decl and of the
// objects nested in it, or nil if there are none. It belongs first in a
// merge, so that every other source overrides it.
func Defaults(decl *schema.Object) (*tree.Node, error) {
	return defaults(decl, nil)
}

func defaults(decl *schema.Object, at tree.Path) (*tree.Node, error) {
	var fields []tree.KeyValue
	for _, p := range decl.Properties {
		pp := at.Field(p.Name)
		tr := tree.DefaultTrace(pp.String())
		var v *tree.Node
		switch {
		case p.HasDefault():
			n, err := gomap.FromAny(p.Default, p.Type, tr, contexts.Set{})
			if err != nil {
				return nil, fmt.Errorf("default of %s: %w", pp, err)
			}
			v = n
		case p.Type.Kind == schema.ObjectKind:
			n, err := defaults(p.Type.Object, pp)
			if err != nil {
				return nil, err
			}
			v = n
		}
		if v == nil {
			continue
		}
		fields = append(fields, tree.KeyValue{Key: p.Name, KeyTrace: tr, Value: v, Property: p})
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return tree.Mapping(decl, fields, tree.DefaultTrace(at.String()), contexts.Set{}), nil
}
