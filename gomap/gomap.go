// Package gomap converts between trees and plain Go values.
//
// Plain values are what encoding/json and expression evaluation work with:
// nil, bool, int64, float64, string, []any and map[string]any.
package gomap

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

var (
	ErrIncomplete = errors.New("tree is not complete")
	ErrType       = errors.New("type mismatch")
)

// ToAny converts a complete tree to plain values. Enum leaves become their
// serialized form and paths become strings.
func ToAny(n *tree.Node) (any, error) {
	switch n.Type {
	case tree.NullType:
		return nil, nil
	case tree.BoolType:
		return n.Bool, nil
	case tree.IntType:
		return n.Int, nil
	case tree.StringType, tree.PathType:
		return n.String, nil
	case tree.EnumType:
		return n.EnumSchemaValue(), nil
	case tree.ListType:
		res := make([]any, 0, len(n.Values))
		for i, v := range n.Values {
			x, err := ToAny(v)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res = append(res, x)
		}
		return res, nil
	case tree.MappingType:
		res := make(map[string]any, len(n.Fields))
		for i := range n.Fields {
			kv := &n.Fields[i]
			x, err := ToAny(kv.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", kv.Key, err)
			}
			res[kv.Key] = x
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: %s at %s", ErrIncomplete, n.Type, n.Trace)
}

// FromAny converts a plain value to a tree. When typ is not nil, the
// result is shaped by it: strings become paths or enum entries and
// mappings of object type carry their declaration.
func FromAny(v any, typ *schema.Type, tr tree.Trace, cs contexts.Set) (*tree.Node, error) {
	switch x := v.(type) {
	case nil:
		return tree.Null(tr, cs), nil
	case bool:
		if err := expect(typ, schema.BoolKind, v); err != nil {
			return nil, err
		}
		return tree.FromBool(x, tr, cs), nil
	case int:
		return fromInt(int64(x), typ, tr, cs)
	case int32:
		return fromInt(int64(x), typ, tr, cs)
	case int64:
		return fromInt(x, typ, tr, cs)
	case uint:
		return fromInt(int64(x), typ, tr, cs)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrType, x)
		}
		return fromInt(int64(x), typ, tr, cs)
	case string:
		return fromString(x, typ, tr, cs)
	case []string:
		vs := make([]any, len(x))
		for i := range x {
			vs[i] = x[i]
		}
		return FromAny(vs, typ, tr, cs)
	case []any:
		if err := expect(typ, schema.ListKind, v); err != nil {
			return nil, err
		}
		var elem *schema.Type
		if typ != nil {
			elem = typ.Elem
		}
		values := make([]*tree.Node, len(x))
		for i, e := range x {
			n, err := FromAny(e, elem, tr, cs)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			values[i] = n
		}
		return tree.List(values, tr, cs), nil
	case map[string]any:
		return fromMap(x, typ, tr, cs)
	}
	return nil, fmt.Errorf("%w: unsupported Go value %T", ErrType, v)
}

func expect(typ *schema.Type, k schema.Kind, v any) error {
	if typ == nil || typ.Kind == k {
		return nil
	}
	return fmt.Errorf("%w: %v is not a %s", ErrType, v, typ)
}

func fromInt(i int64, typ *schema.Type, tr tree.Trace, cs contexts.Set) (*tree.Node, error) {
	if err := expect(typ, schema.IntKind, i); err != nil {
		return nil, err
	}
	return tree.FromInt(i, tr, cs), nil
}

func fromString(s string, typ *schema.Type, tr tree.Trace, cs contexts.Set) (*tree.Node, error) {
	if typ == nil {
		return tree.FromString(s, tr, cs), nil
	}
	switch typ.Kind {
	case schema.StringKind:
		return tree.FromString(s, tr, cs), nil
	case schema.PathKind:
		return tree.FromPath(s, tr, cs), nil
	case schema.EnumKind:
		if ent, ok := typ.Enum.BySchemaValue(s); ok {
			return tree.FromEnum(typ.Enum, ent.Name, tr, cs), nil
		}
		if ent, ok := typ.Enum.Entry(s); ok {
			return tree.FromEnum(typ.Enum, ent.Name, tr, cs), nil
		}
		return nil, fmt.Errorf("%w: %q is not one of %v", ErrType, s, typ.Enum.SchemaValues())
	}
	return nil, fmt.Errorf("%w: %q is not a %s", ErrType, s, typ)
}

func fromMap(m map[string]any, typ *schema.Type, tr tree.Trace, cs contexts.Set) (*tree.Node, error) {
	var decl *schema.Object
	var elem *schema.Type
	if typ != nil {
		switch typ.Kind {
		case schema.ObjectKind:
			decl = typ.Object
		case schema.MapKind:
			elem = typ.Elem
		default:
			return nil, fmt.Errorf("%w: mapping is not a %s", ErrType, typ)
		}
	}
	keys := slices.Sorted(maps.Keys(m))
	fields := make([]tree.KeyValue, 0, len(keys))
	for _, k := range keys {
		vt := elem
		var prop *schema.Property
		if decl != nil {
			prop = decl.Property(k)
			if prop == nil {
				return nil, fmt.Errorf("%w: %s has no property %q", ErrType, decl.Name, k)
			}
			vt = prop.Type
		}
		n, err := FromAny(m[k], vt, tr, cs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		kv := tree.KV(k, n)
		kv.Property = prop
		fields = append(fields, kv)
	}
	return tree.Mapping(decl, fields, tr, cs), nil
}
