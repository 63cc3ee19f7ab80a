package tree

import (
	"cmp"
	"slices"
	"strings"
)

// Equal reports whether a and b hold the same value. Traces, context sets,
// declarations and property descriptors are ignored.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// Compare returns an integer comparing the values of two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}

	switch a.Type {
	case NullType, NoValueType:
		return 0
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case IntType:
		return cmp.Compare(a.Int, b.Int)
	case StringType, PathType, ErrorType:
		return strings.Compare(a.String, b.String)
	case EnumType:
		if c := strings.Compare(enumName(a), enumName(b)); c != 0 {
			return c
		}
		return strings.Compare(a.String, b.String)
	case ReferenceType:
		if c := comparePaths(a.Ref, b.Ref); c != 0 {
			return c
		}
		return strings.Compare(transformName(a.Transform), transformName(b.Transform))
	case InterpolationType:
		return slices.CompareFunc(a.Parts, b.Parts, compareParts)
	case ListType:
		return slices.CompareFunc(a.Values, b.Values, Compare)
	case MappingType:
		return slices.CompareFunc(a.Fields, b.Fields, func(x, y KeyValue) int {
			if c := strings.Compare(x.Key, y.Key); c != 0 {
				return c
			}
			return Compare(x.Value, y.Value)
		})
	}
	return 0
}

func enumName(n *Node) string {
	if n.Enum == nil {
		return ""
	}
	return n.Enum.Name
}

func comparePaths(a, b Path) int {
	return slices.Compare(a, b)
}

func compareParts(a, b Part) int {
	if c := strings.Compare(a.Text, b.Text); c != 0 {
		return c
	}
	if c := comparePaths(a.Ref, b.Ref); c != 0 {
		return c
	}
	return strings.Compare(transformName(a.Transform), transformName(b.Transform))
}
