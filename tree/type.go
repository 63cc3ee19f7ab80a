package tree

import "fmt"

type Type int

const (
	NullType Type = iota
	NoValueType
	BoolType
	IntType
	StringType
	PathType
	EnumType
	ErrorType
	ReferenceType
	InterpolationType
	ListType
	MappingType
)

func (t Type) String() string {
	switch t {
	case NullType:
		return "null"
	case NoValueType:
		return "novalue"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case StringType:
		return "string"
	case PathType:
		return "path"
	case EnumType:
		return "enum"
	case ErrorType:
		return "error"
	case ReferenceType:
		return "reference"
	case InterpolationType:
		return "interpolation"
	case ListType:
		return "list"
	case MappingType:
		return "mapping"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsScalar reports whether t is a value leaf which may be interpolated
// into text.
func (t Type) IsScalar() bool {
	switch t {
	case BoolType, IntType, StringType, PathType, EnumType:
		return true
	}
	return false
}

func (t Type) IsLeaf() bool {
	return t != ListType && t != MappingType
}
