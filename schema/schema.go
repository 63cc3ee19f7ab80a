package schema

import (
	"fmt"
	"strings"
)

type Kind int

const (
	BoolKind Kind = iota
	StringKind
	IntKind
	PathKind
	EnumKind
	ListKind
	MapKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case PathKind:
		return "path"
	case EnumKind:
		return "enum"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	case ObjectKind:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type describes the declared type of a property value.
type Type struct {
	Kind   Kind
	Elem   *Type   // ListKind, MapKind
	Enum   *Enum   // EnumKind
	Object *Object // ObjectKind
}

var (
	Bool   = &Type{Kind: BoolKind}
	String = &Type{Kind: StringKind}
	Int    = &Type{Kind: IntKind}
	Path   = &Type{Kind: PathKind}
)

func ListOf(elem *Type) *Type { return &Type{Kind: ListKind, Elem: elem} }
func MapOf(elem *Type) *Type { return &Type{Kind: MapKind, Elem: elem} }
func EnumOf(e *Enum) *Type { return &Type{Kind: EnumKind, Enum: e} }
func ObjectOf(o *Object) *Type { return &Type{Kind: ObjectKind, Object: o} }

func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case ListKind:
		return "list<" + t.Elem.String() + ">"
	case MapKind:
		return "map<" + t.Elem.String() + ">"
	case EnumKind:
		return "enum " + t.Enum.Name
	case ObjectKind:
		return "object " + t.Object.Name
	}
	return t.Kind.String()
}

// IsScalar reports whether values of t are leaves.
func (t *Type) IsScalar() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case ListKind, MapKind, ObjectKind:
		return false
	}
	return true
}

// Property describes one declared property of an Object.
//
// Collapsible marks the property which may be written inline in place of
// the whole object (`- value` rather than `- name: value`). Shorthand marks
// a boolean property which may be written as its bare key.
type Property struct {
	Name        string
	Type        *Type
	Required    bool
	Default     any
	Collapsible bool
	Shorthand   bool
	Doc         string
}

func (p *Property) HasDefault() bool {
	return p != nil && p.Default != nil
}

func (p *Property) String() string {
	if p == nil {
		return "<nil property>"
	}
	return p.Name + ": " + p.Type.String()
}

// Object is a statically typed object declaration.
type Object struct {
	Name       string
	Properties []*Property
}

func NewObject(name string, props ...*Property) *Object {
	return &Object{Name: name, Properties: props}
}

func (o *Object) Property(name string) *Property {
	if o == nil {
		return nil
	}
	for _, p := range o.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Collapsible returns the collapsible property of o, if any.
func (o *Object) Collapsible() *Property {
	if o == nil {
		return nil
	}
	for _, p := range o.Properties {
		if p.Collapsible {
			return p
		}
	}
	return nil
}

func (o *Object) Required() []*Property {
	if o == nil {
		return nil
	}
	var res []*Property
	for _, p := range o.Properties {
		if p.Required {
			res = append(res, p)
		}
	}
	return res
}

func (o *Object) PropertyNames() string {
	names := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
