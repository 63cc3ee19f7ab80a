package tree

import (
	"strconv"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/schema"
)

type Node struct {
	Type     Type
	Trace    Trace
	Contexts contexts.Set

	Bool bool
	Int  int64
	// String holds the value of StringType and PathType nodes, the entry
	// name of EnumType nodes and the message of ErrorType nodes.
	String string

	Enum *schema.Enum
	// Reported is set on ErrorType nodes whose problem has already been
	// turned into a diagnostic.
	Reported bool

	Ref       Path
	Transform *Transform
	Parts     []Part

	Values []*Node
	Fields []KeyValue
	// Decl is the object declaration of a typed mapping, nil for free
	// form maps.
	Decl *schema.Object
}

func FromBool(v bool, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: BoolType, Bool: v, Trace: tr, Contexts: cs}
}

func FromInt(v int64, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: IntType, Int: v, Trace: tr, Contexts: cs}
}

func FromString(v string, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: StringType, String: v, Trace: tr, Contexts: cs}
}

func FromPath(v string, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: PathType, String: v, Trace: tr, Contexts: cs}
}

// FromEnum creates an enum leaf selecting the entry named entry of decl.
func FromEnum(decl *schema.Enum, entry string, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: EnumType, Enum: decl, String: entry, Trace: tr, Contexts: cs}
}

func Null(tr Trace, cs contexts.Set) *Node {
	return &Node{Type: NullType, Trace: tr, Contexts: cs}
}

func NoValue(tr Trace, cs contexts.Set) *Node {
	return &Node{Type: NoValueType, Trace: tr, Contexts: cs}
}

func Error(msg string, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: ErrorType, String: msg, Trace: tr, Contexts: cs}
}

func Reference(p Path, tf *Transform, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: ReferenceType, Ref: p, Transform: tf, Trace: tr, Contexts: cs}
}

func Interpolation(parts []Part, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: InterpolationType, Parts: parts, Trace: tr, Contexts: cs}
}

func List(values []*Node, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: ListType, Values: values, Trace: tr, Contexts: cs}
}

func Mapping(decl *schema.Object, fields []KeyValue, tr Trace, cs contexts.Set) *Node {
	return &Node{Type: MappingType, Decl: decl, Fields: fields, Trace: tr, Contexts: cs}
}

// shallow returns a copy of n sharing its children.
func (n *Node) shallow() *Node {
	res := *n
	return &res
}

func (n *Node) WithContexts(cs contexts.Set) *Node {
	if n.Contexts.Equal(cs) {
		return n
	}
	res := n.shallow()
	res.Contexts = cs
	return res
}

func (n *Node) WithTrace(tr Trace) *Node {
	res := n.shallow()
	res.Trace = tr
	return res
}

// WithValues returns a copy of the list n holding values.
func (n *Node) WithValues(values []*Node) *Node {
	res := n.shallow()
	res.Values = values
	return res
}

// WithFields returns a copy of the mapping n holding fields.
func (n *Node) WithFields(fields []KeyValue) *Node {
	res := n.shallow()
	res.Fields = fields
	return res
}

// MarkReported returns a copy of the error leaf n which is marked as
// already reported.
func (n *Node) MarkReported() *Node {
	if n.Reported {
		return n
	}
	res := n.shallow()
	res.Reported = true
	return res
}

// Lookup returns the value of the first field named key.
func (n *Node) Lookup(key string) (*Node, bool) {
	if n == nil || n.Type != MappingType {
		return nil, false
	}
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			return n.Fields[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the keys of mapping n in order, duplicates included.
func (n *Node) Keys() []string {
	res := make([]string, len(n.Fields))
	for i := range n.Fields {
		res[i] = n.Fields[i].Key
	}
	return res
}

// EnumSchemaValue returns the serialized form of an enum leaf.
func (n *Node) EnumSchemaValue() string {
	if n.Enum == nil {
		return n.String
	}
	if ent, ok := n.Enum.Entry(n.String); ok {
		return ent.SchemaValue
	}
	return n.String
}

// EnumConstant returns the Go constant of an enum leaf when the enum is
// built in.
func (n *Node) EnumConstant() (any, bool) {
	if n.Enum == nil {
		return nil, false
	}
	return n.Enum.Constant(n.String)
}

// Text returns the textual form of a scalar leaf.
func (n *Node) Text() (string, bool) {
	switch n.Type {
	case StringType, PathType:
		return n.String, true
	case EnumType:
		return n.EnumSchemaValue(), true
	case BoolType:
		if n.Bool {
			return "true", true
		}
		return "false", true
	case IntType:
		return strconv.FormatInt(n.Int, 10), true
	}
	return "", false
}

// Walk calls f for n and each of its descendants in pre-order. Children
// are not visited when f returns false.
func (n *Node) Walk(f func(p Path, n *Node) bool) {
	n.walk(nil, f)
}

func (n *Node) walk(p Path, f func(Path, *Node) bool) {
	if !f(p, n) {
		return
	}
	switch n.Type {
	case ListType:
		for i, v := range n.Values {
			v.walk(p.Index(i), f)
		}
	case MappingType:
		for i := range n.Fields {
			n.Fields[i].Value.walk(p.Field(n.Fields[i].Key), f)
		}
	}
}

// StripContexts returns n with the context sets of n and all of its
// descendants removed.
func (n *Node) StripContexts() *Node {
	res := n.WithContexts(contexts.Set{})
	switch n.Type {
	case ListType:
		values := make([]*Node, len(n.Values))
		for i, v := range n.Values {
			values[i] = v.StripContexts()
		}
		res = res.WithValues(values)
	case MappingType:
		fields := make([]KeyValue, len(n.Fields))
		for i := range n.Fields {
			fields[i] = n.Fields[i].WithValue(n.Fields[i].Value.StripContexts())
		}
		res = res.WithFields(fields)
	}
	return res
}
