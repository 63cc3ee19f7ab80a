package tree

import (
	"strconv"
	"strings"
)

// Dump renders n on one line, with context sets, for debugging and test
// failure messages.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n *Node) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	switch n.Type {
	case NullType:
		b.WriteString("null")
	case NoValueType:
		b.WriteString("<novalue>")
	case BoolType, IntType:
		s, _ := n.Text()
		b.WriteString(s)
	case StringType:
		b.WriteString(strconv.Quote(n.String))
	case PathType:
		b.WriteString("path(" + n.String + ")")
	case EnumType:
		b.WriteString(n.EnumSchemaValue())
	case ErrorType:
		b.WriteString("<error: " + n.String + ">")
	case ReferenceType:
		b.WriteString(refText(n.Ref, n.Transform))
	case InterpolationType:
		b.WriteByte('"')
		for _, p := range n.Parts {
			if p.IsRef() {
				b.WriteString(refText(p.Ref, p.Transform))
				continue
			}
			b.WriteString(p.Text)
		}
		b.WriteByte('"')
	case ListType:
		b.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			dump(b, v)
			if !v.Contexts.IsEmpty() {
				b.WriteString("@" + v.Contexts.String())
			}
		}
		b.WriteByte(']')
	case MappingType:
		b.WriteByte('{')
		for i := range n.Fields {
			kv := &n.Fields[i]
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(kv.Key)
			if cs := kv.Contexts(); !cs.IsEmpty() {
				b.WriteString("@" + cs.String())
			}
			b.WriteString(": ")
			dump(b, kv.Value)
		}
		b.WriteByte('}')
	}
}

func refText(p Path, tf *Transform) string {
	if tf == nil {
		return "${" + p.String() + "}"
	}
	return "${" + p.String() + " | " + tf.Name + "}"
}
