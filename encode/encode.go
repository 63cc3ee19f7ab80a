package encode

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/tree"
)

const testPrefix = "test-"

type EncState struct {
	indent int
	test   bool
	vocab  *contexts.Vocabulary

	Color func(tree.Type, ColorAttr, string) string
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Encode writes node as YAML. No-value leaves are left out and error
// leaves fail with ErrEncoding. Context sets are not written: node should
// be refined, or be one block of Export.
func Encode(node *tree.Node, w io.Writer, opts ...EncodeOption) error {
	e := &encoder{w: w, es: newState(opts)}
	switch node.Type {
	case tree.MappingType:
		e.fields(node.Fields, 0, true, false)
	case tree.ListType:
		e.items(node, 0)
	default:
		e.write(e.scalar(node) + "\n")
	}
	return e.err
}

type encoder struct {
	w   io.Writer
	es  *EncState
	err error
}

func (e *encoder) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *encoder) color(t tree.Type, a ColorAttr, s string) string {
	if e.es.Color == nil {
		return s
	}
	return e.es.Color(t, a, s)
}

func (e *encoder) indentString(depth int) string {
	return strings.Repeat(" ", e.es.indent*depth)
}

func present(kv tree.KeyValue) bool {
	return kv.Value.Type != tree.NoValueType
}

// fields writes the entries of a mapping at depth. With inline the first
// entry continues the current line, as after a list dash. Top level
// entries are separated by blank lines.
func (e *encoder) fields(fields []tree.KeyValue, depth int, top, inline bool) {
	n := 0
	for _, kv := range fields {
		if !present(kv) {
			continue
		}
		if top && n > 0 {
			e.write("\n")
		}
		if !inline || n > 0 {
			e.write(e.indentString(depth))
		}
		n++
		key := kv.Key
		attr := FieldColor
		if top && e.es.test {
			key = testPrefix + key
			attr = TestColor
		}
		e.write(e.color(tree.MappingType, attr, quote(key)) + e.color(tree.MappingType, SepColor, ":"))
		e.value(kv.Value, depth)
	}
	if n == 0 && inline {
		e.write("{}\n")
	}
}

// value writes what follows "key:" for an entry at depth.
func (e *encoder) value(v *tree.Node, depth int) {
	switch v.Type {
	case tree.ListType:
		if len(v.Values) == 0 {
			e.write(" []\n")
			return
		}
		e.write("\n")
		e.items(v, depth+1)
	case tree.MappingType:
		if i := collapsible(v); i >= 0 && len(rest(v, i)) == 0 {
			e.write(" " + e.scalar(v.Fields[i].Value) + "\n")
			return
		}
		if !anyPresent(v.Fields) {
			e.write(" {}\n")
			return
		}
		e.write("\n")
		e.fields(v.Fields, depth+1, false, false)
	default:
		e.write(" " + e.scalar(v) + "\n")
	}
}

func (e *encoder) items(l *tree.Node, depth int) {
	for _, v := range l.Values {
		if v.Type == tree.NoValueType {
			continue
		}
		e.write(e.indentString(depth) + e.color(tree.ListType, SepColor, "-"))
		switch v.Type {
		case tree.ListType:
			if len(v.Values) == 0 {
				e.write(" []\n")
				continue
			}
			e.write("\n")
			e.items(v, depth+1)
		case tree.MappingType:
			e.write(" ")
			if i := collapsible(v); i >= 0 {
				e.collapsed(v, i, depth)
				continue
			}
			e.fields(v.Fields, depth+1, false, true)
		default:
			e.write(" " + e.scalar(v) + "\n")
		}
	}
}

// collapsed writes the list element v, at depth, in short form: the
// collapsible value, then either nothing, a single shorthand property or
// the remaining properties nested below.
func (e *encoder) collapsed(v *tree.Node, i int, depth int) {
	e.write(e.scalar(v.Fields[i].Value))
	others := rest(v, i)
	if len(others) == 0 {
		e.write("\n")
		return
	}
	e.write(e.color(tree.MappingType, SepColor, ":"))
	if len(others) == 1 && isShorthand(others[0]) {
		e.write(" " + e.color(tree.MappingType, FieldColor, others[0].Key) + "\n")
		return
	}
	e.write("\n")
	e.fields(others, depth+2, false, false)
}

// collapsible returns the index of the scalar value of the collapsible
// property of the mapping v, or -1.
func collapsible(v *tree.Node) int {
	col := v.Decl.Collapsible()
	if col == nil {
		return -1
	}
	for i := range v.Fields {
		kv := &v.Fields[i]
		if kv.Key == col.Name && kv.Value.Type.IsScalar() {
			return i
		}
	}
	return -1
}

func rest(v *tree.Node, skip int) []tree.KeyValue {
	var res []tree.KeyValue
	for i, kv := range v.Fields {
		if i != skip && present(kv) {
			res = append(res, kv)
		}
	}
	return res
}

func anyPresent(fields []tree.KeyValue) bool {
	for _, kv := range fields {
		if present(kv) {
			return true
		}
	}
	return false
}

func isShorthand(kv tree.KeyValue) bool {
	return kv.Property != nil && kv.Property.Shorthand && kv.Value.Type == tree.BoolType && kv.Value.Bool
}

func (e *encoder) scalar(v *tree.Node) string {
	var s string
	switch v.Type {
	case tree.NullType:
		s = "null"
	case tree.BoolType, tree.IntType:
		s, _ = v.Text()
	case tree.StringType, tree.PathType:
		t, _ := v.Text()
		s = quote(strings.ReplaceAll(t, "${", "$${"))
	case tree.EnumType:
		t, _ := v.Text()
		s = quote(t)
	case tree.ReferenceType:
		s = quote(refText(v.Ref, v.Transform))
	case tree.InterpolationType:
		var b strings.Builder
		for _, p := range v.Parts {
			if p.IsRef() {
				b.WriteString(refText(p.Ref, p.Transform))
				continue
			}
			b.WriteString(strings.ReplaceAll(p.Text, "${", "$${"))
		}
		s = quote(b.String())
	case tree.ErrorType:
		if e.err == nil {
			e.err = fmt.Errorf("%w: invalid value at %s: %s", ErrEncoding, v.Trace, v.String)
		}
		return ""
	default:
		if e.err == nil {
			e.err = fmt.Errorf("%w: %s is not a scalar", ErrEncoding, v.Type)
		}
		return ""
	}
	return e.color(v.Type, ValueColor, s)
}

func refText(p tree.Path, tf *tree.Transform) string {
	if tf == nil {
		return "${" + p.String() + "}"
	}
	return "${" + p.String() + " | " + tf.Name + "}"
}
