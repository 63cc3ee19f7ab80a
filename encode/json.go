package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/signadot/ctree/tree"
)

// EncodeJSON writes the complete tree node as indented JSON, keeping the
// order of mapping keys.
func EncodeJSON(node *tree.Node, w io.Writer) error {
	buf := &bytes.Buffer{}
	if err := encodeJSON(node, buf); err != nil {
		return err
	}
	out := &bytes.Buffer{}
	if err := json.Indent(out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func encodeJSON(n *tree.Node, buf *bytes.Buffer) error {
	switch n.Type {
	case tree.NullType:
		buf.WriteString("null")
	case tree.BoolType, tree.IntType:
		s, _ := n.Text()
		buf.WriteString(s)
	case tree.StringType, tree.PathType, tree.EnumType:
		s, _ := n.Text()
		writeJSONString(buf, s)
	case tree.ListType:
		buf.WriteByte('[')
		i := 0
		for _, v := range n.Values {
			if v.Type == tree.NoValueType {
				continue
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			if err := encodeJSON(v, buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case tree.MappingType:
		buf.WriteByte('{')
		i := 0
		for _, kv := range n.Fields {
			if !present(kv) {
				continue
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			writeJSONString(buf, kv.Key)
			buf.WriteByte(':')
			if err := encodeJSON(kv.Value, buf); err != nil {
				return fmt.Errorf("%s: %w", kv.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: cannot encode %s at %s in JSON", ErrEncoding, n.Type, n.Trace)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	d, _ := json.Marshal(s)
	buf.Write(d)
}
