package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/ctree/tree"
)

func MustString(node *tree.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
