package ctxdiff

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/gomap"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

func marshalJSON(n *tree.Node) ([]byte, error) {
	v, err := gomap.ToAny(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func unmarshalJSON(d []byte, typ *schema.Type) (*tree.Node, error) {
	var v any
	if err := json.Unmarshal(d, &v); err != nil {
		return nil, err
	}
	return gomap.FromAny(v, typ, tree.Trace{Origin: tree.Derived}, contexts.Set{})
}

// MergePatch returns the RFC 7386 merge patch turning the complete tree
// base into the complete tree over.
func MergePatch(base, over *tree.Node) ([]byte, error) {
	a, err := marshalJSON(base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	b, err := marshalJSON(over)
	if err != nil {
		return nil, fmt.Errorf("over: %w", err)
	}
	return jsonpatch.CreateMergePatch(a, b)
}

// ApplyMergePatch applies an RFC 7386 merge patch to the complete tree
// base. The result is shaped by typ, which may be nil.
func ApplyMergePatch(base *tree.Node, patch []byte, typ *schema.Type) (*tree.Node, error) {
	d, err := marshalJSON(base)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, err
	}
	return unmarshalJSON(out, typ)
}

// ApplyJSONPatch applies RFC 6902 patch operations to the complete tree
// base. The result is shaped by typ, which may be nil.
func ApplyJSONPatch(base *tree.Node, ops []byte, typ *schema.Type) (*tree.Node, error) {
	patch, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, err
	}
	d, err := marshalJSON(base)
	if err != nil {
		return nil, err
	}
	out, err := patch.Apply(d)
	if err != nil {
		return nil, err
	}
	return unmarshalJSON(out, typ)
}
