package ctxdiff

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ctree/tree"
)

func TestMergePatch(t *testing.T) {
	base := mustParse(t, "a: 1\ns:\n  k: x\nz: gone").StripContexts()
	over := mustParse(t, "a: 2\nn: new\ns:\n  k: x").StripContexts()
	patch, err := MergePatch(base, over)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(patch, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": float64(2), "n": "new", "z": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergePatch() mismatch (-want +got):\n%s", diff)
	}

	applied, err := ApplyMergePatch(base, patch, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !tree.Equal(applied, over) {
		t.Errorf("ApplyMergePatch() = %s, want %s", tree.Dump(applied), tree.Dump(over))
	}
	if applied.Trace.Origin != tree.Derived {
		t.Errorf("ApplyMergePatch() origin = %s", applied.Trace.Origin)
	}
}

func TestApplyJSONPatch(t *testing.T) {
	base := mustParse(t, "a: 1\nl: [x]").StripContexts()
	ops := []byte(`[{"op": "replace", "path": "/a", "value": 5}, {"op": "add", "path": "/l/1", "value": "y"}]`)
	got, err := ApplyJSONPatch(base, ops, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{a: 5, l: ["x", "y"]}`; tree.Dump(got) != want {
		t.Errorf("ApplyJSONPatch() = %s, want %s", tree.Dump(got), want)
	}
	if _, err := ApplyJSONPatch(base, []byte(`{"op": 1}`), nil); err == nil {
		t.Errorf("ApplyJSONPatch(bad ops) succeeded")
	}
}
