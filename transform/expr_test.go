package transform

import (
	"errors"
	"testing"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/tree"
)

func TestExpr(t *testing.T) {
	none := contexts.Set{}
	tests := []struct {
		src  string
		in   *tree.Node
		want string
	}{
		{`value + 1`, tree.FromInt(16, tree.Trace{}, none), `17`},
		{`upper(value)`, tree.FromString("abc", tree.Trace{}, none), `"ABC"`},
		{`basename(value)`, tree.FromPath("src/main/app", tree.Trace{}, none), `"app"`},
		{`identifier(value)`, tree.FromString("My-App.core", tree.Trace{}, none), `"my_app.core"`},
		{`len(value)`, tree.List([]*tree.Node{
			tree.FromString("a", tree.Trace{}, none),
			tree.FromString("b", tree.Trace{}, none),
		}, tree.Trace{}, none), `2`},
		{`value.a ?? "none"`, tree.Mapping(nil, nil, tree.Trace{}, none), `"none"`},
	}
	for _, tt := range tests {
		tf, err := Expr(tt.src)
		if err != nil {
			t.Fatalf("Expr(%q): %v", tt.src, err)
		}
		if tf.Name != tt.src {
			t.Errorf("Expr(%q).Name = %q", tt.src, tf.Name)
		}
		got, err := tf.Apply(tt.in)
		if err != nil {
			t.Errorf("Expr(%q).Apply(%s): %v", tt.src, tree.Dump(tt.in), err)
			continue
		}
		if tree.Dump(got) != tt.want {
			t.Errorf("Expr(%q).Apply(%s) = %s, want %s", tt.src, tree.Dump(tt.in), tree.Dump(got), tt.want)
		}
		if got.Trace.Origin != tree.Derived {
			t.Errorf("Expr(%q) origin = %s", tt.src, got.Trace.Origin)
		}
	}
}

func TestExprErrors(t *testing.T) {
	if _, err := Expr(`value +`); !errors.Is(err, ErrTransform) {
		t.Errorf("Expr(bad syntax) error = %v", err)
	}
	tf, err := Expr(`value / 3`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tf.Apply(tree.FromInt(10, tree.Trace{}, contexts.Set{})); !errors.Is(err, ErrTransform) {
		t.Errorf("Apply(non integral result) error = %v", err)
	}
	ref := tree.Reference(tree.Path{"x"}, nil, tree.Trace{}, contexts.Set{})
	if _, err := tf.Apply(ref); !errors.Is(err, ErrTransform) {
		t.Errorf("Apply(reference) error = %v", err)
	}
}
