package resolve

import (
	"errors"
	"testing"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/parse"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

func mustParse(t *testing.T, src string, opts ...parse.ParseOption) *tree.Node {
	t.Helper()
	n, err := parse.Parse([]byte(src), opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return n
}

type resolveTest struct {
	name string
	in   string
	out  string
}

var resolveTests = []resolveTest{
	{
		name: "references and interpolations",
		in:   "a: 1\nb: \"${a}\"\nc: \"v${a}-${s.k}\"\ns:\n  k: x\nt: \"${s}\"",
		out:  `{a: 1, b: 1, c: "v1-x", s: {k: "x"}, t: {k: "x"}}`,
	},
	{
		name: "forward chain",
		in:   "x: \"${y}\"\ny: \"${z}\"\nz: 3",
		out:  `{x: 3, y: 3, z: 3}`,
	},
	{
		name: "through a reference",
		in:   "x: \"${y}\"\ny:\n  k: 1\nz: \"${x.k}\"",
		out:  `{x: {k: 1}, y: {k: 1}, z: 1}`,
	},
	{
		name: "list element",
		in:   "l: [a, b]\nr: \"${l[1]}\"",
		out:  `{l: ["a", "b"], r: "b"}`,
	},
	{
		name: "sibling inside referencing mapping",
		in:   "a:\n  b: \"${a.c}\"\n  c: 1",
		out:  `{a: {b: 1, c: 1}}`,
	},
	{
		name: "transform",
		in:   "n: 16\nm: \"${n | value + 1}\"\ni: \"sdk-${n | value * 2}\"",
		out:  `{n: 16, m: 17, i: "sdk-32"}`,
	},
}

func TestResolve(t *testing.T) {
	for _, rt := range resolveTests {
		t.Run(rt.name, func(t *testing.T) {
			res, ds, err := Resolve(mustParse(t, rt.in))
			if err != nil {
				t.Fatal(err)
			}
			if len(ds) != 0 {
				t.Errorf("Resolve() diagnostics = %v", ds)
			}
			if got := tree.Dump(res); got != rt.out {
				t.Errorf("Resolve() = %s, want %s", got, rt.out)
			}
		})
	}
}

func TestResolveKeepsInput(t *testing.T) {
	n := mustParse(t, "a: 1\nb: \"${a}\"")
	before := tree.Dump(n)
	if _, _, err := Resolve(n); err != nil {
		t.Fatal(err)
	}
	if after := tree.Dump(n); after != before {
		t.Errorf("Resolve() modified its input: %s -> %s", before, after)
	}
	plain := mustParse(t, "a: 1\ns:\n  k: [x]")
	res, _, _ := Resolve(plain)
	if res != plain {
		t.Errorf("Resolve() copied a tree without references")
	}
}

func TestDanglingReference(t *testing.T) {
	res, ds, err := Resolve(mustParse(t, "a: \"${missing.path}\"\nb: 2\nc: \"${b}\""))
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 1 || ds[0].Code != diag.UnresolvedReference || ds[0].Trace.Line != 1 {
		t.Errorf("Resolve() diagnostics = %v", ds)
	}
	a, _ := res.Lookup("a")
	if a.Type != tree.ErrorType || !a.Reported {
		t.Errorf("a = %s, want reported error", tree.Dump(a))
	}
	if c, _ := res.Lookup("c"); c.Type != tree.IntType || c.Int != 2 {
		t.Errorf("c = %s, want 2", tree.Dump(c))
	}
}

func TestCycle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a: \"${b}\"\nb: \"${a}\"\nc: 1", "reference cycle: a -> b -> a"},
		{"s:\n  x: \"${s}\"", "reference cycle: s -> s.x -> s"},
		{"a: \"v${a}\"", "reference cycle: a -> a"},
	}
	for _, tt := range tests {
		res, _, err := Resolve(mustParse(t, tt.in))
		if !errors.Is(err, ErrCycle) {
			t.Errorf("Resolve(%q) error = %v, want cycle", tt.in, err)
			continue
		}
		var ce *CycleError
		if !errors.As(err, &ce) || ce.Error() != tt.want {
			t.Errorf("Resolve(%q) error = %v, want %s", tt.in, err, tt.want)
		}
		if res != nil {
			t.Errorf("Resolve(%q) = %s, want nil", tt.in, tree.Dump(res))
		}
	}
}

func TestInterpolationErrors(t *testing.T) {
	tests := []struct {
		in   string
		code string
	}{
		{"s:\n  k: 1\ni: \"v${s}\"", diag.InterpolationType},
		{"i: \"v${nope}\"", diag.UnresolvedReference},
		{"n: 10\ni: \"${n | value / 3}\"", diag.TransformFailed},
	}
	for _, tt := range tests {
		res, ds, err := Resolve(mustParse(t, tt.in))
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.in, err)
		}
		if len(ds) != 1 || ds[0].Code != tt.code {
			t.Errorf("Resolve(%q) diagnostics = %v, want one %s", tt.in, ds, tt.code)
		}
		if i, _ := res.Lookup("i"); i.Type != tree.ErrorType {
			t.Errorf("Resolve(%q).i = %s, want error", tt.in, tree.Dump(i))
		}
	}
}

func TestInvalidValueReportedOnce(t *testing.T) {
	none := contexts.Set{}
	ref := func(p string) *tree.Node {
		return tree.Reference(tree.MustParsePath(p), nil, tree.Trace{}, none)
	}
	n := tree.Mapping(nil, []tree.KeyValue{
		tree.KV("e", tree.Error("bad", tree.Trace{}, none)),
		tree.KV("m", tree.Mapping(nil, []tree.KeyValue{
			tree.KV("x", tree.Error("worse", tree.Trace{}, none)),
		}, tree.Trace{}, none)),
		tree.KV("r", ref("e")),
		tree.KV("s", ref("m")),
	}, tree.Trace{}, none)
	res, ds, err := Resolve(n)
	if err != nil || len(ds) != 0 {
		t.Fatalf("Resolve() = %v, %v", ds, err)
	}
	_, _, ds = Complete(res)
	if got := ds.WithCode(diag.InvalidValue); len(got) != 2 {
		t.Errorf("Complete() invalid value diagnostics = %v, want 2", got)
	}
}

func TestComplete(t *testing.T) {
	none := contexts.Set{}
	ios := contexts.NewSet(contexts.Platform("ios"))
	n := tree.Mapping(nil, []tree.KeyValue{
		tree.KV("k", tree.FromString("v", tree.Trace{}, ios)),
		tree.KV("n", tree.NoValue(tree.Trace{}, none)),
		tree.KV("e", tree.Error("bad", tree.Trace{}, none)),
		tree.KV("r", tree.Error("seen", tree.Trace{}, none).MarkReported()),
		tree.KV("l", tree.List([]*tree.Node{
			tree.FromInt(1, tree.Trace{}, ios),
			tree.NoValue(tree.Trace{}, none),
		}, tree.Trace{}, ios)),
	}, tree.Trace{}, ios)
	res, ok, ds := Complete(n)
	if !ok {
		t.Fatal("Complete() absent")
	}
	if got := tree.Dump(res); got != `{k: "v", l: [1]}` {
		t.Errorf("Complete() = %s", got)
	}
	if len(ds) != 1 || ds[0].Severity != diag.Warning {
		t.Errorf("Complete() diagnostics = %v", ds)
	}
	_, _, ds = Complete(n, WithPolicy(Strict))
	if len(ds) != 1 || ds[0].Severity != diag.Error {
		t.Errorf("Complete(Strict) diagnostics = %v", ds)
	}
}

func TestCompleteSchema(t *testing.T) {
	opts := []parse.ParseOption{parse.ParseSchema(schema.Module), parse.ParseVocabulary(contexts.Default())}

	res, ok, ds := Complete(mustParse(t, "product: lib\ndependencies:\n  - org:a:1", opts...))
	if !ok || len(ds) != 0 {
		t.Fatalf("Complete() = %v, %v", ok, ds)
	}
	want := `{product: {type: lib}, dependencies: [{coordinates: "org:a:1", exported: false, scope: all}]}`
	if got := tree.Dump(res); got != want {
		t.Errorf("Complete() = %s, want %s", got, want)
	}
	scope, _ := res.Get(tree.MustParsePath("dependencies[0].scope"))
	if scope.Trace.Origin != tree.Default {
		t.Errorf("scope origin = %s", scope.Trace.Origin)
	}

	res, ok, _ = Complete(mustParse(t, "product: lib\ndependencies:\n  - org:a:1", opts...), WithDefaults(false))
	if !ok || tree.Dump(res) != `{product: {type: lib}, dependencies: [{coordinates: "org:a:1"}]}` {
		t.Errorf("Complete(no defaults) = %s", tree.Dump(res))
	}

	_, ok, ds = Complete(mustParse(t, "settings:\n  jvm:\n    release: 21", opts...))
	if ok {
		t.Errorf("Complete(no product) present")
	}
	if ms := ds.WithCode(diag.MissingValue); len(ms) != 1 || ms[0].Severity != diag.Error {
		t.Errorf("Complete(no product) diagnostics = %v", ds)
	}

	// the bad product type was reported when parsing
	_, ok, ds = Complete(mustParse(t, "product: war", opts...))
	if ok || len(ds) != 0 {
		t.Errorf("Complete(bad product) = %v, %v", ok, ds)
	}
}

func TestCompletePanics(t *testing.T) {
	tests := []*tree.Node{
		tree.Reference(tree.Path{"a"}, nil, tree.Trace{}, contexts.Set{}),
		tree.Mapping(nil, []tree.KeyValue{
			tree.KV("a", tree.FromInt(1, tree.Trace{}, contexts.Set{})),
			tree.KV("a", tree.FromInt(2, tree.Trace{}, contexts.Set{})),
		}, tree.Trace{}, contexts.Set{}),
	}
	for _, n := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Complete(%s) did not panic", tree.Dump(n))
				}
			}()
			Complete(n)
		}()
	}
}
