package merge

import (
	"testing"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/parse"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
)

func mustParse(t *testing.T, src string) *tree.Node {
	t.Helper()
	n, err := parse.Parse([]byte(src), parse.ParseVocabulary(contexts.Default()))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return n
}

type mergeTest struct {
	name string
	in   []string
	out  string
}

var mergeTests = []mergeTest{
	{
		name: "later scalar wins",
		in:   []string{"a: 1", "a: 2"},
		out:  `{a: 2}`,
	},
	{
		name: "different contexts are kept",
		in:   []string{"v: 1", "v@ios: 2"},
		out:  `{v: 1, v@{ios}: 2}`,
	},
	{
		name: "collapsed entries keep first position",
		in:   []string{"x: 1\ny: 2", "y: 3\nx: 4\nz: 5"},
		out:  `{x: 4, y: 3, z: 5}`,
	},
	{
		name: "mappings merge recursively",
		in:   []string{"s:\n  k: a\n  j: b", "s:\n  k: c"},
		out:  `{s: {k: "c", j: "b"}}`,
	},
	{
		name: "lists are replaced",
		in:   []string{"deps: [x, y]", "deps: [z]"},
		out:  `{deps: ["z"]}`,
	},
	{
		name: "scalar replaces mapping",
		in:   []string{"s:\n  k: a", "s: none"},
		out:  `{s: "none"}`,
	},
	{
		name: "test entries are kept apart",
		in:   []string{"s:\n  k: a", "test-s:\n  k: b"},
		out:  `{s: {k: "a"}, s@{test}: {k@{test}: "b"}}`,
	},
}

func TestMerge(t *testing.T) {
	for _, tt := range mergeTests {
		t.Run(tt.name, func(t *testing.T) {
			trees := make([]*tree.Node, len(tt.in))
			for i, src := range tt.in {
				trees[i] = mustParse(t, src)
			}
			got := tree.Dump(Merge(trees...))
			if got != tt.out {
				t.Errorf("Merge() = %s, want %s", got, tt.out)
			}
		})
	}
}

// Inputs keep the kind of each entry across sources: a mapping replaced
// by a scalar in a middle source discards what came before it.
func TestMergeAssociative(t *testing.T) {
	srcs := [][]string{
		{"a: 1\ns:\n  k: x\n  l: [1, 2]", "s:\n  k: y\ns@ios:\n  k: z", "a: 3\ns:\n  l: [3]\n  m: q"},
		{"x: 1", "x@jvm: 2", "x@jvm: 3\nx: 4"},
		{"s:\n  t:\n    u: 1", "s:\n  t:\n    u: 2\n    w: [a]", "s@jvm:\n  t: 3\ns:\n  t:\n    v: 2"},
	}
	for _, src := range srcs {
		a, b, c := mustParse(t, src[0]), mustParse(t, src[1]), mustParse(t, src[2])
		left := tree.Dump(Merge(Merge(a, b), c))
		right := tree.Dump(Merge(a, Merge(b, c)))
		if left != right {
			t.Errorf("Merge not associative:\n(a b) c = %s\na (b c) = %s", left, right)
		}
		if all := tree.Dump(Merge(a, b, c)); all != left {
			t.Errorf("Merge(a, b, c) = %s, want %s", all, left)
		}
	}
}

func TestMergeKeepsInputs(t *testing.T) {
	a := mustParse(t, "s:\n  k: a")
	b := mustParse(t, "s:\n  j: b")
	before := tree.Dump(a)
	Merge(a, b)
	if after := tree.Dump(a); after != before {
		t.Errorf("Merge() modified its input: %s -> %s", before, after)
	}
	if Merge(nil, a, nil) != a {
		t.Errorf("Merge(nil, a, nil) != a")
	}
}

func TestMergeNoValue(t *testing.T) {
	none := contexts.Set{}
	a := tree.Mapping(nil, []tree.KeyValue{tree.KV("k", tree.FromString("v", tree.Trace{}, none))}, tree.Trace{}, none)
	b := tree.Mapping(nil, []tree.KeyValue{tree.KV("k", tree.NoValue(tree.Trace{}, none))}, tree.Trace{}, none)
	if got := tree.Dump(Merge(a, b)); got != `{k: "v"}` {
		t.Errorf("Merge(v, novalue) = %s", got)
	}
	if got := tree.Dump(Merge(b, a)); got != `{k: "v"}` {
		t.Errorf("Merge(novalue, v) = %s", got)
	}
}

func TestMergeDeclMismatch(t *testing.T) {
	none := contexts.Set{}
	a := tree.Mapping(schema.Product, nil, tree.Trace{}, none)
	b := tree.Mapping(schema.Dependency, nil, tree.Trace{}, none)
	defer func() {
		if recover() == nil {
			t.Errorf("Merge() of different declarations did not panic")
		}
	}()
	Merge(a, b)
}

func TestDefaults(t *testing.T) {
	d, err := Defaults(schema.Module)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Get(tree.MustParsePath("settings.kotlin.version"))
	if err != nil {
		t.Fatal(err)
	}
	if v.String != "2.0.0" || v.Trace.Origin != tree.Default {
		t.Errorf("settings.kotlin.version = %s (%s)", tree.Dump(v), v.Trace)
	}
	if _, ok := d.Lookup("product"); ok {
		t.Errorf("product has no default but is present")
	}
	s, _ := d.Lookup("settings")
	if s.Decl != schema.Settings {
		t.Errorf("settings Decl = %v", s.Decl)
	}

	own := mustParse(t, "settings:\n  kotlin:\n    version: 1.9.0")
	merged := Merge(d, own)
	v, _ = merged.Get(tree.MustParsePath("settings.kotlin.version"))
	if v.String != "1.9.0" {
		t.Errorf("own value did not override default: %s", tree.Dump(v))
	}
	if r, _ := merged.Get(tree.MustParsePath("settings.jvm.release")); r == nil || r.Int != 17 {
		t.Errorf("settings.jvm.release = %v", r)
	}
}
