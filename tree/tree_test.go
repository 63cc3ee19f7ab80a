package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/schema"
)

var none = contexts.Set{}

func str(s string) *Node { return FromString(s, Trace{}, none) }
func num(i int64) *Node { return FromInt(i, Trace{}, none) }
func list(vs ...*Node) *Node {
	return List(vs, Trace{}, none)
}
func mapping(kvs ...KeyValue) *Node {
	return Mapping(nil, kvs, Trace{}, none)
}

func TestCompare(t *testing.T) {
	ios := contexts.NewSet(contexts.Platform("ios"))
	tests := []struct {
		name     string
		a, b     *Node
		expected int
	}{
		{"Null < NoValue", Null(Trace{}, none), NoValue(Trace{}, none), -1},
		{"Bool < Int", FromBool(true, Trace{}, none), num(1), -1},
		{"Int < String", num(1), str("1"), -1},
		{"String < Path", str("a"), FromPath("a", Trace{}, none), -1},
		{"false < true", FromBool(false, Trace{}, none), FromBool(true, Trace{}, none), -1},
		{"Int < Int", num(1), num(2), -1},
		{"String == String", str("a"), str("a"), 0},
		{"traces ignored", str("a"), FromString("a", At("m.yaml", 3, 4), none), 0},
		{"contexts ignored", str("a"), FromString("a", Trace{}, ios), 0},
		{"Short List < Long List", list(num(1)), list(num(1), num(2)), -1},
		{"List Element", list(num(1)), list(num(2)), -1},
		{"Mapping Key", mapping(KV("a", num(1))), mapping(KV("b", num(1))), -1},
		{"Mapping Value", mapping(KV("a", num(1))), mapping(KV("a", num(2))), -1},
		{"Mapping Order", mapping(KV("a", num(1)), KV("b", num(1))), mapping(KV("b", num(1)), KV("a", num(1))), -1},
		{"Enum",
			FromEnum(schema.ProductTypes, "JVMApp", Trace{}, none),
			FromEnum(schema.ProductTypes, "JVMLib", Trace{}, none), -1},
		{"Reference",
			Reference(MustParsePath("a.b"), nil, Trace{}, none),
			Reference(MustParsePath("a.b"), &Transform{Name: "upper(value)"}, Trace{}, none), -1},
		{"Error", Error("x", Trace{}, none), Error("x", Trace{}, ios), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare() reversed = %v, want %v", got, -tt.expected)
			}
			if tt.expected == 0 && tt.a.Hash() != tt.b.Hash() {
				t.Errorf("Hash() differs for equal nodes")
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
		text string
	}{
		{"a", Path{"a"}, "a"},
		{"settings.kotlin.version", Path{"settings", "kotlin", "version"}, "settings.kotlin.version"},
		{"repositories[0].url", Path{"repositories", "0", "url"}, "repositories[0].url"},
		{"a[1][2]", Path{"a", "1", "2"}, "a[1][2]"},
		{"aliases.'jvm.android'", Path{"aliases", "jvm.android"}, "aliases.'jvm.android'"},
		{"'it''s'", Path{"it's"}, "'it''s'"},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if err != nil {
			t.Errorf("ParsePath(%q) error: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParsePath(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
		if s := got.String(); s != tt.text {
			t.Errorf("String() = %q, want %q", s, tt.text)
		}
	}
	for _, bad := range []string{"", "a.", ".a", "a..b", "a[x]", "a[1", "a[0]b", "'open"} {
		if _, err := ParsePath(bad); err == nil {
			t.Errorf("ParsePath(%q) succeeded", bad)
		}
	}
}

func TestGet(t *testing.T) {
	root := mapping(
		KV("settings", mapping(KV("kotlin", mapping(KV("version", str("2.0")))))),
		KV("repositories", list(mapping(KV("url", str("https://r"))))),
	)
	tests := []struct {
		path string
		want *Node
	}{
		{"settings.kotlin.version", str("2.0")},
		{"repositories[0].url", str("https://r")},
	}
	for _, tt := range tests {
		got, err := root.Get(MustParsePath(tt.path))
		if err != nil {
			t.Errorf("Get(%s) error: %v", tt.path, err)
			continue
		}
		if !Equal(got, tt.want) {
			t.Errorf("Get(%s) = %s, want %s", tt.path, Dump(got), Dump(tt.want))
		}
	}
	for _, p := range []string{"settings.java", "repositories[1]", "settings.kotlin.version.x"} {
		if _, err := root.Get(MustParsePath(p)); err == nil {
			t.Errorf("Get(%s) succeeded", p)
		}
	}
}

func TestWalk(t *testing.T) {
	root := mapping(
		KV("a", list(str("x"), str("y"))),
		KV("b", mapping(KV("c", num(1)))),
	)
	var paths []string
	root.Walk(func(p Path, n *Node) bool {
		paths = append(paths, p.String())
		return true
	})
	want := []string{"", "a", "a[0]", "a[1]", "b", "b.c"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Walk() paths mismatch (-want +got):\n%s", diff)
	}
}

func TestDump(t *testing.T) {
	ios := contexts.NewSet(contexts.Platform("ios"))
	n := mapping(
		KV("a", str("x")),
		KV("a", FromInt(2, Trace{}, ios)),
		KV("r", Interpolation([]Part{TextPart("v"), RefPart(Path{"a"})}, Trace{}, none)),
	)
	want := `{a: "x", a@{ios}: 2, r: "v${a}"}`
	if got := Dump(n); got != want {
		t.Errorf("Dump() = %s, want %s", got, want)
	}
}

func TestImmutableHelpers(t *testing.T) {
	ios := contexts.NewSet(contexts.Platform("ios"))
	n := str("a")
	m := n.WithContexts(ios)
	if !n.Contexts.IsEmpty() || !m.Contexts.Equal(ios) {
		t.Errorf("WithContexts() modified its receiver")
	}
	if n.WithContexts(none) != n {
		t.Errorf("WithContexts(same) copied")
	}
	e := Error("bad", Trace{}, none)
	if r := e.MarkReported(); !r.Reported || e.Reported {
		t.Errorf("MarkReported() = %v, receiver %v", r.Reported, e.Reported)
	}
	en := FromEnum(schema.ProductTypes, "JVMApp", Trace{}, none)
	if got := en.EnumSchemaValue(); got != "jvm/app" {
		t.Errorf("EnumSchemaValue() = %q", got)
	}
	if c, ok := en.EnumConstant(); !ok || c != schema.JVMApp {
		t.Errorf("EnumConstant() = %v, %v", c, ok)
	}
}
