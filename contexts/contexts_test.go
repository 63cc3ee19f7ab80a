package contexts

import (
	"errors"
	"testing"
)

func set(cs ...Context) Set { return NewSet(cs...) }

func TestSet(t *testing.T) {
	s := set(Platform("ios"), Test, Platform("ios"), ReactivelySet)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if !s.Equal(set(ReactivelySet, Platform("ios"), Test)) {
		t.Errorf("Equal() ignores order: got false")
	}
	if got := s.String(); got != "{~ReactivelySet, test, ios}" {
		t.Errorf("String() = %q", got)
	}
	if got := s.Restrictions(); !got.Equal(set(Test, Platform("ios"))) {
		t.Errorf("Restrictions() = %s", got)
	}
	if !s.ContainsAll(set(Test)) || s.ContainsAll(set(Variant("debug"))) {
		t.Errorf("ContainsAll() wrong")
	}
	if got := s.Without(Test); got.Contains(Test) || got.Len() != 2 {
		t.Errorf("Without(test) = %s", got)
	}
	if (Set{}).Key() != "" || s.Key() == set(Platform("ios")).Key() {
		t.Errorf("Key() collides")
	}
	if a, b := set(Platform("a"), Variant("b")), set(Platform("a+3b")); a.Key() == b.Key() {
		t.Errorf("Key(%s) = Key(%s)", a, b)
	}
}

func TestContextNames(t *testing.T) {
	for _, name := range []string{"", "a+b", "a@b", "a b"} {
		v := NewVocabulary()
		if err := v.AddPlatform(name, ""); !errors.Is(err, ErrContext) {
			t.Errorf("AddPlatform(%q) = %v, want ErrContext", name, err)
		}
		if err := v.AddVariants("ok", name); !errors.Is(err, ErrContext) {
			t.Errorf("AddVariants(%q) = %v, want ErrContext", name, err)
		}
		if _, ok := v.Lookup("ok"); ok {
			t.Errorf("AddVariants(ok, %q) declared ok", name)
		}
	}
	v := NewVocabulary()
	if err := v.AddVariants("x", "x"); err == nil {
		t.Errorf("AddVariants(x, x) = nil")
	}
}

func TestClosure(t *testing.T) {
	v := Default()
	got := v.Closure(set(Platform("iosArm64"), Variant("debug")))
	want := set(Platform("iosArm64"), Platform("ios"), Platform("apple"),
		Platform("native"), Platform("common"), Variant("debug"))
	if !got.Equal(want) {
		t.Errorf("Closure() = %s, want %s", got, want)
	}
	var nilv *Vocabulary
	if got := nilv.Closure(set(Platform("ios"))); !got.Equal(set(Platform("ios"))) {
		t.Errorf("nil Closure() = %s", got)
	}
}

func TestIsCandidate(t *testing.T) {
	v := Default()
	target := set(Platform("iosArm64"))
	tests := []struct {
		c    Set
		want bool
	}{
		{set(), true},
		{set(ReactivelySet), true},
		{set(Platform("apple")), true},
		{set(Platform("iosArm64")), true},
		{set(Platform("jvm")), false},
		{set(Test), false},
		{set(Platform("ios"), Variant("debug")), false},
	}
	for _, tt := range tests {
		if got := v.IsCandidate(tt.c, target); got != tt.want {
			t.Errorf("IsCandidate(%s, %s) = %v, want %v", tt.c, target, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	v := Default()
	tests := []struct {
		a, b Set
		want int
	}{
		{set(Platform("ios")), set(Platform("apple")), 1},
		{set(Platform("apple")), set(Platform("ios")), -1},
		{set(Platform("ios"), Variant("debug")), set(Platform("ios")), 1},
		{set(Platform("ios")), set(), 1},
		{set(Test), set(), 1},
		{set(ReactivelySet), set(), 0},
		{set(Platform("ios")), set(Variant("debug")), 0},
		{set(Test, Platform("jvm")), set(Platform("ios")), 1},
	}
	for _, tt := range tests {
		if got := v.Compare(tt.a, tt.b); sign(got) != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	}
	return 0
}

func TestSatisfiable(t *testing.T) {
	v := Default()
	tests := []struct {
		sets []Set
		want bool
	}{
		{nil, true},
		{[]Set{set(Platform("ios"))}, true},
		{[]Set{set(Platform("ios"), Platform("apple"))}, true},
		{[]Set{set(Platform("ios"), Platform("jvm"))}, false},
		{[]Set{set(Platform("ios")), set(Platform("macos"))}, false},
		{[]Set{set(Variant("debug"), Variant("release"))}, false},
		{[]Set{set(Platform("ios"), Variant("debug"), Test)}, true},
		{[]Set{set(Platform("native")), set(Platform("iosArm64"))}, true},
	}
	for _, tt := range tests {
		if got := v.Satisfiable(tt.sets...); got != tt.want {
			t.Errorf("Satisfiable(%v) = %v, want %v", tt.sets, got, tt.want)
		}
	}
	if !v.Overlap(set(Platform("apple")), set(Variant("debug"))) {
		t.Errorf("Overlap(apple, debug) = false")
	}
}

func TestCheck(t *testing.T) {
	v := Default()
	if err := v.Check(set(Platform("ios"), Variant("debug"))); err != nil {
		t.Errorf("Check() = %v", err)
	}
	if err := v.Check(set(Platform("symbian"))); err == nil {
		t.Errorf("Check(unknown) = nil")
	}
	if err := v.Check(set(Platform("ios"), Platform("jvm"))); err == nil {
		t.Errorf("Check(ios+jvm) = nil")
	}
	if err := v.AddPlatform("ios", "apple"); err == nil {
		t.Errorf("AddPlatform(duplicate) = nil")
	}
	if err := v.AddPlatform("x", "nowhere"); err == nil {
		t.Errorf("AddPlatform(unknown parent) = nil")
	}
	if c, ok := v.Lookup("debug"); !ok || c != Variant("debug") {
		t.Errorf("Lookup(debug) = %v, %v", c, ok)
	}
	if c, ok := v.Lookup("test"); !ok || c != Test {
		t.Errorf("Lookup(test) = %v, %v", c, ok)
	}
}
