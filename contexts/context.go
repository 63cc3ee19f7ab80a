// Package contexts provides the tags under which configuration values are
// declared and the rules for choosing between declarations.
//
// A declaration is guarded by a Set of Context tags. A target selection is
// also a Set. A declaration is a candidate for a target when every tag of the
// declaration is implied by the target under a Vocabulary, and among several
// candidates for the same key the most specific one wins.
//
// Default-kind tags are markers: they record how a value came to be declared
// (for example ReactivelySet, for values emitted by the main declaration
// block) and never restrict or rank candidates.
package contexts

import (
	"cmp"
	"fmt"
)

type Kind uint8

const (
	KindDefault Kind = iota
	KindTest
	KindPlatform
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindTest:
		return "test"
	case KindPlatform:
		return "platform"
	case KindVariant:
		return "variant"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type Context struct {
	Kind Kind
	Name string
}

var (
	// ReactivelySet marks declarations of the main (non-test) block.
	ReactivelySet = Context{Kind: KindDefault, Name: "ReactivelySet"}
	// Test marks test-only declarations.
	Test = Context{Kind: KindTest, Name: "test"}
)

func Platform(name string) Context { return Context{Kind: KindPlatform, Name: name} }
func Variant(name string) Context { return Context{Kind: KindVariant, Name: name} }

// IsMarker reports whether c is a Default-kind marker.
func (c Context) IsMarker() bool {
	return c.Kind == KindDefault
}

func (c Context) String() string {
	switch c.Kind {
	case KindDefault:
		return "~" + c.Name
	case KindTest:
		return "test"
	}
	return c.Name
}

// Compare orders contexts by kind, then name.
func Compare(a, b Context) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
