package contexts

import (
	"slices"
	"strings"
)

// Set is an immutable, sorted, duplicate free set of contexts. The zero
// value is the empty set, which guards unconditional declarations.
type Set struct {
	tags []Context
}

func NewSet(cs ...Context) Set {
	if len(cs) == 0 {
		return Set{}
	}
	tags := slices.Clone(cs)
	slices.SortFunc(tags, Compare)
	tags = slices.Compact(tags)
	return Set{tags: tags}
}

func (s Set) Len() int { return len(s.tags) }
func (s Set) IsEmpty() bool { return len(s.tags) == 0 }
func (s Set) Tags() []Context { return slices.Clone(s.tags) }

func (s Set) Contains(c Context) bool {
	_, found := slices.BinarySearchFunc(s.tags, c, Compare)
	return found
}

// ContainsAll reports whether every tag of o is in s.
func (s Set) ContainsAll(o Set) bool {
	for _, c := range o.tags {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

func (s Set) Equal(o Set) bool {
	return slices.Equal(s.tags, o.tags)
}

func (s Set) Union(o Set) Set {
	switch {
	case o.IsEmpty():
		return s
	case s.IsEmpty():
		return o
	}
	return NewSet(append(slices.Clone(s.tags), o.tags...)...)
}

func (s Set) With(cs ...Context) Set {
	return s.Union(NewSet(cs...))
}

func (s Set) Without(c Context) Set {
	if !s.Contains(c) {
		return s
	}
	res := make([]Context, 0, len(s.tags)-1)
	for _, t := range s.tags {
		if t != c {
			res = append(res, t)
		}
	}
	return Set{tags: res}
}

// Filter returns the tags of s for which keep returns true.
func (s Set) Filter(keep func(Context) bool) Set {
	var res []Context
	for _, t := range s.tags {
		if keep(t) {
			res = append(res, t)
		}
	}
	return Set{tags: res}
}

// Restrictions returns s without its markers.
func (s Set) Restrictions() Set {
	for _, t := range s.tags {
		if t.IsMarker() {
			return s.Filter(func(c Context) bool { return !c.IsMarker() })
		}
	}
	return s
}

// Key returns a string which identifies s, suitable as a map key.
func (s Set) Key() string {
	if len(s.tags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range s.tags {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteByte(byte('0' + t.Kind))
		b.WriteString(t.Name)
	}
	return b.String()
}

func (s Set) String() string {
	if len(s.tags) == 0 {
		return "{}"
	}
	parts := make([]string, len(s.tags))
	for i, t := range s.tags {
		parts[i] = t.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
