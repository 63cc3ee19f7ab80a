package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a value in a refined tree as a sequence of segments. A
// segment selects a mapping field by key or a list element by its decimal
// index.
//
// The text form joins field segments with '.' and writes index segments in
// brackets:
//
//	settings.kotlin.version
//	repositories[0].url
//	aliases.'jvm+android'
type Path []string

func (p Path) Field(key string) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, key)
}

func (p Path) Index(i int) Path {
	return p.Field(strconv.Itoa(i))
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is p or an ancestor of p.
func (p Path) HasPrefix(q Path) bool {
	return len(q) <= len(p) && p[:len(q)].Equal(q)
}

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if _, err := strconv.Atoi(seg); err == nil && i > 0 {
			b.WriteByte('[')
			b.WriteString(seg)
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(quoteSegment(seg))
	}
	return b.String()
}

func quoteSegment(seg string) string {
	if seg != "" && !strings.ContainsAny(seg, ".[]' \t|}{$") {
		return seg
	}
	return "'" + strings.ReplaceAll(seg, "'", "''") + "'"
}

// ParsePath parses the text form of a path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrPath)
	}
	var res Path
	for i := 0; i < len(s); {
		switch {
		case s[i] == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated index in %q", ErrPath, s)
			}
			idx := s[i+1 : i+j]
			if n, err := strconv.Atoi(idx); err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrPath, idx, s)
			}
			res = append(res, idx)
			i += j + 1
		case s[i] == '.':
			if i == 0 || i == len(s)-1 {
				return nil, fmt.Errorf("%w: empty segment in %q", ErrPath, s)
			}
			i++
			if s[i] == '.' || s[i] == '[' {
				return nil, fmt.Errorf("%w: empty segment in %q", ErrPath, s)
			}
		case s[i] == '\'':
			seg, n, err := parseQuotedSegment(s[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: %v in %q", ErrPath, err, s)
			}
			res = append(res, seg)
			i += n
		default:
			if i > 0 && s[i-1] != '.' {
				return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrPath, s[i], i, s)
			}
			j := strings.IndexAny(s[i:], ".[")
			if j < 0 {
				j = len(s) - i
			}
			res = append(res, s[i:i+j])
			i += j
		}
	}
	return res, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// parseQuotedSegment parses a single quoted segment at the start of s, in
// which '' stands for a quote. It returns the segment and the number of
// bytes consumed.
func parseQuotedSegment(s string) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, fmt.Errorf("unterminated quote")
}

// Get returns the node at p below n. Each step must select an existing
// field of a mapping or element of a list.
func (n *Node) Get(p Path) (*Node, error) {
	cur := n
	for i, seg := range p {
		switch cur.Type {
		case MappingType:
			next, ok := cur.Lookup(seg)
			if !ok {
				return nil, fmt.Errorf("%w: no field %q at %s", ErrNotFound, seg, p[:i])
			}
			cur = next
		case ListType:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Values) {
				return nil, fmt.Errorf("%w: no element %q at %s", ErrNotFound, seg, p[:i])
			}
			cur = cur.Values[idx]
		default:
			return nil, fmt.Errorf("%w: %s at %s has no children", ErrNotFound, cur.Type, p[:i])
		}
	}
	return cur, nil
}
