package tree

// Transform converts the resolved target of a reference. Name identifies
// the transform in comparisons and in serialized output.
type Transform struct {
	Name  string
	Apply func(*Node) (*Node, error)
}

// Part is one piece of an interpolation: literal text, or a reference when
// Ref is not empty.
type Part struct {
	Text      string
	Ref       Path
	Transform *Transform
}

func TextPart(s string) Part { return Part{Text: s} }

func RefPart(p Path) Part { return Part{Ref: p} }

func (p Part) IsRef() bool { return len(p.Ref) > 0 }

func transformName(t *Transform) string {
	if t == nil {
		return ""
	}
	return t.Name
}
