package refine

import (
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/tree"
)

// Ambiguity describes two declarations of one key which some target
// selects together without either being more specific.
type Ambiguity struct {
	Path  tree.Path
	First tree.KeyValue
	Last  tree.KeyValue
}

// Ambiguities lists the ambiguous declarations of a merged tree. Refining
// for a target selecting both declarations of an Ambiguity uses Last.
func Ambiguities(n *tree.Node, vocab *contexts.Vocabulary) []Ambiguity {
	var res []Ambiguity
	n.Walk(func(p tree.Path, n *tree.Node) bool {
		if n.Type != tree.MappingType {
			return true
		}
		for i := range n.Fields {
			a := n.Fields[i]
			for j := i + 1; j < len(n.Fields); j++ {
				b := n.Fields[j]
				if a.Key != b.Key || !ambiguous(vocab, a.Contexts(), b.Contexts()) {
					continue
				}
				res = append(res, Ambiguity{Path: p.Field(a.Key), First: a, Last: b})
			}
		}
		return true
	})
	return res
}

func ambiguous(vocab *contexts.Vocabulary, a, b contexts.Set) bool {
	ra, rb := a.Restrictions(), b.Restrictions()
	if ra.Equal(rb) || vocab.Compare(a, b) != 0 {
		return false
	}
	return vocab.Overlap(ra, rb)
}
