// Package refine selects, for a target context selection, the one value of
// each key which applies.
//
// Refining a merged tree for a target keeps the entries whose context sets
// are candidates for the target. Among the candidates of a key, mapping
// values are combined, least specific first, and any other value replaces
// what came before it, so the most specific declaration wins. Candidates
// which are equally specific are taken in declaration order: the last one
// declared wins and a warning is reported.
//
// Refined nodes keep the context set of the declaration they came from.
package refine

import (
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/tree"
)

type Refiner struct {
	vocab    *contexts.Vocabulary
	reporter diag.Reporter
}

type Option func(*Refiner)

// WithVocabulary sets the vocabulary used to compare context sets. Without
// one, context sets are compared as flat sets of tags.
func WithVocabulary(v *contexts.Vocabulary) Option {
	return func(r *Refiner) { r.vocab = v }
}

func WithReporter(rep diag.Reporter) Option {
	return func(r *Refiner) { r.reporter = rep }
}

func New(opts ...Option) *Refiner {
	r := &Refiner{reporter: diag.Discard}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Refine refines n for target. It returns false when n itself does not
// apply to target.
func Refine(n *tree.Node, target contexts.Set, opts ...Option) (*tree.Node, bool) {
	return New(opts...).Refine(n, target)
}

func (r *Refiner) Refine(n *tree.Node, target contexts.Set) (*tree.Node, bool) {
	if n == nil || !r.vocab.IsCandidate(n.Contexts, target) {
		return nil, false
	}
	res := r.refine(n, target)
	if debug.Refine() {
		debug.Logf("refined for %s: %v\n", target, res)
	}
	return res, true
}

// refine refines n, which is known to be a candidate.
func (r *Refiner) refine(n *tree.Node, target contexts.Set) *tree.Node {
	switch n.Type {
	case tree.MappingType:
		return r.refineMapping(n, target)
	case tree.ListType:
		values := make([]*tree.Node, 0, len(n.Values))
		changed := false
		for _, v := range n.Values {
			if !r.vocab.IsCandidate(v.Contexts, target) {
				changed = true
				continue
			}
			rv := r.refine(v, target)
			changed = changed || rv != v
			values = append(values, rv)
		}
		if !changed {
			return n
		}
		return n.WithValues(values)
	}
	return n
}

func (r *Refiner) refineMapping(n *tree.Node, target contexts.Set) *tree.Node {
	var keys []string
	groups := make(map[string][]tree.KeyValue, len(n.Fields))
	for _, kv := range n.Fields {
		if !r.vocab.IsCandidate(kv.Contexts(), target) {
			continue
		}
		if _, ok := groups[kv.Key]; !ok {
			keys = append(keys, kv.Key)
		}
		groups[kv.Key] = append(groups[kv.Key], kv)
	}
	fields := make([]tree.KeyValue, 0, len(keys))
	for _, k := range keys {
		cands := groups[k]
		r.sortBySpecificity(cands)
		acc := cands[0]
		for _, c := range cands[1:] {
			acc = r.combine(acc, c)
		}
		fields = append(fields, acc.WithValue(r.refine(acc.Value, target)))
	}
	return n.WithFields(fields)
}

// sortBySpecificity sorts candidates from least to most specific, keeping
// declaration order between candidates which are equally specific. It
// reports ties between different context sets.
func (r *Refiner) sortBySpecificity(cands []tree.KeyValue) {
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && r.vocab.Compare(cands[j-1].Contexts(), cands[j].Contexts()) > 0; j-- {
			cands[j-1], cands[j] = cands[j], cands[j-1]
		}
	}
	for i := 1; i < len(cands); i++ {
		a, b := cands[i-1].Contexts(), cands[i].Contexts()
		if r.vocab.Compare(a, b) != 0 || a.Restrictions().Equal(b.Restrictions()) {
			continue
		}
		diag.Warnf(r.reporter, diag.AmbiguousOverride, cands[i].KeyTrace,
			"%s: %s and %s are equally specific, using the one declared last at %s",
			cands[i].Key, a, b, cands[i].Value.Trace)
	}
}

func (r *Refiner) combine(acc, c tree.KeyValue) tree.KeyValue {
	switch {
	case c.Value.Type == tree.NoValueType:
		return acc
	case acc.Value.Type == tree.NoValueType:
		return c
	case c.Value.Type == tree.ErrorType && acc.Value.Type != tree.ErrorType:
		diag.Warnf(r.reporter, diag.InvalidValue, c.Value.Trace,
			"%s: invalid value %s, using the one at %s", c.Key, c.Value.String, acc.Value.Trace)
		return acc
	case acc.Value.Type != tree.MappingType || c.Value.Type != tree.MappingType:
		return c
	}
	fields := make([]tree.KeyValue, 0, len(acc.Value.Fields)+len(c.Value.Fields))
	fields = append(fields, acc.Value.Fields...)
	fields = append(fields, c.Value.Fields...)
	v := c.Value.WithFields(fields)
	if v.Decl == nil {
		v.Decl = acc.Value.Decl
	}
	if c.Property == nil {
		c.Property = acc.Property
	}
	return c.WithValue(v)
}
