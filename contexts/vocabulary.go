package contexts

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Vocabulary holds the known platforms, their hierarchy and the known
// variants. It is built once and then only read, so a Vocabulary may be
// shared between goroutines.
//
// A nil *Vocabulary is valid: it knows no hierarchy and no exclusivity, so
// the closure of a set is the set itself.
type Vocabulary struct {
	parents   map[string]string
	children  map[string][]string
	platforms []string
	variants  map[string]int
	groups    [][]string
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		parents:  map[string]string{},
		children: map[string][]string{},
		variants: map[string]int{},
	}
}

// AddPlatform declares a platform under parent. An empty parent declares a
// root platform.
func (v *Vocabulary) AddPlatform(name, parent string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := v.parents[name]; ok {
		return fmt.Errorf("platform %q already declared", name)
	}
	if parent != "" {
		if _, ok := v.parents[parent]; !ok {
			return fmt.Errorf("platform %q: unknown parent %q", name, parent)
		}
		v.children[parent] = append(v.children[parent], name)
	}
	v.parents[name] = parent
	v.platforms = append(v.platforms, name)
	return nil
}

// AddVariants declares one variant dimension. At most one variant of a
// dimension may be selected at a time.
func (v *Vocabulary) AddVariants(names ...string) error {
	for i, n := range names {
		if err := checkName(n); err != nil {
			return err
		}
		if _, ok := v.variants[n]; ok || slices.Contains(names[:i], n) {
			return fmt.Errorf("variant %q already declared", n)
		}
	}
	for _, n := range names {
		v.variants[n] = len(v.groups)
	}
	v.groups = append(v.groups, slices.Clone(names))
	return nil
}

// checkName rejects names which cannot be written after '@' in a key.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, "+@ ") {
		return fmt.Errorf("%w: invalid context name %q", ErrContext, name)
	}
	return nil
}

// Lookup maps a tag as written in a declaration to a Context.
func (v *Vocabulary) Lookup(name string) (Context, bool) {
	if name == Test.Name {
		return Test, true
	}
	if v == nil {
		return Context{}, false
	}
	if _, ok := v.parents[name]; ok {
		return Platform(name), true
	}
	if _, ok := v.variants[name]; ok {
		return Variant(name), true
	}
	return Context{}, false
}

// Platforms returns the declared platforms in declaration order.
func (v *Vocabulary) Platforms() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.platforms)
}

// Leaves returns the platforms without children.
func (v *Vocabulary) Leaves() []string {
	if v == nil {
		return nil
	}
	var res []string
	for _, p := range v.platforms {
		if len(v.children[p]) == 0 {
			res = append(res, p)
		}
	}
	return res
}

// Ancestors returns the parents of a platform, nearest first.
func (v *Vocabulary) Ancestors(platform string) []string {
	if v == nil {
		return nil
	}
	var res []string
	for p := v.parents[platform]; p != ""; p = v.parents[p] {
		res = append(res, p)
	}
	return res
}

// Closure adds to s every platform implied by a platform of s.
func (v *Vocabulary) Closure(s Set) Set {
	if v == nil {
		return s
	}
	var implied []Context
	for _, t := range s.tags {
		if t.Kind != KindPlatform {
			continue
		}
		for _, a := range v.Ancestors(t.Name) {
			implied = append(implied, Platform(a))
		}
	}
	if len(implied) == 0 {
		return s
	}
	return s.With(implied...)
}

// IsCandidate reports whether a declaration guarded by c applies to target.
func (v *Vocabulary) IsCandidate(c, target Set) bool {
	r := c.Restrictions()
	if r.IsEmpty() {
		return true
	}
	return v.Closure(target).ContainsAll(r)
}

// Compare orders two declaration sets by specificity. It returns a positive
// number when a is more specific than b, a negative one when b is more
// specific and 0 when neither is.
//
// A set whose closure strictly contains the other's closure is more
// specific: @ios beats @apple. Otherwise the set with more tags is more
// specific.
func (v *Vocabulary) Compare(a, b Set) int {
	ra, rb := a.Restrictions(), b.Restrictions()
	ca, cb := v.Closure(ra), v.Closure(rb)
	switch {
	case ca.Len() > cb.Len() && ca.ContainsAll(cb):
		return 1
	case cb.Len() > ca.Len() && cb.ContainsAll(ca):
		return -1
	}
	return cmp.Compare(ra.Len(), rb.Len())
}

// Check verifies that every tag of s is known and that the tags can be
// selected together.
func (v *Vocabulary) Check(s Set) error {
	if v == nil {
		return nil
	}
	for _, t := range s.tags {
		switch t.Kind {
		case KindPlatform, KindVariant:
			if c, ok := v.Lookup(t.Name); !ok || c.Kind != t.Kind {
				return fmt.Errorf("%w: unknown %s %q", ErrContext, t.Kind, t.Name)
			}
		}
	}
	if !v.Satisfiable(s) {
		return fmt.Errorf("%w: %s can never be selected together", ErrContext, s)
	}
	return nil
}

// Overlap reports whether some target selects both a and b.
func (v *Vocabulary) Overlap(a, b Set) bool {
	return v.Satisfiable(a, b)
}

// Satisfiable reports whether all tags of sets can be selected at once.
//
// Each platform and variant is a variable. A platform implies its parent,
// a platform with children implies one of them, leaf platforms exclude
// each other and so do the variants of a dimension.
func (v *Vocabulary) Satisfiable(sets ...Set) bool {
	if v == nil {
		return true
	}
	b := &formulaBuilder{c: logic.NewC(), vars: map[Context]z.Lit{}}
	var lits []z.Lit
	for _, p := range v.platforms {
		pl := b.lit(Platform(p))
		if parent := v.parents[p]; parent != "" {
			lits = append(lits, b.c.Ors(pl.Not(), b.lit(Platform(parent))))
		}
		if kids := v.children[p]; len(kids) > 0 {
			kidLits := make([]z.Lit, len(kids))
			for i, k := range kids {
				kidLits[i] = b.lit(Platform(k))
			}
			lits = append(lits, b.c.Ors(pl.Not(), b.c.Ors(kidLits...)))
		}
	}
	groups := make([][]z.Lit, len(v.groups))
	for i, grp := range v.groups {
		for _, n := range grp {
			groups[i] = append(groups[i], b.lit(Variant(n)))
		}
	}
	for _, s := range sets {
		for _, t := range s.tags {
			switch t.Kind {
			case KindPlatform, KindVariant:
				lits = append(lits, b.lit(t))
			}
		}
	}
	if len(lits) == 0 {
		return true
	}
	formula := b.c.Ands(lits...)

	g := gini.New()
	b.c.ToCnf(g)
	var leaves []z.Lit
	for _, p := range v.Leaves() {
		leaves = append(leaves, b.lit(Platform(p)))
	}
	addAtMostOne(g, leaves)
	for _, gl := range groups {
		addAtMostOne(g, gl)
	}
	g.Assume(formula)
	return g.Solve() == 1
}

type formulaBuilder struct {
	c    *logic.C
	vars map[Context]z.Lit
}

func (b *formulaBuilder) lit(c Context) z.Lit {
	if l, ok := b.vars[c]; ok {
		return l
	}
	l := b.c.Lit()
	b.vars[c] = l
	return l
}

func addAtMostOne(g *gini.Gini, lits []z.Lit) {
	for i := range lits {
		for j := i + 1; j < len(lits); j++ {
			g.Add(lits[i].Not())
			g.Add(lits[j].Not())
			g.Add(0)
		}
	}
}
