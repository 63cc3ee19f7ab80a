// Package ctree resolves module configuration for build targets. A
// Pipeline parses configuration sources, merges them after the defaults of
// the schema, refines the merged tree for a target, resolves references and
// completes the result.
package ctree

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/merge"
	"github.com/signadot/ctree/parse"
	"github.com/signadot/ctree/refine"
	"github.com/signadot/ctree/resolve"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"
	"golang.org/x/sync/errgroup"
)

// Pipeline turns the sources of a module into the complete configuration
// tree of a target. The zero value works on free form trees without a
// vocabulary.
type Pipeline struct {
	Vocabulary *contexts.Vocabulary
	Schema     *schema.Object
	Policy     resolve.Policy

	// Reactive marks parsed entries as set reactively, so that Export
	// can tell them from defaults.
	Reactive bool
}

// Source is one configuration document, e.g. a template or a module file.
type Source struct {
	Name string
	Data []byte
}

type Result struct {
	// Tree is nil when nothing complete remains for the target.
	Tree        *tree.Node
	Diagnostics diag.Diagnostics
}

// Parse parses the sources in order, reporting to r. Syntax errors in
// several sources are all returned.
func (p *Pipeline) Parse(srcs []Source, r diag.Reporter) ([]*tree.Node, error) {
	var (
		res  = make([]*tree.Node, 0, len(srcs))
		errs *multierror.Error
	)
	for _, src := range srcs {
		n, err := parse.Parse(src.Data,
			parse.ParseSource(src.Name),
			parse.ParseVocabulary(p.Vocabulary),
			parse.ParseSchema(p.Schema),
			parse.ParseReactive(p.Reactive),
			parse.ParseReporter(r))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", src.Name, err))
			continue
		}
		res = append(res, n)
	}
	return res, errs.ErrorOrNil()
}

// Merge merges parsed trees in order of increasing precedence, after the
// defaults of the schema.
func (p *Pipeline) Merge(trees []*tree.Node) (*tree.Node, error) {
	inputs := make([]*tree.Node, 0, len(trees)+1)
	if p.Schema != nil {
		d, err := merge.Defaults(p.Schema)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, d)
	}
	return merge.Merge(append(inputs, trees...)...), nil
}

// Resolve merges trees, refines the result for target, resolves its
// references and completes it. Problems with the configuration are
// returned as diagnostics; the error is for a bad target and for
// reference cycles.
func (p *Pipeline) Resolve(trees []*tree.Node, target contexts.Set) (*Result, error) {
	if err := p.Vocabulary.Check(target); err != nil {
		return nil, err
	}
	merged, err := p.Merge(trees)
	if err != nil {
		return nil, err
	}
	return p.ResolveMerged(merged, target)
}

// ResolveMerged is Resolve for an already merged tree.
func (p *Pipeline) ResolveMerged(merged *tree.Node, target contexts.Set) (*Result, error) {
	c := &diag.Collector{}
	res := &Result{}
	refined, ok := refine.Refine(merged, target,
		refine.WithVocabulary(p.Vocabulary),
		refine.WithReporter(c))
	if !ok {
		res.Diagnostics = c.Diagnostics()
		return res, nil
	}
	resolved, ds, err := resolve.Resolve(refined)
	for _, d := range ds {
		c.Report(d)
	}
	if err != nil {
		res.Diagnostics = c.Diagnostics()
		return res, err
	}
	policy := p.Policy
	if policy == nil {
		policy = resolve.DefaultPolicy
	}
	complete, ok, ds := resolve.Complete(resolved, resolve.WithPolicy(policy))
	for _, d := range ds {
		c.Report(d)
	}
	if ok {
		res.Tree = complete
	}
	res.Diagnostics = c.Diagnostics()
	if debug.Resolve() {
		debug.Logf("resolved for %s: %v (%d diagnostics)\n", target, res.Tree, len(res.Diagnostics))
	}
	return res, nil
}

// Job is one resolution of a batch.
type Job struct {
	Name   string
	Trees  []*tree.Node
	Target contexts.Set
}

type JobResult struct {
	Job
	*Result

	// Err is the error of resolving Job. It does not stop the batch.
	Err error
}

type batchOpts struct {
	limit int
}

type BatchOption func(*batchOpts)

// BatchLimit bounds the number of jobs resolved at once. It defaults to
// GOMAXPROCS; n <= 0 removes the bound.
func BatchLimit(n int) BatchOption {
	return func(o *batchOpts) { o.limit = n }
}

// ResolveAll resolves jobs concurrently. The results are in the order of
// jobs. Trees are shared between jobs and never modified. ResolveAll
// stops starting jobs once ctx is done and then returns ctx's error along
// with the results finished so far.
func (p *Pipeline) ResolveAll(ctx context.Context, jobs []Job, opts ...BatchOption) ([]JobResult, error) {
	o := &batchOpts{limit: runtime.GOMAXPROCS(0)}
	for _, f := range opts {
		f(o)
	}
	g, gctx := errgroup.WithContext(ctx)
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}
	res := make([]JobResult, len(jobs))
	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := p.Resolve(jobs[i].Trees, jobs[i].Target)
			res[i] = JobResult{Job: jobs[i], Result: r, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

// Targets lists the main and test targets of every leaf platform of v,
// the targets of a full build matrix.
func Targets(v *contexts.Vocabulary) []contexts.Set {
	var res []contexts.Set
	for _, leaf := range v.Leaves() {
		c := contexts.Platform(leaf)
		res = append(res, contexts.NewSet(c), contexts.NewSet(c, contexts.Test))
	}
	return res
}
