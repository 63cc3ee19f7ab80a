package encode

import (
	"io"

	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/ctxdiff"
	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/refine"
	"github.com/signadot/ctree/tree"
)

var (
	mainBlock = contexts.NewSet(contexts.ReactivelySet)
	testBlock = contexts.NewSet(contexts.Test)
)

// Export writes the merged tree as configuration text: first the values
// declared for the main sources, then, after a blank line, the values the
// test sources change, with their top level keys prefixed "test-".
//
// Main values are recognized by the contexts.ReactivelySet marker, so
// merged should come from sources parsed with parse.ParseReactive.
func Export(merged *tree.Node, w io.Writer, opts ...EncodeOption) error {
	es := newState(opts)
	rOpts := []refine.Option{refine.WithVocabulary(es.vocab)}
	refMain, okRef := refine.Refine(merged, contexts.Set{}, rOpts...)
	var (
		main   *tree.Node
		okMain bool
	)
	if okRef {
		main, okMain = ctxdiff.Diff(refMain, nil, mainBlock)
	} else {
		refMain = nil
	}
	var (
		test   *tree.Node
		okTest bool
	)
	if refTest, ok := refine.Refine(merged, testBlock, rOpts...); ok {
		test, okTest = ctxdiff.Diff(refTest, refMain, testBlock)
	}
	if debug.Export() {
		debug.Logf("export main %v\nexport test %v\n", main, test)
	}
	if okMain {
		if err := Encode(main, w, opts...); err != nil {
			return err
		}
	}
	if !okTest {
		return nil
	}
	if okMain {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return Encode(test, w, append(opts[:len(opts):len(opts)], EncodeTestBlock(true))...)
}
