package main

import (
	"fmt"

	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/merge"
	"github.com/signadot/ctree/refine"

	"github.com/scott-cotton/cli"
)

func ambiguitiesCmd(cfg *AmbiguitiesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Ambiguities.Parse(cc, args)
	if err != nil {
		return err
	}
	c := &diag.Collector{}
	trees, err := cfg.load(cc, args, c)
	if err != nil {
		return err
	}
	merged := merge.Merge(trees...)
	if merged == nil {
		return report(c.Diagnostics())
	}
	for _, a := range refine.Ambiguities(merged, cfg.vocabulary()) {
		_, err := fmt.Fprintf(cc.Out, "%s: %s at %s and %s at %s, the last wins\n",
			a.Path, a.First.Contexts(), a.First.KeyTrace, a.Last.Contexts(), a.Last.KeyTrace)
		if err != nil {
			return err
		}
	}
	return report(c.Diagnostics())
}
