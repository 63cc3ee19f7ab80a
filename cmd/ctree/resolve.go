package main

import (
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/encode"
	"github.com/signadot/ctree/merge"
	"github.com/signadot/ctree/refine"
	"github.com/signadot/ctree/tree"

	"github.com/scott-cotton/cli"
)

// resolveFiles resolves the files for the target of cfg. The tree is nil
// when nothing complete remains.
func (cfg *MainConfig) resolveFiles(cc *cli.Context, files []string) (*tree.Node, diag.Diagnostics, error) {
	target, err := cfg.target()
	if err != nil {
		return nil, nil, err
	}
	c := &diag.Collector{}
	trees, err := cfg.load(cc, files, c)
	if err != nil {
		return nil, c.Diagnostics(), err
	}
	res, err := cfg.pipeline().Resolve(trees, target)
	if err != nil {
		return nil, c.Diagnostics(), err
	}
	return res.Tree, append(c.Diagnostics(), res.Diagnostics...), nil
}

func resolveCmd(cfg *ResolveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Resolve.Parse(cc, args)
	if err != nil {
		return err
	}
	n, ds, err := cfg.resolveFiles(cc, args)
	if err != nil {
		report(ds)
		return err
	}
	if n != nil {
		if err := cfg.output(cc.Out, n); err != nil {
			return err
		}
	}
	return report(ds)
}

func refineCmd(cfg *RefineConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Refine.Parse(cc, args)
	if err != nil {
		return err
	}
	target, err := cfg.target()
	if err != nil {
		return err
	}
	c := &diag.Collector{}
	trees, err := cfg.load(cc, args, c)
	if err != nil {
		return err
	}
	merged, err := cfg.pipeline().Merge(trees)
	if err != nil {
		return err
	}
	refined, ok := refine.Refine(merged, target,
		refine.WithVocabulary(cfg.vocabulary()),
		refine.WithReporter(c))
	if ok {
		if err := encode.Encode(refined, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	}
	return report(c.Diagnostics())
}

func exportCmd(cfg *ExportConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Export.Parse(cc, args)
	if err != nil {
		return err
	}
	c := &diag.Collector{}
	trees, err := cfg.load(cc, args, c)
	if err != nil {
		return err
	}
	// defaults are left out: only what the files declare is written
	if merged := merge.Merge(trees...); merged != nil {
		if err := encode.Export(merged, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	}
	return report(c.Diagnostics())
}
