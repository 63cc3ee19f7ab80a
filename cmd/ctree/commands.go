package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "ctree").
		WithSynopsis("ctree [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ctreeMain(cfg, cc, args)
		}).
		WithSubs(
			ResolveCommand(cfg),
			RefineCommand(cfg),
			ExportCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg),
			BatchCommand(cfg),
			AmbiguitiesCommand(cfg))
}

const mainDescription = `ctree resolves module configuration for build targets.

Files given to a command are merged in order, later files taking precedence,
so templates come before the module file applying them. Keys may carry
contexts, as in 'settings@ios+debug' or 'test-dependencies@jvm', and the
target selected with -p, -v and -test picks the most specific declaration
of each key.`

func ResolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResolveConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Resolve, "resolve").
		WithAliases("r", "res").
		WithSynopsis("resolve [files]").
		WithDescription("resolve the complete configuration of the target").
		WithRun(func(cc *cli.Context, args []string) error {
			return resolveCmd(cfg, cc, args)
		})
}

func RefineCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RefineConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Refine, "refine").
		WithSynopsis("refine [files]").
		WithDescription("show the declarations selected for the target, before references are resolved").
		WithRun(func(cc *cli.Context, args []string) error {
			return refineCmd(cfg, cc, args)
		})
}

func ExportCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ExportConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Export, "export").
		WithAliases("x").
		WithSynopsis("export [files]").
		WithDescription("write the merged files as one file, with a main block and a test- block").
		WithRun(func(cc *cli.Context, args []string) error {
			return exportCmd(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [-merge] a b").
		WithDescription("diff the configurations of two files for the target").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffCmd(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch [-ops] <patchfile> [files]").
		WithDescription("apply a json or yaml patch to the resolved configuration of the target").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patchCmd(cfg, cc, args)
		})
}

func BatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Batch, "batch").
		WithAliases("b").
		WithSynopsis("batch [-limit n] [-gops] [files]").
		WithDescription("resolve the main and test configuration of every leaf platform").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return batchCmd(cfg, cc, args)
		})
}

func AmbiguitiesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AmbiguitiesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Ambiguities, "ambiguities").
		WithAliases("amb").
		WithSynopsis("ambiguities [files]").
		WithDescription("list keys declared for overlapping contexts where neither declaration is more specific").
		WithRun(func(cc *cli.Context, args []string) error {
			return ambiguitiesCmd(cfg, cc, args)
		})
}
