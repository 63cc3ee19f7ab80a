package main

import (
	"fmt"

	"github.com/signadot/ctree/ctxdiff"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func patchCmd(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	d, err := readArg(cc, args[0])
	if err != nil {
		return err
	}
	// json is yaml, so patches may be written in either
	patch, err := yaml.YAMLToJSON(d)
	if err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	n, ds, err := cfg.resolveFiles(cc, args[1:])
	if err != nil {
		report(ds)
		return err
	}
	if n == nil {
		return report(ds)
	}
	if cfg.JSONPatch {
		n, err = ctxdiff.ApplyJSONPatch(n, patch, cfg.schemaType())
	} else {
		n, err = ctxdiff.ApplyMergePatch(n, patch, cfg.schemaType())
	}
	if err != nil {
		return fmt.Errorf("error applying patch %s: %w", args[0], err)
	}
	if err := cfg.output(cc.Out, n); err != nil {
		return err
	}
	return report(ds)
}
