package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signadot/ctree/ctxdiff"
	"github.com/signadot/ctree/encode"
	"github.com/signadot/ctree/tree"

	"github.com/scott-cotton/cli"
)

func diffCmd(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	var ns [2]*tree.Node
	for i, arg := range args {
		n, ds, err := cfg.resolveFiles(cc, []string{arg})
		if err != nil {
			report(ds)
			return fmt.Errorf("error resolving %s: %w", arg, err)
		}
		if err := report(ds); err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("nothing complete remains of %s", arg)
		}
		ns[i] = n
	}
	differ, err := diffTrees(cfg, cc.Out, ns[0], ns[1])
	if err != nil {
		return err
	}
	if differ {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffTrees(cfg *DiffConfig, w io.Writer, a, b *tree.Node) (bool, error) {
	if cfg.Merge {
		patch, err := ctxdiff.MergePatch(a, b)
		if err != nil {
			return false, err
		}
		if _, err := fmt.Fprintf(w, "%s\n", patch); err != nil {
			return false, err
		}
		return string(patch) != "{}", nil
	}
	var ta, tb bytes.Buffer
	if err := encode.Encode(a, &ta); err != nil {
		return false, err
	}
	if err := encode.Encode(b, &tb); err != nil {
		return false, err
	}
	if ta.String() == tb.String() {
		return false, nil
	}
	var colors *encode.Colors
	if cfg.Color || cfg.isTerminal(w) {
		colors = encode.NewColors()
	}
	_, err := io.WriteString(w, encode.TextDiff(ta.String(), tb.String(), colors))
	return true, err
}
