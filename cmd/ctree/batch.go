package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/signadot/ctree"
	"github.com/signadot/ctree/diag"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func batchCmd(cfg *BatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Batch.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Free {
		return fmt.Errorf("%w: batch needs the platform vocabulary, not -free", cli.ErrUsage)
	}
	if cfg.Quiet {
		theLog = newLog(os.Stderr, slog.LevelWarn)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			theLog.Warn("gops agent failed", "error", err)
		} else {
			defer agent.Close()
		}
	}
	c := &diag.Collector{}
	p := cfg.pipeline()
	srcs, err := cfg.sources(cc, args)
	if err != nil {
		return err
	}
	trees, err := p.Parse(srcs, c)
	if err != nil {
		return err
	}
	if err := report(c.Diagnostics()); err != nil {
		return err
	}

	var jobs []ctree.Job
	for _, target := range ctree.Targets(p.Vocabulary) {
		jobs = append(jobs, ctree.Job{Name: target.String(), Trees: trees, Target: target})
	}
	var opts []ctree.BatchOption
	if cfg.Limit != 0 {
		opts = append(opts, ctree.BatchLimit(cfg.Limit))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := p.ResolveAll(ctx, jobs, opts...)
	if err != nil {
		return err
	}

	failed, written := 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			theLog.Error("resolve failed", "target", r.Name, "error", r.Err)
			continue
		case r.Diagnostics.HasErrors():
			failed++
			theLog.Error("resolved with errors", "target", r.Name, "diagnostics", len(r.Diagnostics))
		default:
			theLog.Info("resolved", "target", r.Name, "diagnostics", len(r.Diagnostics))
		}
		for _, d := range r.Diagnostics {
			theLog.Warn(d.Msg, "target", r.Name, "code", d.Code, "severity", d.Severity, "at", d.Trace)
		}
		if r.Tree == nil {
			continue
		}
		if written > 0 {
			fmt.Fprintf(cc.Out, "---\n")
		}
		written++
		fmt.Fprintf(cc.Out, "# %s\n", r.Name)
		if err := cfg.output(cc.Out, r.Tree); err != nil {
			return fmt.Errorf("error encoding %s: %w", r.Name, err)
		}
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
