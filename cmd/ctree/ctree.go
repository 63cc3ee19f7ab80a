package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

// Environment variables giving the target when -p or -v is not set.
const (
	PlatformEnv = "CTREE_PLATFORM"
	VariantEnv  = "CTREE_VARIANT"
)

func ctreeMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Platform == "" {
		cfg.Platform = os.Getenv(PlatformEnv)
	}
	if cfg.Variant == "" {
		cfg.Variant = os.Getenv(VariantEnv)
	}
	if cfg.Free && cfg.Dir != "" {
		return fmt.Errorf("%w: -free and -d exclude each other", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// outOpt handles -o, "-" being stdout.
func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.Create(a)
	if err != nil {
		return nil, fmt.Errorf("could not create output %q: %w", a, err)
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}
