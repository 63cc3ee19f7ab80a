package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signadot/ctree"
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/encode"
	"github.com/signadot/ctree/moduledir"
	"github.com/signadot/ctree/resolve"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/tree"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool   `cli:"name=color desc='encode with color'"`
	J     bool   `cli:"name=j aliases=json desc='output complete trees as json'"`
	Free  bool   `cli:"name=free desc='read free form trees, without the module schema'"`
	Dir   string `cli:"name=d aliases=dir desc='module directory or file, read after the templates it applies'"`

	Test     bool   `cli:"name=test desc='select test declarations'"`
	Platform string `cli:"name=p aliases=platform desc='target platform'"`
	Variant  string `cli:"name=v aliases=variant desc='target variants, separated by +'"`
	Strict   bool   `cli:"name=strict desc='report every dropped invalid value as an error'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) vocabulary() *contexts.Vocabulary {
	if cfg.Free {
		return nil
	}
	return contexts.Default()
}

func (cfg *MainConfig) pipeline() *ctree.Pipeline {
	p := &ctree.Pipeline{Vocabulary: cfg.vocabulary(), Reactive: true}
	if !cfg.Free {
		p.Schema = schema.Module
	}
	if cfg.Strict {
		p.Policy = resolve.Strict
	}
	return p
}

func (cfg *MainConfig) schemaType() *schema.Type {
	if cfg.Free {
		return nil
	}
	return schema.ObjectOf(schema.Module)
}

// target builds the target context set from -p, -v and -test.
func (cfg *MainConfig) target() (contexts.Set, error) {
	var cs []contexts.Context
	if cfg.Test {
		cs = append(cs, contexts.Test)
	}
	vocab := cfg.vocabulary()
	add := func(name string, kind contexts.Kind) error {
		if vocab == nil {
			if kind == contexts.KindPlatform {
				cs = append(cs, contexts.Platform(name))
			} else {
				cs = append(cs, contexts.Variant(name))
			}
			return nil
		}
		c, ok := vocab.Lookup(name)
		if !ok || c.Kind != kind {
			return fmt.Errorf("%w: unknown %s %q", cli.ErrUsage, kind, name)
		}
		cs = append(cs, c)
		return nil
	}
	if cfg.Platform != "" {
		if err := add(cfg.Platform, contexts.KindPlatform); err != nil {
			return contexts.Set{}, err
		}
	}
	if cfg.Variant != "" {
		for _, v := range strings.Split(cfg.Variant, "+") {
			if err := add(v, contexts.KindVariant); err != nil {
				return contexts.Set{}, err
			}
		}
	}
	res := contexts.NewSet(cs...)
	if err := vocab.Check(res); err != nil {
		return contexts.Set{}, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return res, nil
}

// sources reads the module given with -d, if any, and then the files
// named by args, "-" being standard input.
func (cfg *MainConfig) sources(cc *cli.Context, args []string) ([]ctree.Source, error) {
	var res []ctree.Source
	if cfg.Dir != "" {
		dir, err := moduledir.Open(cfg.Dir)
		if err != nil {
			return nil, err
		}
		if res, err = dir.Sources(); err != nil {
			return nil, err
		}
	} else if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		d, err := readArg(cc, path)
		if err != nil {
			return nil, err
		}
		res = append(res, ctree.Source{Name: path, Data: d})
	}
	return res, nil
}

func readArg(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

// load parses the files named by args, reporting to r.
func (cfg *MainConfig) load(cc *cli.Context, args []string, r diag.Reporter) ([]*tree.Node, error) {
	srcs, err := cfg.sources(cc, args)
	if err != nil {
		return nil, err
	}
	return cfg.pipeline().Parse(srcs, r)
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeVocabulary(cfg.vocabulary())}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	if cfg.isTerminal(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// output writes a complete tree in the selected format.
func (cfg *MainConfig) output(w io.Writer, n *tree.Node) error {
	if cfg.J {
		return encode.EncodeJSON(n, w)
	}
	return encode.Encode(n, w, cfg.encOpts(w)...)
}

// report writes diagnostics to standard error and fails if one of them is
// an error.
func report(ds diag.Diagnostics) error {
	for _, d := range ds {
		fmt.Fprintln(os.Stderr, d)
	}
	if ds.HasErrors() {
		return cli.ExitCodeErr(1)
	}
	return nil
}

type ResolveConfig struct {
	*MainConfig
	Resolve *cli.Command
}

type RefineConfig struct {
	*MainConfig
	Refine *cli.Command
}

type ExportConfig struct {
	*MainConfig
	Export *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='output a json merge patch instead of a text diff'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	JSONPatch bool `cli:"name=ops desc='patch holds json patch operations rather than a merge patch'"`

	Patch *cli.Command
}

type BatchConfig struct {
	*MainConfig
	Limit int  `cli:"name=limit desc='number of targets resolved at once, default GOMAXPROCS'"`
	Gops  bool `cli:"name=gops desc='start a gops agent'"`
	Quiet bool `cli:"name=q aliases=quiet desc='log only failures and diagnostics'"`

	Batch *cli.Command
}

type AmbiguitiesConfig struct {
	*MainConfig
	Ambiguities *cli.Command
}
