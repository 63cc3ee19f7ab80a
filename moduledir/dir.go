// Package moduledir reads a module directory: its module file and the
// templates the module file applies.
package moduledir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/signadot/ctree"
	"github.com/signadot/ctree/debug"

	"github.com/goccy/go-yaml"
)

const (
	ModuleFile     = "module.yaml"
	TemplateSuffix = ".module-template.yaml"
)

var ErrTemplate = errors.New("template error")

type Dir struct {
	Root      string   `json:"-"`
	Module    string   `json:"module"`
	Templates []string `json:"templates,omitempty"`
}

// header holds what is read from a module or template file before it is
// parsed as a tree.
type header struct {
	Apply []string `yaml:"apply"`
}

// Open opens the module directory path, or the directory of the module
// file path. The templates named in the module's apply list are found
// relative to the directory and must exist.
func Open(path string) (*Dir, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	dir := &Dir{Root: path, Module: filepath.Join(path, ModuleFile)}
	if !fi.IsDir() {
		dir.Root, dir.Module = filepath.Dir(path), path
	}
	h, err := readHeader(dir.Module)
	if err != nil {
		return nil, err
	}
	for _, a := range h.Apply {
		tp := a
		if !filepath.IsAbs(tp) {
			tp = filepath.Join(dir.Root, tp)
		}
		if !strings.HasSuffix(tp, TemplateSuffix) {
			return nil, fmt.Errorf("%w: %s: %q does not end in %s", ErrTemplate, dir.Module, a, TemplateSuffix)
		}
		th, err := readHeader(tp)
		if err != nil {
			return nil, fmt.Errorf("%w: %s applies %q: %w", ErrTemplate, dir.Module, a, err)
		}
		if len(th.Apply) != 0 {
			return nil, fmt.Errorf("%w: %s: templates cannot apply templates", ErrTemplate, tp)
		}
		dir.Templates = append(dir.Templates, tp)
	}
	if debug.Load() {
		debug.Logf("opened module %s with templates %v\n", dir.Module, dir.Templates)
	}
	return dir, nil
}

func readHeader(path string) (*header, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	h := &header{}
	if err := yaml.Unmarshal(d, h); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	return h, nil
}

// Sources reads the templates, in the order they are applied, followed by
// the module file, the order in which they are merged.
func (d *Dir) Sources() ([]ctree.Source, error) {
	paths := append(append([]string{}, d.Templates...), d.Module)
	res := make([]ctree.Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("could not read %q: %w", p, err)
		}
		res = append(res, ctree.Source{Name: p, Data: data})
	}
	return res, nil
}
