// Package transform builds reference transforms from expr-lang expressions.
//
// A transform written `${settings.android.namespace | upper(value)}` is
// evaluated against the resolved target of the reference, bound to the
// variable value in plain Go form (see package gomap).
package transform

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/signadot/ctree/gomap"
	"github.com/signadot/ctree/tree"
)

var ErrTransform = errors.New("transform error")

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("basename", func(params ...any) (any, error) {
			return filepath.Base(params[0].(string)), nil
		},
			new(func(string) string)),
		expr.Function("dirname", func(params ...any) (any, error) {
			return filepath.Dir(params[0].(string)), nil
		},
			new(func(string) string)),
		expr.Function("identifier", func(params ...any) (any, error) {
			return identifier(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// identifier maps s to a dotted lower case identifier, as used for
// namespaces derived from module names.
func identifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			return r
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return '_'
	}, s)
}

// Expr compiles src into a Transform named src.
func Expr(src string) (*tree.Transform, error) {
	src = strings.TrimSpace(src)
	prg, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrTransform, src, err)
	}
	return &tree.Transform{
		Name: src,
		Apply: func(n *tree.Node) (*tree.Node, error) {
			v, err := gomap.ToAny(n)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrTransform, src, err)
			}
			out, err := expr.Run(prg, map[string]any{"value": v})
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrTransform, src, err)
			}
			tr := n.Trace
			tr.Origin = tree.Derived
			res, err := gomap.FromAny(out, nil, tr, n.Contexts)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrTransform, src, err)
			}
			return res, nil
		},
	}, nil
}
