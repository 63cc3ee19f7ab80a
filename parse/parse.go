// Package parse reads YAML module configuration into trees.
//
// Keys may carry context tags: `settings@ios+debug` applies only when both
// ios and debug are selected and a top level key prefixed `test-` applies
// to tests. Nested entries inherit the contexts of their parents.
//
// Strings of the form `${a.b[0]}` are references to other places of the
// same tree, optionally followed by an expression transform as in
// `${a.b | upper(value)}`. Text mixing literals and references is an
// interpolation. `$${` stands for a literal `${`.
package parse

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/debug"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/schema"
	"github.com/signadot/ctree/transform"
	"github.com/signadot/ctree/tree"
)

const testPrefix = "test-"

// Parse reads one YAML document. Problems with single entries, such as
// unknown properties or values of the wrong type, are reported as
// diagnostics and do not stop parsing. Parse fails only on malformed YAML
// and on documents which are not mappings.
func Parse(d []byte, opts ...ParseOption) (*tree.Node, error) {
	pOpts := &parseOpts{reporter: diag.Discard}
	for _, f := range opts {
		f(pOpts)
	}
	f, err := parser.ParseBytes(d, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, pOpts.source, err)
	}
	var body ast.Node
	switch len(f.Docs) {
	case 0:
	case 1:
		body = unwrap(f.Docs[0].Body)
	default:
		return nil, fmt.Errorf("%w: %s: %d documents, want one", ErrParse, pOpts.source, len(f.Docs))
	}
	p := &docParser{parseOpts: pOpts}
	var cs contexts.Set
	if pOpts.reactive {
		cs = contexts.NewSet(contexts.ReactivelySet)
	}
	var typ *schema.Type
	if pOpts.schema != nil {
		typ = schema.ObjectOf(pOpts.schema)
	}
	var res *tree.Node
	switch body.(type) {
	case nil:
		res = tree.Mapping(pOpts.schema, nil, tree.Trace{Source: pOpts.source}, cs)
	case *ast.MappingNode, *ast.MappingValueNode:
		res = p.mapping(body, typ, cs, true)
	default:
		return nil, fmt.Errorf("%w at %s", ErrTopLevel, p.trace(body))
	}
	if debug.Parse() {
		debug.Logf("parsed %s: %v\n", pOpts.source, res)
	}
	return res, nil
}

type docParser struct {
	*parseOpts
}

func unwrap(an ast.Node) ast.Node {
	for {
		switch x := an.(type) {
		case *ast.TagNode:
			an = x.Value
		case *ast.AnchorNode:
			an = x.Value
		case *ast.CommentGroupNode:
			return nil
		default:
			return an
		}
	}
}

func entries(an ast.Node) []*ast.MappingValueNode {
	switch x := an.(type) {
	case *ast.MappingNode:
		return x.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{x}
	}
	return nil
}

func keyText(k ast.Node) string {
	if s, ok := k.(*ast.StringNode); ok {
		return s.Value
	}
	if tk := k.GetToken(); tk != nil {
		return tk.Value
	}
	return k.String()
}

func (p *docParser) trace(an ast.Node) tree.Trace {
	if an != nil {
		if tk := an.GetToken(); tk != nil && tk.Position != nil {
			return tree.At(p.source, tk.Position.Line, tk.Position.Column)
		}
	}
	return tree.Trace{Source: p.source}
}

// invalid reports a value problem and returns the error leaf standing for
// the value.
func (p *docParser) invalid(tr tree.Trace, cs contexts.Set, format string, args ...any) *tree.Node {
	msg := fmt.Sprintf(format, args...)
	diag.Errorf(p.reporter, diag.InvalidValue, tr, "%s", msg)
	return tree.Error(msg, tr, cs).MarkReported()
}

func (p *docParser) mapping(an ast.Node, typ *schema.Type, cs contexts.Set, top bool) *tree.Node {
	tr := p.trace(an)
	var (
		decl *schema.Object
		elem *schema.Type
	)
	if typ != nil {
		switch typ.Kind {
		case schema.ObjectKind:
			decl = typ.Object
		case schema.MapKind:
			elem = typ.Elem
		default:
			return p.invalid(tr, cs, "mapping is not a %s", typ)
		}
	}
	var fields []tree.KeyValue
	for _, mv := range entries(an) {
		if kv, ok := p.entry(mv, decl, elem, cs, top); ok {
			fields = append(fields, kv)
		}
	}
	return tree.Mapping(decl, fields, tr, cs)
}

func (p *docParser) entry(mv *ast.MappingValueNode, decl *schema.Object, elem *schema.Type, cs contexts.Set, top bool) (tree.KeyValue, bool) {
	ktr := p.trace(mv.Key)
	key, cs, ok := p.key(keyText(mv.Key), ktr, cs, top)
	if !ok {
		return tree.KeyValue{}, false
	}
	vt := elem
	var prop *schema.Property
	if decl != nil {
		prop = decl.Property(key)
		if prop == nil {
			diag.Errorf(p.reporter, diag.UnknownProperty, ktr, "%s has no property %q, known properties are %s", decl.Name, key, decl.PropertyNames())
			return tree.KeyValue{}, false
		}
		vt = prop.Type
	}
	return tree.KeyValue{
		Key:      key,
		KeyTrace: ktr,
		Value:    p.value(mv.Value, vt, cs, ktr, false),
		Property: prop,
	}, true
}

// key splits the written key raw into the key proper and the contexts it
// adds to cs.
func (p *docParser) key(raw string, tr tree.Trace, cs contexts.Set, top bool) (string, contexts.Set, bool) {
	key := raw
	if top {
		if k, ok := strings.CutPrefix(key, testPrefix); ok && k != "" {
			key = k
			cs = cs.With(contexts.Test)
		}
	}
	i := strings.LastIndexByte(key, '@')
	if i <= 0 {
		return key, cs, true
	}
	for _, name := range strings.Split(key[i+1:], "+") {
		c, ok := p.vocab.Lookup(name)
		if !ok {
			if p.vocab != nil || name == "" {
				diag.Errorf(p.reporter, diag.InvalidContext, tr, "unknown context %q in key %q", name, raw)
				return "", cs, false
			}
			c = contexts.Platform(name)
		}
		cs = cs.With(c)
	}
	if err := p.vocab.Check(cs); err != nil {
		diag.Errorf(p.reporter, diag.InvalidContext, tr, "key %q: %v", raw, err)
		return "", cs, false
	}
	return key[:i], cs, true
}

func (p *docParser) value(an ast.Node, typ *schema.Type, cs contexts.Set, at tree.Trace, inList bool) *tree.Node {
	an = unwrap(an)
	if an == nil {
		return tree.Null(at, cs)
	}
	tr := p.trace(an)
	switch x := an.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		if inList && typ != nil && typ.Kind == schema.ObjectKind {
			if n, ok := p.collapsed(an, typ.Object, cs); ok {
				return n
			}
		}
		return p.mapping(an, typ, cs, false)
	case *ast.SequenceNode:
		return p.list(x, typ, cs)
	case *ast.NullNode:
		return tree.Null(tr, cs)
	case *ast.BoolNode:
		return p.coerce(tree.FromBool(x.Value, tr, cs), x.GetToken().Value, typ)
	case *ast.IntegerNode:
		raw := x.GetToken().Value
		switch i := x.Value.(type) {
		case int64:
			return p.coerce(tree.FromInt(i, tr, cs), raw, typ)
		case uint64:
			if i <= 1<<63-1 {
				return p.coerce(tree.FromInt(int64(i), tr, cs), raw, typ)
			}
		case int:
			return p.coerce(tree.FromInt(int64(i), tr, cs), raw, typ)
		}
		return p.invalid(tr, cs, "integer %s is out of range", raw)
	case *ast.StringNode:
		return p.coerce(p.text(x.Value, tr, cs), x.Value, typ)
	case *ast.LiteralNode:
		return p.coerce(p.text(x.Value.Value, tr, cs), x.Value.Value, typ)
	case *ast.AliasNode:
		return p.invalid(tr, cs, "aliases are not supported")
	}
	// floats, infinities and the like keep their written form
	raw := an.GetToken().Value
	return p.coerce(tree.FromString(raw, tr, cs), raw, typ)
}

func (p *docParser) list(x *ast.SequenceNode, typ *schema.Type, cs contexts.Set) *tree.Node {
	tr := p.trace(x)
	var elem *schema.Type
	if typ != nil {
		if typ.Kind != schema.ListKind {
			return p.invalid(tr, cs, "list is not a %s", typ)
		}
		elem = typ.Elem
	}
	values := make([]*tree.Node, 0, len(x.Values))
	for _, v := range x.Values {
		values = append(values, p.value(v, elem, cs, tr, true))
	}
	return tree.List(values, tr, cs)
}

// collapsed reads a list element written `- value: shorthand` or
// `- value: {properties}` where value is the collapsible property of decl.
func (p *docParser) collapsed(an ast.Node, decl *schema.Object, cs contexts.Set) (*tree.Node, bool) {
	col := decl.Collapsible()
	es := entries(an)
	if col == nil || len(es) != 1 {
		return nil, false
	}
	mv := es[0]
	key := keyText(mv.Key)
	if decl.Property(key) != nil {
		return nil, false
	}
	ktr := p.trace(mv.Key)
	fields := []tree.KeyValue{{
		Key:      col.Name,
		KeyTrace: ktr,
		Value:    p.coerce(p.text(key, ktr, cs), key, col.Type),
		Property: col,
	}}
	switch v := unwrap(mv.Value).(type) {
	case nil, *ast.NullNode:
	case *ast.MappingNode, *ast.MappingValueNode:
		for _, e := range entries(v) {
			if kv, ok := p.entry(e, decl, nil, cs, false); ok {
				fields = append(fields, kv)
			}
		}
	case *ast.StringNode:
		vtr := p.trace(v)
		sh := decl.Property(v.Value)
		if sh == nil || !sh.Shorthand {
			diag.Errorf(p.reporter, diag.InvalidValue, vtr, "%q is not a shorthand of %s", v.Value, decl.Name)
			break
		}
		fields = append(fields, tree.KeyValue{
			Key:      sh.Name,
			KeyTrace: vtr,
			Value:    tree.FromBool(true, vtr, cs),
			Property: sh,
		})
	default:
		diag.Errorf(p.reporter, diag.InvalidValue, p.trace(v), "unexpected value after %q in %s", key, decl.Name)
	}
	return tree.Mapping(decl, fields, p.trace(an), cs), true
}

// coerce types the scalar n, written raw, as typ.
func (p *docParser) coerce(n *tree.Node, raw string, typ *schema.Type) *tree.Node {
	if typ == nil {
		return n
	}
	switch n.Type {
	case tree.ReferenceType, tree.InterpolationType, tree.ErrorType, tree.NullType:
		return n
	}
	tr, cs := n.Trace, n.Contexts
	switch typ.Kind {
	case schema.StringKind:
		if n.Type == tree.StringType {
			return n
		}
		return tree.FromString(raw, tr, cs)
	case schema.PathKind:
		if n.Type == tree.StringType {
			return tree.FromPath(n.String, tr, cs)
		}
	case schema.IntKind:
		if n.Type == tree.IntType {
			return n
		}
	case schema.BoolKind:
		if n.Type == tree.BoolType {
			return n
		}
	case schema.EnumKind:
		if e, ok := typ.Enum.BySchemaValue(raw); ok {
			return tree.FromEnum(typ.Enum, e.Name, tr, cs)
		}
		if e, ok := typ.Enum.Entry(raw); ok {
			return tree.FromEnum(typ.Enum, e.Name, tr, cs)
		}
		return p.invalid(tr, cs, "%q is not one of %s", raw, strings.Join(typ.Enum.SchemaValues(), ", "))
	case schema.ObjectKind:
		if col := typ.Object.Collapsible(); col != nil {
			kv := tree.KeyValue{Key: col.Name, KeyTrace: tr, Value: p.coerce(n, raw, col.Type), Property: col}
			return tree.Mapping(typ.Object, []tree.KeyValue{kv}, tr, cs)
		}
	}
	return p.invalid(tr, cs, "%q is not a %s", raw, typ)
}

func (p *docParser) text(s string, tr tree.Trace, cs contexts.Set) *tree.Node {
	if !strings.Contains(s, "${") {
		return tree.FromString(s, tr, cs)
	}
	parts, err := parseParts(s)
	if err != nil {
		return p.invalid(tr, cs, "%v", err)
	}
	switch {
	case len(parts) == 0:
		return tree.FromString("", tr, cs)
	case len(parts) == 1 && parts[0].IsRef():
		return tree.Reference(parts[0].Ref, parts[0].Transform, tr, cs)
	case len(parts) == 1:
		return tree.FromString(parts[0].Text, tr, cs)
	}
	return tree.Interpolation(parts, tr, cs)
}

func parseParts(s string) ([]tree.Part, error) {
	var (
		parts []tree.Part
		lit   strings.Builder
		rest  = s
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, tree.TextPart(lit.String()))
			lit.Reset()
		}
	}
	for {
		i := strings.Index(rest, "${")
		if i < 0 {
			lit.WriteString(rest)
			break
		}
		if i > 0 && rest[i-1] == '$' {
			lit.WriteString(rest[:i-1])
			lit.WriteString("${")
			rest = rest[i+2:]
			continue
		}
		lit.WriteString(rest[:i])
		body := rest[i+2:]
		end, bar := refEnd(body)
		if end < 0 {
			return nil, fmt.Errorf("unterminated reference in %q", s)
		}
		pathText := body[:end]
		if bar >= 0 {
			pathText = body[:bar]
		}
		path, err := tree.ParsePath(pathText)
		if err != nil {
			return nil, err
		}
		part := tree.RefPart(path)
		if bar >= 0 {
			tf, err := transform.Expr(body[bar+1 : end])
			if err != nil {
				return nil, err
			}
			part.Transform = tf
		}
		flush()
		parts = append(parts, part)
		rest = body[end+1:]
	}
	flush()
	return parts, nil
}

// refEnd returns the index of the '}' closing a reference body and the
// index of the '|' introducing its transform, or -1 for none. Quoted path
// segments and transform strings may contain either character.
func refEnd(s string) (end, bar int) {
	bar = -1
	var quote byte
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || (bar >= 0 && c == '"'):
			quote = c
		case c == '|' && bar < 0:
			bar = i
		case c == '{' && bar >= 0:
			depth++
		case c == '}':
			if depth == 0 {
				return i, bar
			}
			depth--
		}
	}
	return -1, bar
}
