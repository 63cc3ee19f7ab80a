package parse

import (
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/diag"
	"github.com/signadot/ctree/schema"
)

type parseOpts struct {
	source   string
	vocab    *contexts.Vocabulary
	schema   *schema.Object
	reactive bool
	reporter diag.Reporter
}

type ParseOption func(*parseOpts)

// ParseSource names the source in traces.
func ParseSource(name string) ParseOption {
	return func(o *parseOpts) { o.source = name }
}

// ParseVocabulary resolves the context tags written after '@' in keys.
// Without a vocabulary every tag is taken to be a platform.
func ParseVocabulary(v *contexts.Vocabulary) ParseOption {
	return func(o *parseOpts) { o.vocab = v }
}

// ParseSchema types the document by the root object declaration.
func ParseSchema(o *schema.Object) ParseOption {
	return func(p *parseOpts) { p.schema = o }
}

// ParseReactive marks every entry with contexts.ReactivelySet.
func ParseReactive(v bool) ParseOption {
	return func(o *parseOpts) { o.reactive = v }
}

func ParseReporter(r diag.Reporter) ParseOption {
	return func(o *parseOpts) { o.reporter = r }
}
