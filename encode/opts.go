package encode

import "github.com/signadot/ctree/contexts"

type EncodeOption func(*EncState)

// EncodeVocabulary sets the vocabulary Export refines with.
func EncodeVocabulary(v *contexts.Vocabulary) EncodeOption {
	return func(es *EncState) { es.vocab = v }
}
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeTestBlock prefixes the top level keys with "test-".
func EncodeTestBlock(v bool) EncodeOption {
	return func(es *EncState) { es.test = v }
}
