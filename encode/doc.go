// Package encode writes trees as module configuration text.
//
// # Usage
//
//	// Encode a complete or refined tree
//	err := encode.Encode(node, os.Stdout)
//
//	// Export a merged tree as a main block and a test block
//	err := encode.Export(merged, os.Stdout, encode.EncodeVocabulary(vocab))
//
//	// Encode as JSON
//	err := encode.EncodeJSON(node, os.Stdout)
//
// Mappings of declared objects with a collapsible property are written in
// short form where possible, so that `dependencies` entries read
// `- org:lib:1.0: exported` rather than as nested mappings.
//
// # Related Packages
//
//   - github.com/signadot/ctree/parse - read text into trees
//   - github.com/signadot/ctree/ctxdiff - the blocks written by Export
package encode
