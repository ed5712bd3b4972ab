package tree

import (
	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// RustLanguage is the parsed Rust grammar, set up once and reused by every
// ParseSource call and by any query compiled against the grammar.
var RustLanguage = tree_sitter.NewLanguage(tree_sitter_rust.Language())

// ParseSource parses source as Rust, returning the resulting tree. A
// language-setup failure is a GlobalError (the process cannot analyze any
// file); a parse failure (tree-sitter returning no tree at all, which in
// practice only happens on parser misconfiguration, not on malformed
// input — tree-sitter always produces a best-effort tree with error nodes)
// is a FileError.
func ParseSource(source []byte) (*tree_sitter.Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(RustLanguage); err != nil {
		return nil, analyzererr.NewGlobalError("parser.SetLanguage", err.Error()).WithUnderlying(err)
	}

	result := parser.Parse(source, nil)
	if result == nil {
		return nil, analyzererr.NewFileError("parser.Parse", "failed to parse source")
	}
	return result, nil
}
