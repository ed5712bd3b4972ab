package analysis

import (
	"strings"

	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// TokenType is a syntax-highlighting category, named after SonarQube's
// generic highlighting API.
//
// TokenAnnotation, TokenKeywordLight, and TokenPreprocessDirective are kept
// for parity with the full token-kind vocabulary but are never produced by
// tokenTypeFromCapture: the reference implementation's own capture-name
// dispatch (`HighlightTokenType::from_capture_name` in
// visitors/highlight.rs) only ever maps "keyword", "comment", "string",
// "constant.builtin", and "comment.documentation" — the other three variants
// are declared (with `#[allow(dead_code)]`) but unreachable there too, since
// no Rust construct in this grammar is classified as an annotation,
// "light" keyword, or preprocessor directive by the upstream highlighter.
type TokenType int

const (
	TokenAnnotation TokenType = iota
	TokenConstant
	TokenComment
	TokenStructuredComment
	TokenKeyword
	TokenString
	TokenKeywordLight
	TokenPreprocessDirective
)

// SonarAPIName renders the token type the way the wire protocol expects it.
func (t TokenType) SonarAPIName() string {
	switch t {
	case TokenAnnotation:
		return "ANNOTATION"
	case TokenConstant:
		return "CONSTANT"
	case TokenComment, TokenStructuredComment:
		return "COMMENT"
	case TokenKeyword:
		return "KEYWORD"
	case TokenString:
		return "STRING"
	case TokenKeywordLight:
		return "KEYWORD_LIGHT"
	case TokenPreprocessDirective:
		return "PREPROCESS_DIRECTIVE"
	default:
		return "KEYWORD"
	}
}

func tokenTypeFromCapture(name string) (TokenType, bool) {
	switch name {
	case "keyword":
		return TokenKeyword, true
	case "comment":
		return TokenComment, true
	case "string":
		return TokenString, true
	case "constant.builtin":
		return TokenConstant, true
	default:
		return 0, false
	}
}

// isDocComment reports whether a line_comment or block_comment node's
// source text is a Rust documentation comment, following rustc's own
// lexical rule: `///`/`//!` for line comments, excluding a `////`-or-more
// comment bar; `/** ... */`/`/*! ... */` for block comments, excluding the
// empty `/**/` and a `/***`-style comment bar.
func isDocComment(text string) bool {
	switch {
	case strings.HasPrefix(text, "////"):
		return false
	case strings.HasPrefix(text, "///"), strings.HasPrefix(text, "//!"):
		return true
	case strings.HasPrefix(text, "/*!"):
		return true
	case strings.HasPrefix(text, "/**"):
		return text != "/**/" && !strings.HasPrefix(text, "/***")
	default:
		return false
	}
}

// HighlightToken pairs a highlighting category with its display location.
type HighlightToken struct {
	TokenType TokenType
	Location  tree.Location
}

// rustHighlightsQuery captures every category tokenTypeFromCapture
// dispatches on: keywords, comments (plain and documentation, the latter
// distinguished from source text by isDocComment since tree-sitter-rust's
// grammar has no separate doc-comment node kind), strings, and built-in
// (literal) constants.
const rustHighlightsQuery = `
[
  "as"
  "async"
  "await"
  "break"
  "const"
  "continue"
  "dyn"
  "else"
  "enum"
  "extern"
  "fn"
  "for"
  "if"
  "impl"
  "in"
  "let"
  "loop"
  "match"
  "mod"
  "move"
  "pub"
  "ref"
  "return"
  "static"
  "struct"
  "trait"
  "type"
  "union"
  "unsafe"
  "use"
  "where"
  "while"
] @keyword

(string_literal) @string
(raw_string_literal) @string
(char_literal) @string

(boolean_literal) @constant.builtin
(integer_literal) @constant.builtin
(float_literal) @constant.builtin

(line_comment) @comment
(block_comment) @comment
`

var highlightQuery = compileHighlightQuery()

func compileHighlightQuery() *tree_sitter.Query {
	q, _ := tree_sitter.NewQuery(tree.RustLanguage, rustHighlightsQuery)
	return q
}

// Highlight runs the highlighting query over root and returns one
// HighlightToken per captured node. Every comment node is classified
// exactly once — as Comment or StructuredComment, via isDocComment — so,
// unlike the reference implementation's bundled grammar query (which fires
// overlapping "comment" and "comment.documentation" captures on the same
// doc-comment node and reconciles them with a HashSet difference after the
// fact), no post-pass deduplication is needed here.
func Highlight(root *tree_sitter.Node, source []byte) ([]HighlightToken, error) {
	if highlightQuery == nil {
		return nil, analyzererr.NewGlobalError("analysis.Highlight", "failed to compile highlight query")
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(highlightQuery, root, source)
	captureNames := highlightQuery.CaptureNames()

	var tokens []HighlightToken

	for {
		m := matches.Next()
		if m == nil {
			break
		}
		for _, capture := range m.Captures {
			name := captureNames[capture.Index]
			tokenType, ok := tokenTypeFromCapture(name)
			if !ok {
				continue
			}
			node := capture.Node
			if tokenType == TokenComment {
				text := string(source[node.StartByte():node.EndByte()])
				if isDocComment(text) {
					tokenType = TokenStructuredComment
				}
			}
			tokens = append(tokens, HighlightToken{
				TokenType: tokenType,
				Location:  tree.FromNode(&node).ToLocation(source),
			})
		}
	}

	return tokens, nil
}
