package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rustsonar/internal/tree"
)

func highlightTokens(t *testing.T, source string) []HighlightToken {
	t.Helper()
	parsed, err := tree.ParseSource([]byte(source))
	require.NoError(t, err)
	defer parsed.Close()

	tokens, err := Highlight(parsed.RootNode(), []byte(source))
	require.NoError(t, err)
	return tokens
}

func countByType(tokens []HighlightToken, tokenType TokenType) int {
	count := 0
	for _, tok := range tokens {
		if tok.TokenType == tokenType {
			count++
		}
	}
	return count
}

func TestHighlightKeywords(t *testing.T) {
	tokens := highlightTokens(t, "fn main() { let x = 1; }")
	require.GreaterOrEqual(t, countByType(tokens, TokenKeyword), 2)
}

func TestHighlightStringLiteral(t *testing.T) {
	tokens := highlightTokens(t, `fn main() { let x = "hi"; }`)
	require.Equal(t, 1, countByType(tokens, TokenString))
}

func TestHighlightConstants(t *testing.T) {
	tokens := highlightTokens(t, "fn main() { let x = 42; let y = true; }")
	require.Equal(t, 2, countByType(tokens, TokenConstant))
}

func TestHighlightCommentsNotDuplicated(t *testing.T) {
	tokens := highlightTokens(t, "// a line comment\nfn main() {}\n")
	require.Equal(t, 1, countByType(tokens, TokenComment))
}

func TestHighlightOuterDocComment(t *testing.T) {
	tokens := highlightTokens(t, "/// docs\nfn main() {}\n")
	require.Equal(t, 1, countByType(tokens, TokenStructuredComment))
	require.Equal(t, 0, countByType(tokens, TokenComment))
}

func TestHighlightInnerDocComment(t *testing.T) {
	tokens := highlightTokens(t, "fn main() {\n    //! inner docs\n}\n")
	require.Equal(t, 1, countByType(tokens, TokenStructuredComment))
	require.Equal(t, 0, countByType(tokens, TokenComment))
}

func TestHighlightDocBlockComment(t *testing.T) {
	tokens := highlightTokens(t, "/** docs */\nfn main() {}\n")
	require.Equal(t, 1, countByType(tokens, TokenStructuredComment))
}

func TestHighlightCommentBarIsNotADocComment(t *testing.T) {
	tokens := highlightTokens(t, "//// a comment bar\nfn main() {}\n")
	require.Equal(t, 0, countByType(tokens, TokenStructuredComment))
	require.Equal(t, 1, countByType(tokens, TokenComment))
}

func TestIsDocComment(t *testing.T) {
	require.True(t, isDocComment("/// outer doc"))
	require.True(t, isDocComment("//! inner doc"))
	require.True(t, isDocComment("/** outer block doc */"))
	require.True(t, isDocComment("/*! inner block doc */"))
	require.False(t, isDocComment("// plain comment"))
	require.False(t, isDocComment("//// comment bar"))
	require.False(t, isDocComment("/* plain block */"))
	require.False(t, isDocComment("/**/"))
	require.False(t, isDocComment("/*** comment bar */"))
}

func TestHighlightScenarioOneSixTokensWithOneStructuredComment(t *testing.T) {
	source := "\n/// The main function\nfn main() {\n    // This is a comment\n    let x = 42;\n    println!(\"Hello, world!\");\n}\n"
	tokens := highlightTokens(t, source)

	require.Len(t, tokens, 6)
	require.Equal(t, 1, countByType(tokens, TokenStructuredComment))
	require.Equal(t, 1, countByType(tokens, TokenComment))

	for _, tok := range tokens {
		if tok.TokenType == TokenStructuredComment {
			require.Equal(t, 2, tok.Location.StartLine)
		}
	}
}

func TestTokenTypeSonarAPIName(t *testing.T) {
	require.Equal(t, "COMMENT", TokenComment.SonarAPIName())
	require.Equal(t, "COMMENT", TokenStructuredComment.SonarAPIName())
	require.Equal(t, "KEYWORD", TokenKeyword.SonarAPIName())
	require.Equal(t, "STRING", TokenString.SonarAPIName())
	require.Equal(t, "CONSTANT", TokenConstant.SonarAPIName())
}
