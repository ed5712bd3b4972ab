package analysis

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type incrementLine struct {
	line      uint
	increment int32
}

func wrapInFunction(body string) []byte {
	return []byte("fn main() { " + body + " }")
}

func totalComplexity(t *testing.T, body string) int32 {
	t.Helper()
	parsed, err := tree.ParseSource(wrapInFunction(body))
	require.NoError(t, err)
	defer parsed.Close()

	total, err := TotalCognitiveComplexity(parsed.RootNode())
	require.NoError(t, err)
	return total
}

// checkComplexity parses body wrapped in a function, computes its
// cognitive-complexity increments, and compares them against "// +N"
// annotations found on the corresponding lines of the unwrapped source.
func checkComplexity(t *testing.T, body string) {
	t.Helper()
	parsed, err := tree.ParseSource(wrapInFunction(body))
	require.NoError(t, err)
	defer parsed.Close()

	increments, err := CognitiveComplexity(parsed.RootNode())
	require.NoError(t, err)

	var actualTotal int32
	actual := make([]incrementLine, 0, len(increments))
	for _, inc := range increments {
		actualTotal += inc.Nesting + 1
		actual = append(actual, incrementLine{line: inc.Location.StartPosition.Row, increment: inc.Nesting + 1})
	}

	expected := collectComplexityIncrements(t, body)
	var expectedTotal int32
	for _, e := range expected {
		expectedTotal += e.increment
	}
	require.Equal(t, expectedTotal, actualTotal)

	sortByLine := func(s []incrementLine) {
		sort.Slice(s, func(i, j int) bool { return s[i].line < s[j].line })
	}
	sortByLine(actual)
	sortByLine(expected)
	require.Equal(t, expected, actual)
}

func collectComplexityIncrements(t *testing.T, body string) []incrementLine {
	t.Helper()
	source := []byte(body)
	parsed, err := tree.ParseSource(source)
	require.NoError(t, err)
	defer parsed.Close()

	query, _ := tree_sitter.NewQuery(tree.RustLanguage, "(line_comment) @comment")
	require.NotNil(t, query)

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, parsed.RootNode(), source)

	var increments []incrementLine
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		for _, capture := range m.Captures {
			node := capture.Node
			text := string(source[node.StartByte():node.EndByte()])
			text = strings.TrimSpace(strings.TrimPrefix(text, "//"))
			if !strings.HasPrefix(text, "+") {
				continue
			}
			value, err := strconv.Atoi(text[1:])
			require.NoError(t, err)
			increments = append(increments, incrementLine{line: node.StartPosition().Row, increment: int32(value)})
		}
	}
	return increments
}

func TestCognitiveComplexityEmpty(t *testing.T) {
	checkComplexity(t, "")
}

func TestCognitiveComplexityIfElse(t *testing.T) {
	checkComplexity(t, "\nif x { // +1\n    42\n}")
	checkComplexity(t, "\n    if x { // +1 \n        42\n    } else { // +1\n        43\n    }")
	checkComplexity(t, "\nif x { // +1\n    42\n} else if y { //+1\n    43\n}")
}

func TestCognitiveComplexityNestedElse(t *testing.T) {
	checkComplexity(t, "\nif x { // +1\n    42\n} else { // +1\n    if y { // +2\n        43\n    }\n}")
}

func TestCognitiveComplexityWhile(t *testing.T) {
	checkComplexity(t, "\nwhile cond1 { // +1\n    if cond2 { // +2\n        42\n    } else { // +1\n        43\n    }\n}")
}

func TestCognitiveComplexityLoop(t *testing.T) {
	checkComplexity(t, "\nloop { // +1\n    if cond { // +2\n        break;\n    }\n}")
}

func TestCognitiveComplexityFor(t *testing.T) {
	checkComplexity(t, "\nfor x in y { // +1\n    if cond { // +2\n    }\n}")
}

func TestCognitiveComplexityMatch(t *testing.T) {
	checkComplexity(t, "\nmatch x { // +1\n    \"a\" => 1,\n    \"b\" => 2,\n    _ => 3\n}")
}

func TestCognitiveComplexityBreakLabel(t *testing.T) {
	checkComplexity(t, "\n'outer: for i in 1..=5 { // +1\n    '_inner: for j in 1..=200 { // +2\n        if j >= 3 { // +3\n            break;\n        }\n        if i >= 2 { // +3\n            break 'outer; // +1\n        }\n    }\n}")
}

func TestCognitiveComplexityBinaryOperators(t *testing.T) {
	require.EqualValues(t, 1, totalComplexity(t, "a && b"))
	require.EqualValues(t, 1, totalComplexity(t, "a || b"))
	require.EqualValues(t, 1, totalComplexity(t, "a && b && c"))
	require.EqualValues(t, 1, totalComplexity(t, "a || b || c"))
	require.EqualValues(t, 2, totalComplexity(t, "a || b && c"))
	require.EqualValues(t, 3, totalComplexity(t, "a || b && c || d"))
}

func TestCognitiveComplexityNestedBinaryOperator(t *testing.T) {
	require.EqualValues(t, 2, totalComplexity(t, "if x { a && b }"))
	require.EqualValues(t, 4, totalComplexity(t, "if x { if y && z { 42 } }"))
	require.EqualValues(t, 5, totalComplexity(t, "for x in 0..5 { if y && z || a { 42 } }"))
}

func TestCognitiveComplexityNestedFunction(t *testing.T) {
	checkComplexity(t, "\n    if x { // +1\n    }\n    fn nested() {\n        if y { // +2\n        }\n    }\n    if z { // +1\n    }\n")
}

func TestCognitiveComplexityClosures(t *testing.T) {
	checkComplexity(t, "\n    if x { // +1\n    }\n    invoke(|a, b| {\n        if a { // +2\n        }\n    });\n    if y { // +1\n    }\n")
}
