package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rustsonar/internal/tree"
)

func metricsOf(t *testing.T, source string) Metrics {
	t.Helper()
	parsed, err := tree.ParseSource([]byte(source))
	require.NoError(t, err)
	defer parsed.Close()

	m, err := CalculateMetrics(parsed.RootNode(), []byte(source))
	require.NoError(t, err)
	return m
}

func TestMetricsFunctionsAndClasses(t *testing.T) {
	m := metricsOf(t, "struct Point { x: i32, y: i32 }\nenum Shape { Circle, Square }\nfn area() {}\n")
	require.EqualValues(t, 2, m.Classes)
	require.EqualValues(t, 1, m.Functions)
}

func TestMetricsStatements(t *testing.T) {
	m := metricsOf(t, "fn main() {\n    let x = 1;\n    x + 1;\n}\n")
	require.EqualValues(t, 2, m.Statements)
}

func TestMetricsCommentLines(t *testing.T) {
	m := metricsOf(t, "// a real comment\nfn main() {}\n// ----\n")
	require.EqualValues(t, 1, m.CommentLines)
}

func TestMetricsBlockCommentSpansMultipleLines(t *testing.T) {
	m := metricsOf(t, "/* line one\n   line two\n   ----\n*/\nfn main() {}\n")
	require.EqualValues(t, 2, m.CommentLines)
}

func TestMetricsNclocExcludesBlankLines(t *testing.T) {
	m := metricsOf(t, "fn main() {\n\n    let x = 1;\n\n}\n")
	require.EqualValues(t, 3, m.Ncloc)
}

func TestIsBlankAcceptsASCIIPunctuationOnly(t *testing.T) {
	require.True(t, isBlank("   "))
	require.True(t, isBlank("----"))
	require.True(t, isBlank("// +=<>|~"))
	require.False(t, isBlank("x"))
	require.False(t, isBlank("1"))
}

func TestMetricsComplexityPassesMatchStandaloneFunctions(t *testing.T) {
	source := "fn main() { if x { 1 } else { 2 } }"
	m := metricsOf(t, source)
	require.EqualValues(t, cyclomaticOf(t, source), m.CyclomaticComplexity)
	require.EqualValues(t, totalComplexity(t, "if x { 1 } else { 2 }"), m.CognitiveComplexity)
}
