// Package orchestrator runs the full analysis pipeline over one file's
// source: parse once, then highlight, measure metrics, tokenize for
// duplicate detection, and run the rule engine, in that fixed order.
package orchestrator

import (
	"github.com/standardbeagle/rustsonar/internal/analysis"
	"github.com/standardbeagle/rustsonar/internal/debug"
	"github.com/standardbeagle/rustsonar/internal/issue"
	"github.com/standardbeagle/rustsonar/internal/rules"
	"github.com/standardbeagle/rustsonar/internal/tree"
)

// Output bundles every result the protocol layer reports for one analyzed
// file.
type Output struct {
	HighlightTokens []analysis.HighlightToken
	Metrics         analysis.Metrics
	CpdTokens       []analysis.CpdToken
	Issues          []issue.Issue
}

// Analyze parses source as Rust and runs the full pipeline over it.
// Parameters configures the rule engine (see internal/rules.AllRules).
func Analyze(source []byte, parameters map[string]string) (Output, error) {
	debug.LogParse("parsing %d bytes", len(source))
	parsedTree, err := tree.ParseSource(source)
	if err != nil {
		return Output{}, err
	}
	defer parsedTree.Close()

	root := parsedTree.RootNode()

	debug.LogAnalyze("running highlight pass")
	highlightTokens, err := analysis.Highlight(root, source)
	if err != nil {
		return Output{}, err
	}

	debug.LogAnalyze("running metrics pass")
	metrics, err := analysis.CalculateMetrics(root, source)
	if err != nil {
		return Output{}, err
	}

	debug.LogAnalyze("running cpd pass")
	cpdTokens, err := analysis.CalculateCpdTokens(root, source)
	if err != nil {
		return Output{}, err
	}

	debug.LogRule("running rule engine")
	issues, err := rules.FindIssues(root, source, parameters)
	if err != nil {
		return Output{}, err
	}

	return Output{
		HighlightTokens: highlightTokens,
		Metrics:         metrics,
		CpdTokens:       cpdTokens,
		Issues:          issues,
	}, nil
}
