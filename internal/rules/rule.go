// Package rules implements the analyzer's rule engine: the Rule contract,
// the built-in rule set, and parameter-driven rule construction.
package rules

import (
	"strconv"

	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/issue"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Rule checks a parsed tree and returns whatever issues it finds.
type Rule interface {
	Check(root *tree_sitter.Node, source []byte) ([]issue.Issue, error)
}

// AllRules builds the configured rule set from a parameter map. It returns
// a GlobalError if a required parameter is missing or malformed, since a
// misconfigured rule engine cannot analyze any file.
func AllRules(parameters map[string]string) ([]Rule, error) {
	threshold, ok := parameters["S3776:threshold"]
	if !ok {
		return nil, analyzererr.NewGlobalError("rules.AllRules", "missing required parameter \"S3776:threshold\"")
	}
	thresholdValue, err := strconv.Atoi(threshold)
	if err != nil {
		return nil, analyzererr.NewGlobalError("rules.AllRules",
			"invalid integer value for parameter \"S3776:threshold\": "+threshold).WithUnderlying(err)
	}

	return []Rule{
		NewCognitiveComplexityCheck(int32(thresholdValue)),
		NewParsingErrorCheck(),
	}, nil
}

// FindIssues runs every rule configured by parameters over root in
// rule-registration order, concatenating their issues.
func FindIssues(root *tree_sitter.Node, source []byte, parameters map[string]string) ([]issue.Issue, error) {
	configuredRules, err := AllRules(parameters)
	if err != nil {
		return nil, err
	}

	var issues []issue.Issue
	for _, rule := range configuredRules {
		found, err := rule.Check(root, source)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}
