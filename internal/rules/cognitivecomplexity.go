package rules

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/rustsonar/internal/analysis"
	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/issue"
	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

const cognitiveComplexityRuleKey = "S3776"

// CognitiveComplexityCheck flags function bodies whose cognitive
// complexity exceeds threshold.
type CognitiveComplexityCheck struct {
	threshold int32
}

// NewCognitiveComplexityCheck builds a CognitiveComplexityCheck for the
// given threshold.
func NewCognitiveComplexityCheck(threshold int32) *CognitiveComplexityCheck {
	return &CognitiveComplexityCheck{threshold: threshold}
}

// Check reports one issue per top-level function whose total cognitive
// complexity exceeds the configured threshold, with one secondary location
// per contributing increment.
func (c *CognitiveComplexityCheck) Check(root *tree_sitter.Node, source []byte) ([]issue.Issue, error) {
	iter := tree.NewIterator(root, isOuterFunctionNode)
	defer iter.Close()

	var issues []issue.Issue

	for functionItem := iter.Next(); functionItem != nil; functionItem = iter.Next() {
		increments, err := analysis.CognitiveComplexity(functionItem)
		if err != nil {
			return nil, err
		}

		var total int32
		for _, inc := range increments {
			total += inc.Nesting + 1
		}

		if total <= c.threshold {
			continue
		}

		secondaryLocations := make([]issue.SecondaryLocation, 0, len(increments))
		for _, inc := range increments {
			message := fmt.Sprintf("+%d", inc.Nesting+1)
			if inc.Nesting != 0 {
				message = fmt.Sprintf("+%d (incl %d for nesting)", inc.Nesting+1, inc.Nesting)
			}
			secondaryLocations = append(secondaryLocations, issue.SecondaryLocation{
				Message:  message,
				Location: inc.Location.ToLocation(source),
			})
		}

		// The reference implementation emits secondary locations in raw
		// traversal (push) order, which is not sorted; this port sorts
		// them ascending by (line, column) to honor the documented
		// ordering invariant for secondary locations.
		sort.SliceStable(secondaryLocations, func(i, j int) bool {
			a, b := secondaryLocations[i].Location, secondaryLocations[j].Location
			if a.StartLine != b.StartLine {
				return a.StartLine < b.StartLine
			}
			return a.StartColumn < b.StartColumn
		})

		name := functionItem.ChildByFieldName("name")
		if name == nil {
			return nil, analyzererr.NewFileError("rules.CognitiveComplexityCheck.Check",
				"a function_item node should have a 'name' field")
		}

		issues = append(issues, issue.Issue{
			RuleKey: cognitiveComplexityRuleKey,
			Message: fmt.Sprintf(
				"Refactor this function to reduce its Cognitive Complexity from %d to the %d allowed.",
				total, c.threshold),
			Location:           tree.FromNode(name).ToLocation(source),
			SecondaryLocations: secondaryLocations,
		})
	}

	return issues, nil
}

// isOuterFunctionNode reports whether node is a function_item with no
// function_item ancestor, i.e. not a function nested inside another.
func isOuterFunctionNode(node *tree_sitter.Node) bool {
	if node.Kind() != "function_item" {
		return false
	}
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Kind() == "function_item" {
			return false
		}
	}
	return true
}
