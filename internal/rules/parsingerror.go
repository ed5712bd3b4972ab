package rules

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/issue"
	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

const parsingErrorRuleKey = "S2260"

// ParsingErrorCheck reports every syntax error tree-sitter's error
// recovery left in the tree.
type ParsingErrorCheck struct{}

// NewParsingErrorCheck builds a ParsingErrorCheck.
func NewParsingErrorCheck() *ParsingErrorCheck {
	return &ParsingErrorCheck{}
}

// Check walks root and reports one issue per error node (a generic parsing
// error) and per missing node (a recovered token, with a message built
// from its S-expression).
func (c *ParsingErrorCheck) Check(root *tree_sitter.Node, source []byte) ([]issue.Issue, error) {
	v := &parsingErrorVisitor{source: source}
	if err := tree.Walk(root, v); err != nil {
		return nil, err
	}
	return v.issues, nil
}

type parsingErrorVisitor struct {
	tree.BaseVisitor
	source []byte
	issues []issue.Issue
}

func (v *parsingErrorVisitor) newIssue(message string, location tree.Location) {
	v.issues = append(v.issues, issue.Issue{
		RuleKey:  parsingErrorRuleKey,
		Message:  message,
		Location: location,
	})
}

func (v *parsingErrorVisitor) ExitNode(node *tree_sitter.Node) error {
	if node.IsError() {
		v.newIssue(
			"A syntax error occurred during parsing.",
			tree.FromNode(node).ToLocation(v.source),
		)
	}

	if node.IsMissing() {
		sexp := node.ToSexp()
		inner := sexp
		if len(sexp) >= 2 {
			inner = sexp[1 : len(sexp)-1]
		}
		message := fmt.Sprintf("A syntax error occurred during parsing: %s.", strings.ToLower(inner))

		sibling := siblingOrParent(node)
		if sibling == nil {
			return analyzererr.NewFileError("rules.ParsingErrorCheck.ExitNode",
				"a missing node must have a valid parent")
		}

		v.newIssue(message, tree.FromNode(sibling).ToLocation(v.source))
	}

	return nil
}

// siblingOrParent returns node's previous sibling, if that sibling is
// itself neither an error nor missing, or node's parent otherwise. The
// location of a missing node is a recovery artifact that may not
// correspond to any real span, so the nearest well-formed neighbor is
// reported instead.
func siblingOrParent(node *tree_sitter.Node) *tree_sitter.Node {
	if prev := node.PrevSibling(); prev != nil && !prev.IsError() && !prev.IsMissing() {
		return prev
	}
	return node.Parent()
}
