package analysis

import (
	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// CyclomaticComplexity counts one decision point per if/loop/while/for/
// closure, per logical-operator use, per non-empty match arm, and per
// non-empty function body.
func CyclomaticComplexity(root *tree_sitter.Node) int32 {
	v := &cyclomaticVisitor{}
	_ = tree.Walk(root, v)
	return v.complexity
}

type cyclomaticVisitor struct {
	tree.BaseVisitor
	complexity int32
}

func (v *cyclomaticVisitor) EnterNode(node *tree_sitter.Node) error {
	switch node.Kind() {
	case "if_expression", "loop_expression", "while_expression", "for_expression", "closure_expression":
		v.complexity++
	case "binary_expression":
		if isLogicalOperator(node) {
			v.complexity++
		}
	case "match_arm":
		if hasNonEmptyField(node, "value") {
			v.complexity++
		}
	case "function_item":
		if hasNonEmptyField(node, "body") {
			v.complexity++
		}
	}
	return nil
}

func hasNonEmptyField(node *tree_sitter.Node, field string) bool {
	n := node.ChildByFieldName(field)
	if n == nil {
		return false
	}
	if n.Kind() == "block" {
		return n.NamedChildCount() > 0
	}
	return true
}
