package analysis

import (
	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Increment records one cognitive-complexity contribution: the node it was
// raised at, and the nesting level in effect when it was raised. The total
// contribution of an Increment is Nesting+1.
type Increment struct {
	Location tree.SyntaxLocation
	Nesting  int32
}

// TotalCognitiveComplexity sums every increment's contribution for the
// whole tree.
func TotalCognitiveComplexity(root *tree_sitter.Node) (int32, error) {
	increments, err := CognitiveComplexity(root)
	if err != nil {
		return 0, err
	}
	var total int32
	for _, inc := range increments {
		total += inc.Nesting + 1
	}
	return total, nil
}

// CognitiveComplexity walks node and returns every cognitive-complexity
// increment raised within it, following SonarSource's published metric:
// nesting-based penalties for control flow, a flat penalty for logical
// operator chains (without double-counting flattened chains), and nesting
// bookkeeping across nested functions and closures.
func CognitiveComplexity(node *tree_sitter.Node) ([]Increment, error) {
	v := &complexityVisitor{visitedOperators: make(map[uintptr]bool)}
	if err := tree.Walk(node, v); err != nil {
		return nil, err
	}
	return v.increments, nil
}

type complexityVisitor struct {
	tree.BaseVisitor
	increments         []Increment
	visitedOperators   map[uintptr]bool
	currentNesting     int32
	enclosingFunctions int32
}

func (v *complexityVisitor) incrementWithNesting(n *tree_sitter.Node, nesting int32) {
	v.increments = append(v.increments, Increment{Location: tree.FromNode(n), Nesting: nesting})
}

func (v *complexityVisitor) incrementWithoutNesting(n *tree_sitter.Node) {
	v.increments = append(v.increments, Increment{Location: tree.FromNode(n), Nesting: 0})
}

func (v *complexityVisitor) EnterNode(node *tree_sitter.Node) error {
	switch node.Kind() {
	case "function_item":
		if v.enclosingFunctions > 0 {
			v.currentNesting++
		} else {
			v.currentNesting = 0
		}
		v.enclosingFunctions++

	case "if_expression":
		if !isElseIf(node) {
			kw := node.Child(0)
			if kw == nil {
				return analyzererr.NewFileError("cognitive.EnterNode",
					"an if expression must have an 'if' keyword child")
			}
			v.incrementWithNesting(kw, v.currentNesting)
			v.currentNesting++
		}
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			kw := alt.Child(0)
			if kw == nil {
				return analyzererr.NewFileError("cognitive.EnterNode",
					"an else clause must have an 'else' keyword child")
			}
			v.incrementWithoutNesting(kw)
		}

	case "while_expression", "loop_expression", "for_expression", "match_expression":
		kw := node.Child(0)
		if kw == nil {
			return analyzererr.NewFileError("cognitive.EnterNode",
				"a while/loop/for/match must have their respective keyword as a child")
		}
		v.incrementWithNesting(kw, v.currentNesting)
		v.currentNesting++

	case "label":
		if parent := node.Parent(); parent != nil {
			switch parent.Kind() {
			case "break_expression", "continue_expression":
				v.incrementWithoutNesting(parent)
			}
		}

	case "binary_expression":
		if !isLogicalOperator(node) {
			break
		}
		operatorToken := node.ChildByFieldName("operator")
		if operatorToken == nil {
			return analyzererr.NewFileError("cognitive.EnterNode",
				"operator must be present in binary expression")
		}
		if v.visitedOperators[operatorToken.Id()] {
			return nil
		}

		operators, err := flattenOperators(node)
		if err != nil {
			return err
		}
		var prev string
		havePrev := false
		for i := len(operators) - 1; i >= 0; i-- {
			op := operators[i]
			if !havePrev || prev != op.Kind() {
				v.incrementWithoutNesting(op)
			}
			prev = op.Kind()
			havePrev = true
			v.visitedOperators[op.Id()] = true
		}

	case "closure_expression":
		v.currentNesting++
	}

	return nil
}

func (v *complexityVisitor) ExitNode(node *tree_sitter.Node) error {
	switch node.Kind() {
	case "if_expression":
		if !isElseIf(node) {
			v.currentNesting--
		}
	case "while_expression", "loop_expression", "for_expression", "match_expression":
		v.currentNesting--
	case "function_item":
		v.enclosingFunctions--
		if v.enclosingFunctions > 0 {
			v.currentNesting--
		}
	case "closure_expression":
		v.currentNesting--
	}
	return nil
}

func isElseIf(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "else_clause" {
		return false
	}
	first := parent.NamedChild(0)
	return first != nil && first.Id() == node.Id()
}

// isLogicalOperator reports whether node is a binary_expression whose
// operator field is && or ||.
func isLogicalOperator(node *tree_sitter.Node) bool {
	if node.Kind() != "binary_expression" {
		return false
	}
	operator := node.ChildByFieldName("operator")
	if operator == nil {
		return false
	}
	switch operator.Kind() {
	case "&&", "||":
		return true
	default:
		return false
	}
}

// flattenOperators recursively collects the operator tokens of a chain of
// logical binary expressions into left-to-right order, so that a chain
// like "a && b && c" is counted once rather than once per nested node.
func flattenOperators(node *tree_sitter.Node) ([]*tree_sitter.Node, error) {
	var operators []*tree_sitter.Node

	if left := node.ChildByFieldName("left"); left != nil && isLogicalOperator(left) {
		sub, err := flattenOperators(left)
		if err != nil {
			return nil, err
		}
		operators = append(operators, sub...)
	}

	operator := node.ChildByFieldName("operator")
	if operator == nil {
		return nil, analyzererr.NewFileError("cognitive.flattenOperators",
			"operator must be present in a binary expression")
	}
	operators = append(operators, operator)

	if right := node.ChildByFieldName("right"); right != nil && isLogicalOperator(right) {
		sub, err := flattenOperators(right)
		if err != nil {
			return nil, err
		}
		operators = append(operators, sub...)
	}

	return operators, nil
}
