package analysis

import (
	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// CpdToken is one token of the copy-paste-detection token stream: a
// normalized image (NUMBER/STRING for literals, raw source text otherwise)
// plus its display location.
type CpdToken struct {
	Image    string
	Location tree.Location
}

// CalculateCpdTokens walks root in source order, emitting one CpdToken per
// qualifying leaf. Numeric and string literals are normalized to NUMBER/
// STRING so that differing literal values don't defeat duplicate
// detection; a raw string literal's content collapses to a single token
// spanning the whole literal. Code inside a #[cfg(test)] item is skipped
// entirely, so test fixtures don't count as duplicated production code.
func CalculateCpdTokens(root *tree_sitter.Node, source []byte) ([]CpdToken, error) {
	v := &cpdVisitor{source: source}
	if err := tree.Walk(root, v); err != nil {
		return nil, err
	}
	return v.tokens, nil
}

type cpdVisitor struct {
	tree.BaseVisitor
	source []byte
	tokens []CpdToken

	// suppressUntil holds the ids of the nodes whose subtrees are
	// suppressed because they are marked #[cfg(test)]; suppression of each
	// lasts until that node's ExitNode call. It is created on the first
	// EnterNode call. inTest counts the marked nodes currently entered and
	// not yet exited; suppression is active while it is above zero.
	suppressUntil map[uintptr]bool
	inTest        int
}

func (v *cpdVisitor) newToken(image string, n *tree_sitter.Node) {
	v.tokens = append(v.tokens, CpdToken{
		Image:    image,
		Location: tree.FromNode(n).ToLocation(v.source),
	})
}

func (v *cpdVisitor) EnterNode(node *tree_sitter.Node) error {
	if v.suppressUntil == nil {
		v.suppressUntil = make(map[uintptr]bool)
	}

	if isCfgTestAttribute(node, v.source) {
		if sibling := node.NextSibling(); sibling != nil {
			v.suppressUntil[sibling.Id()] = true
		}
	}

	if v.suppressUntil[node.Id()] {
		v.inTest++
	}

	if v.inTest > 0 {
		return nil
	}

	if node.ChildCount() != 0 {
		return nil
	}

	switch node.Kind() {
	case "source_file":
		return nil
	}
	if node.IsMissing() || node.IsError() {
		return nil
	}

	switch node.Kind() {
	case "integer_literal", "float_literal":
		v.newToken("NUMBER", node)
		return nil
	case "string_content":
		if parent := node.Parent(); parent != nil && parent.Kind() == "raw_string_literal" {
			v.newToken("STRING", parent)
		} else {
			v.newToken("STRING", node)
		}
		return nil
	}

	image := string(v.source[node.StartByte():node.EndByte()])
	v.newToken(image, node)
	return nil
}

func (v *cpdVisitor) ExitNode(node *tree_sitter.Node) error {
	if v.suppressUntil[node.Id()] {
		v.inTest--
	}
	return nil
}

// isCfgTestAttribute reports whether node is an attribute item of the
// exact shape #[cfg(test)].
func isCfgTestAttribute(node *tree_sitter.Node, source []byte) bool {
	if node.Kind() != "attribute_item" {
		return false
	}
	attr := tree.ChildOfKind(node, "attribute")
	if attr == nil {
		return false
	}
	path := attr.ChildByFieldName("path")
	if path == nil || string(source[path.StartByte():path.EndByte()]) != "cfg" {
		return false
	}
	args := attr.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 1 {
		return false
	}
	arg := args.NamedChild(0)
	return arg != nil && string(source[arg.StartByte():arg.EndByte()]) == "test"
}
