package analysis

import (
	"strings"
	"unicode"

	"github.com/standardbeagle/rustsonar/internal/tree"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Metrics is the set of size/complexity measures reported for one file.
type Metrics struct {
	Ncloc                int32
	CommentLines         int32
	Functions            int32
	Statements           int32
	Classes              int32
	CognitiveComplexity  int32
	CyclomaticComplexity int32
}

// CalculateMetrics walks the tree once for ncloc/comment/function/
// statement/class counts, then runs the cognitive and cyclomatic
// complexity passes over it.
func CalculateMetrics(root *tree_sitter.Node, source []byte) (Metrics, error) {
	v := &metricsVisitor{
		source:       source,
		commentLines: make(map[uint]bool),
		linesOfCode:  make(map[uint]bool),
	}
	if err := tree.Walk(root, v); err != nil {
		return Metrics{}, err
	}

	cognitive, err := TotalCognitiveComplexity(root)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		Ncloc:                int32(len(v.linesOfCode)),
		CommentLines:         int32(len(v.commentLines)),
		Functions:            v.functions,
		Statements:           v.statements,
		Classes:              v.classes,
		CognitiveComplexity:  cognitive,
		CyclomaticComplexity: CyclomaticComplexity(root),
	}, nil
}

type metricsVisitor struct {
	tree.BaseVisitor
	source       []byte
	commentLines map[uint]bool
	linesOfCode  map[uint]bool
	functions    int32
	statements   int32
	classes      int32
}

func (v *metricsVisitor) ExitNode(node *tree_sitter.Node) error {
	switch node.Kind() {
	case "line_comment", "block_comment":
		currentLine := node.StartPosition().Row
		text := string(v.source[node.StartByte():node.EndByte()])
		for _, line := range strings.Split(text, "\n") {
			if !isBlank(line) {
				v.commentLines[currentLine] = true
			}
			currentLine++
		}
	case "struct_item", "enum_item":
		v.classes++
	case "function_item":
		v.functions++
	case "expression_statement", "let_declaration", "empty_statement":
		v.statements++
	}

	if node.ChildCount() == 0 {
		startLine := node.StartPosition().Row
		endLine := node.EndPosition().Row
		for line := startLine; line <= endLine; line++ {
			v.linesOfCode[line] = true
		}
	}

	return nil
}

// isBlank reports whether line consists entirely of whitespace and/or
// ASCII punctuation, mirroring Rust's char::is_ascii_punctuation (the 32
// printable non-alphanumeric ASCII characters), used to decide whether a
// comment line's content counts as a real comment line.
func isBlank(line string) bool {
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		if isASCIIPunctuation(r) {
			continue
		}
		return false
	}
	return true
}

func isASCIIPunctuation(r rune) bool {
	return (r >= '!' && r <= '/') ||
		(r >= ':' && r <= '@') ||
		(r >= '[' && r <= '`') ||
		(r >= '{' && r <= '~')
}
