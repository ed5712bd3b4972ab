// Package tree wraps go-tree-sitter with the traversal and location helpers
// the analysis pipeline builds on: iterative cursor-based walking, a
// predicate-filtered node iterator, and byte-offset/row-column locations
// translated into 1-based, UTF-16-column source locations.
package tree

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Point is a zero-based row/column position, mirroring tree_sitter.Point.
type Point struct {
	Row    uint
	Column uint
}

// SyntaxLocation is a byte-range location as reported directly by
// go-tree-sitter, before translation to a display location.
type SyntaxLocation struct {
	StartByte     uint
	EndByte       uint
	StartPosition Point
	EndPosition   Point
}

// FromNode builds a SyntaxLocation from a tree-sitter node.
func FromNode(n *tree_sitter.Node) SyntaxLocation {
	start := n.StartPosition()
	end := n.EndPosition()
	return SyntaxLocation{
		StartByte:     n.StartByte(),
		EndByte:       n.EndByte(),
		StartPosition: Point{Row: start.Row, Column: start.Column},
		EndPosition:   Point{Row: end.Row, Column: end.Column},
	}
}

// Location is a 1-based line, UTF-16-code-unit column location, the unit
// SonarQube's analyzer API expects.
type Location struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// ToLocation translates a byte-offset/UTF-8-column SyntaxLocation into a
// 1-based line, UTF-16-column Location by re-decoding the source bytes
// between the start of each endpoint's line and the endpoint itself.
func (s SyntaxLocation) ToLocation(source []byte) Location {
	return Location{
		StartLine:   int(s.StartPosition.Row) + 1,
		StartColumn: utf16Column(source, s.StartByte, s.StartPosition.Column),
		EndLine:     int(s.EndPosition.Row) + 1,
		EndColumn:   utf16Column(source, s.EndByte, s.EndPosition.Column),
	}
}

// utf16Column counts the UTF-16 code units between the start of the line
// containing byteOffset and byteOffset itself. column is the UTF-8 byte
// offset of byteOffset within its line, as reported by tree-sitter.
func utf16Column(source []byte, byteOffset uint, column uint) int {
	lineStart := byteOffset - column
	if lineStart > uint(len(source)) {
		lineStart = uint(len(source))
	}
	end := byteOffset
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	count := 0
	for _, r := range string(source[lineStart:end]) {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}
