package tree

import (
	"github.com/standardbeagle/rustsonar/internal/analyzererr"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Visitor receives enter/exit callbacks as Walk descends and ascends the
// tree. Either method may be left as a no-op by embedding BaseVisitor.
type Visitor interface {
	EnterNode(n *tree_sitter.Node) error
	ExitNode(n *tree_sitter.Node) error
}

// BaseVisitor supplies no-op EnterNode/ExitNode so visitors only need to
// implement the callback they care about.
type BaseVisitor struct{}

func (BaseVisitor) EnterNode(*tree_sitter.Node) error { return nil }
func (BaseVisitor) ExitNode(*tree_sitter.Node) error  { return nil }

// Walk performs an iterative depth-first traversal of root using a cursor,
// calling v.EnterNode on descent and v.ExitNode once a node's children (if
// any) have all been visited. Extra nodes (the grammar's comments) are
// treated as leaves: they are still visited, but never descended into.
func Walk(root *tree_sitter.Node, v Visitor) error {
	cursor := root.Walk()
	defer cursor.Close()

	hasNext := true
	visitedChildren := false

	for hasNext {
		node := cursor.Node()

		if !visitedChildren {
			if err := v.EnterNode(node); err != nil {
				return err
			}
			if !node.IsExtra() && cursor.GotoFirstChild() {
				continue
			}
			visitedChildren = true
		}

		if err := v.ExitNode(node); err != nil {
			return err
		}

		if cursor.GotoNextSibling() {
			visitedChildren = false
			continue
		}

		if cursor.GotoParent() {
			visitedChildren = true
			continue
		}
		hasNext = false
	}
	return nil
}

// Predicate reports whether a node should be yielded by an Iterator.
type Predicate func(n *tree_sitter.Node) bool

// Iterator lazily yields nodes matching a predicate in the same traversal
// order Walk's exit callback visits them: a node is yielded only once all
// of its children have been processed (or immediately, if it has none).
type Iterator struct {
	predicate       Predicate
	cursor          tree_sitter.TreeCursor
	hasNext         bool
	visitedChildren bool
}

// NewIterator builds an Iterator over root, yielding only nodes for which
// predicate returns true.
func NewIterator(root *tree_sitter.Node, predicate Predicate) *Iterator {
	return &Iterator{
		predicate: predicate,
		cursor:    root.Walk(),
		hasNext:   true,
	}
}

// Close releases the underlying cursor. Safe to call after Next has
// returned nil, but harmless either way.
func (it *Iterator) Close() {
	it.cursor.Close()
}

// Next advances the iterator and returns the next matching node, or nil
// once traversal is exhausted.
func (it *Iterator) Next() *tree_sitter.Node {
	for it.hasNext {
		node := it.cursor.Node()
		if node.IsExtra() {
			it.visitedChildren = true
		}

		if !it.visitedChildren {
			if it.cursor.GotoFirstChild() {
				continue
			}
			it.visitedChildren = true
		}

		var match *tree_sitter.Node
		if it.predicate(node) {
			match = node
		}

		if it.cursor.GotoNextSibling() {
			it.visitedChildren = false
		} else if it.cursor.GotoParent() {
			it.visitedChildren = true
		} else {
			it.hasNext = false
		}

		if match != nil {
			return match
		}
	}
	return nil
}

// ChildOfKind returns the first direct child of n whose Kind matches kind,
// or nil if none does.
func ChildOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		c := n.Child(i)
		if c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// WrapGlobalError wraps err (typically from cursor/parser setup) as a
// GlobalError tagged with op, if err is non-nil.
func WrapGlobalError(op string, err error) error {
	if err == nil {
		return nil
	}
	return analyzererr.NewGlobalError(op, err.Error()).WithUnderlying(err)
}
