package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type countingVisitor struct {
	BaseVisitor
	entered []string
	exited  []string
}

func (v *countingVisitor) EnterNode(n *tree_sitter.Node) error {
	v.entered = append(v.entered, n.Kind())
	return nil
}

func (v *countingVisitor) ExitNode(n *tree_sitter.Node) error {
	v.exited = append(v.exited, n.Kind())
	return nil
}

func TestWalkVisitsEnterAndExitInMatchingCounts(t *testing.T) {
	source := []byte("fn main() { let x = 1; }")
	parsed, err := ParseSource(source)
	require.NoError(t, err)
	defer parsed.Close()

	v := &countingVisitor{}
	require.NoError(t, Walk(parsed.RootNode(), v))

	require.Equal(t, len(v.entered), len(v.exited))
	require.NotEmpty(t, v.entered)
	require.Equal(t, "source_file", v.entered[0])
	require.Equal(t, "source_file", v.exited[len(v.exited)-1])
}

func TestNewIteratorFiltersByPredicate(t *testing.T) {
	source := []byte("fn one() {} fn two() { fn nested() {} }")
	parsed, err := ParseSource(source)
	require.NoError(t, err)
	defer parsed.Close()

	isFunction := func(n *tree_sitter.Node) bool { return n.Kind() == "function_item" }
	it := NewIterator(parsed.RootNode(), isFunction)
	defer it.Close()

	var count int
	for n := it.Next(); n != nil; n = it.Next() {
		count++
		require.Equal(t, "function_item", n.Kind())
	}
	require.Equal(t, 3, count)
}

func TestChildOfKindFindsDirectChildOnly(t *testing.T) {
	source := []byte("#[cfg(test)]\nfn main() {}\n")
	parsed, err := ParseSource(source)
	require.NoError(t, err)
	defer parsed.Close()

	attributeItem := ChildOfKind(parsed.RootNode(), "attribute_item")
	require.NotNil(t, attributeItem)

	attribute := ChildOfKind(attributeItem, "attribute")
	require.NotNil(t, attribute)

	require.Nil(t, ChildOfKind(parsed.RootNode(), "nonexistent_kind"))
}

func TestWrapGlobalErrorPassesThroughNil(t *testing.T) {
	require.NoError(t, WrapGlobalError("op", nil))
}
