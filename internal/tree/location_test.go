package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUTF16ColumnASCII(t *testing.T) {
	source := []byte("let x = 1;")
	require.Equal(t, 4, utf16Column(source, 4, 4))
}

func TestUTF16ColumnSurrogatePair(t *testing.T) {
	// "😀" is a 4-byte UTF-8 sequence outside the BMP, encoded as a
	// surrogate pair (2 UTF-16 code units) in SonarQube's column space.
	source := []byte("😀x")
	emojiEnd := uint(len("😀"))
	require.Equal(t, 2, utf16Column(source, emojiEnd, emojiEnd))
}

func TestUTF16ColumnMultiByteNonSurrogate(t *testing.T) {
	// "é" is 2 bytes in UTF-8 but a single UTF-16 code unit.
	source := []byte("éx")
	eAcuteEnd := uint(len("é"))
	require.Equal(t, 1, utf16Column(source, eAcuteEnd, eAcuteEnd))
}

func TestSyntaxLocationToLocationIsOneBasedLines(t *testing.T) {
	source := []byte("fn main() {\n    let x = 1;\n}\n")
	parsed, err := ParseSource(source)
	require.NoError(t, err)
	defer parsed.Close()

	loc := FromNode(parsed.RootNode()).ToLocation(source)
	require.Equal(t, 1, loc.StartLine)
	require.Equal(t, 0, loc.StartColumn)
}
