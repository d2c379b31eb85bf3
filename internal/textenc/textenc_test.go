package textenc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatin1(t *testing.T) {
	require := require.New(t)

	require.Equal("Café", Latin1([]byte{'C', 'a', 'f', 0xE9, 0, 0}))
	require.Equal("", Latin1(nil))
}

func TestUTF16LE(t *testing.T) {
	require := require.New(t)

	// "Hé" NUL-terminated.
	b := []byte{'H', 0, 0xE9, 0, 0, 0}
	require.Equal("Hé", UTF16LE(b))

	// Odd trailing byte is ignored.
	require.Equal("H", UTF16LE([]byte{'H', 0, 'x'}))
}

func TestUTF16_BOM(t *testing.T) {
	require := require.New(t)

	require.Equal("Hi", UTF16([]byte{0xFE, 0xFF, 0, 'H', 0, 'i'}))
	require.Equal("Hi", UTF16([]byte{0xFF, 0xFE, 'H', 0, 'i', 0}))
	require.Equal("Hi", UTF16([]byte{'H', 0, 'i', 0}))
}

func TestText_FallsBackToLatin1(t *testing.T) {
	require := require.New(t)

	require.Equal("naïve", Text([]byte("naïve")))
	require.Equal("Ñu", Text([]byte{0xD1, 'u', 0}))
}

func TestSplitNUL(t *testing.T) {
	require := require.New(t)

	parts := SplitNUL([]byte("a\x00bc\x00\x00"), 1)
	require.Len(parts, 2)
	require.Equal("a", string(parts[0]))
	require.Equal("bc", string(parts[1]))

	wide := SplitNUL([]byte{'a', 0, 0, 0, 'b', 0}, 2)
	require.Len(wide, 2)
	require.Equal("b", UTF16LE(wide[1]))
}
