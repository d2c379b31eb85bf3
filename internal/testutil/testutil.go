// Package testutil builds synthetic media files for tests.
//
// The builders produce the smallest byte layouts each reader accepts. They
// favour readability over completeness: fields a reader ignores are zero.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes data to name inside a fresh temp dir and returns the path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// LE16 encodes v little-endian.
func LE16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }

// LE32 encodes v little-endian.
func LE32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }

// LE64 encodes v little-endian.
func LE64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

// BE16 encodes v big-endian.
func BE16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

// BE32 encodes v big-endian.
func BE32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

// BE64 encodes v big-endian.
func BE64(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

// UTF16LE encodes an ASCII string as NUL-terminated UTF-16LE.
func UTF16LE(s string) []byte {
	out := make([]byte, 0, 2*len(s)+2)
	for _, r := range s {
		out = binary.LittleEndian.AppendUint16(out, uint16(r))
	}
	return append(out, 0, 0)
}
