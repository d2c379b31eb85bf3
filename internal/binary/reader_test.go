package binary

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/simonhull/mediameta/internal/types"
)

// failingReader returns err for every read.
type failingReader struct {
	err error
}

func (f failingReader) ReadAt(p []byte, off int64) (int, error) {
	return 0, f.err
}

func newTestReader(data []byte) *SafeReader {
	return NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.avi")
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 1, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[0] != 0x02 || buf[1] != 0x03 {
		t.Errorf("expected [0x02, 0x03], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	sr := newTestReader([]byte{0x01, 0x02, 0x03, 0x04})

	tests := []struct {
		name string
		off  int64
		n    int
	}{
		{"past end", 10, 2},
		{"straddles end", 3, 2},
		{"negative", -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tt.n), tt.off, "chunk header")
			var oob *types.OutOfBoundsError
			if !errors.As(err, &oob) {
				t.Fatalf("expected *OutOfBoundsError, got %T (%v)", err, err)
			}
			if !strings.Contains(err.Error(), "test.avi") || !strings.Contains(err.Error(), "chunk header") {
				t.Errorf("error should name file and structure: %v", err)
			}
		})
	}
}

func TestSafeReader_ReadAt_IOFailure(t *testing.T) {
	sr := NewSafeReader(failingReader{err: syscall.EIO}, 100, "bad.mp3")

	err := sr.ReadAt(make([]byte, 4), 0, "frame header")
	var re *types.ReadError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReadError, got %T (%v)", err, err)
	}
	if !errors.Is(err, syscall.EIO) {
		t.Errorf("ReadError should wrap EIO: %v", err)
	}
}

func TestSafeReader_ReadBytes_Guard(t *testing.T) {
	data := make([]byte, 64)
	sr := newTestReader(data).WithGuard(16)

	if _, err := sr.ReadBytes(0, 16, "small"); err != nil {
		t.Fatalf("read at guard should succeed: %v", err)
	}

	_, err := sr.ReadBytes(0, 17, "big")
	var rl *types.ResourceLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected *ResourceLimitError, got %T (%v)", err, err)
	}
	if rl.Limit != 16 || rl.Length != 17 {
		t.Errorf("limit/length = %d/%d, want 16/17", rl.Limit, rl.Length)
	}
}

func TestSafeReader_ReadBytes_GuardBeforeBounds(t *testing.T) {
	// A declared size far beyond the file must trip the guard, not the
	// bounds check.
	sr := newTestReader(make([]byte, 8)).WithGuard(1024)

	_, err := sr.ReadBytes(4, 1<<40, "declared payload")
	var rl *types.ResourceLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected *ResourceLimitError, got %T (%v)", err, err)
	}
}

func TestSafeReader_ReadBytes_Negative(t *testing.T) {
	sr := newTestReader(make([]byte, 8))

	_, err := sr.ReadBytes(0, -5, "payload")
	var ce *types.CorruptedFileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CorruptedFileError, got %T (%v)", err, err)
	}
}

func TestSafeReader_Header_ShortFile(t *testing.T) {
	sr := newTestReader([]byte("RIFF"))

	h, err := sr.Header(64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(h) != "RIFF" {
		t.Errorf("Header() = %q, want RIFF", h)
	}
}

func TestSafeReader_WithGuardDefault(t *testing.T) {
	sr := newTestReader(nil).WithGuard(0)
	if sr.Guard() != DefaultGuard {
		t.Errorf("Guard() = %d, want %d", sr.Guard(), DefaultGuard)
	}
}

func TestSafeReader_Section(t *testing.T) {
	sr := newTestReader([]byte("hello world"))

	got, err := io.ReadAll(sr.Section())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("Section() read %q", got)
	}

	bad := NewSafeReader(failingReader{err: syscall.EIO}, 10, "bad.mov")
	_, err = io.ReadAll(bad.Section())
	var re *types.ReadError
	if !errors.As(err, &re) {
		t.Errorf("expected *ReadError from section, got %T (%v)", err, err)
	}
}

func TestReader_Sequential(t *testing.T) {
	data := []byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 'a', 'b', 'c'}
	r := NewReader(newTestReader(data), 0, LittleEndian)

	v16, err := ReadValue[uint16](r, "u16")
	if err != nil || v16 != 1 {
		t.Fatalf("ReadValue[uint16] = %d, %v; want 1", v16, err)
	}
	v32, err := ReadValue[uint32](r, "u32")
	if err != nil || v32 != 2 {
		t.Fatalf("ReadValue[uint32] = %d, %v; want 2", v32, err)
	}
	b, err := r.ReadBytes(3, "tail")
	if err != nil || string(b) != "abc" {
		t.Fatalf("ReadBytes = %q, %v; want abc", b, err)
	}
	if r.Offset() != 9 || r.Remaining() != 0 {
		t.Errorf("Offset/Remaining = %d/%d, want 9/0", r.Offset(), r.Remaining())
	}
}
