// Package binary provides bounds-checked, guard-limited binary reading
// primitives shared by the format readers.
package binary

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/simonhull/mediameta/internal/types"
)

// DefaultGuard is the largest single read a SafeReader allows when no
// other limit is configured.
const DefaultGuard int64 = 8 << 20

// SafeReader wraps io.ReaderAt with bounds checking and a header guard.
//
// Every failure is reported with one of the typed errors from
// internal/types: *types.OutOfBoundsError for reads past the end,
// *types.ResourceLimitError for reads above the guard and *types.ReadError
// when the underlying file fails.
type SafeReader struct {
	r     io.ReaderAt
	path  string
	size  int64
	guard int64
}

// NewSafeReader creates a new SafeReader using DefaultGuard.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:     r,
		size:  size,
		path:  path,
		guard: DefaultGuard,
	}
}

// WithGuard returns a copy of sr that refuses single reads above limit.
// A non-positive limit restores DefaultGuard.
func (sr *SafeReader) WithGuard(limit int64) *SafeReader {
	if limit <= 0 {
		limit = DefaultGuard
	}
	cp := *sr
	cp.guard = limit
	return &cp
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the total size of the underlying file.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// Guard returns the largest single read allowed.
func (sr *SafeReader) Guard() int64 {
	return sr.guard
}

// ReadAt fills b from offset off. what names the structure being read and
// ends up in error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if int64(len(b)) > sr.guard {
		return sr.limitError(off, int64(len(b)), what)
	}
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return sr.boundsError(off, len(b), what)
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return &types.ReadError{Path: sr.path, Op: "read " + what, Err: err}
	}
	if n < len(b) {
		// The file shrank underneath us.
		return sr.boundsError(off, len(b), what)
	}
	return nil
}

// ReadBytes allocates and reads n bytes at off. Any length taken from the
// file itself must go through ReadBytes so the guard is checked before the
// allocation happens.
func (sr *SafeReader) ReadBytes(off, n int64, what string) ([]byte, error) {
	if n < 0 {
		return nil, &types.CorruptedFileError{
			Path:   sr.path,
			Reason: "negative length for " + what,
			Offset: off,
		}
	}
	if n > sr.guard {
		return nil, sr.limitError(off, n, what)
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads n bytes at off and returns them as a string.
func (sr *SafeReader) ReadString(off, n int64, what string) (string, error) {
	b, err := sr.ReadBytes(off, n, what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Header returns up to n bytes from the start of the file. Short files yield
// a short slice rather than an error.
func (sr *SafeReader) Header(n int) ([]byte, error) {
	if int64(n) > sr.size {
		n = int(sr.size)
	}
	if n <= 0 {
		return []byte{}, nil
	}
	return sr.ReadBytes(0, int64(n), "file header")
}

// Section returns an io.SectionReader over the whole file for libraries that
// want io.ReadSeeker. Failures of the underlying file surface as
// *types.ReadError.
func (sr *SafeReader) Section() *io.SectionReader {
	return io.NewSectionReader(checkedReaderAt{sr}, 0, sr.size)
}

func (sr *SafeReader) boundsError(off int64, n int, what string) error {
	return &types.OutOfBoundsError{
		Path:   sr.path,
		What:   what,
		Offset: off,
		Length: n,
		Size:   sr.size,
	}
}

func (sr *SafeReader) limitError(off, n int64, what string) error {
	return &types.ResourceLimitError{
		Path:   sr.path,
		What:   what,
		Offset: off,
		Length: n,
		Limit:  sr.guard,
	}
}

type checkedReaderAt struct {
	sr *SafeReader
}

func (c checkedReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n, err := c.sr.r.ReadAt(p, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &types.ReadError{Path: c.sr.path, Op: "read", Err: err}
	}
	return n, err
}

// Read reads a big-endian value of type T from the given offset.
func Read[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	order  Endianness
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64, order Endianness) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
		order:      order,
	}
}

// ReadValue reads a numeric value and advances the offset.
func ReadValue[T Unsigned](r *Reader, what string) (T, error) {
	val, err := ReadEndian[T](r.SafeReader, r.offset, what, r.order)
	if err != nil {
		return 0, err
	}
	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadBytes reads n bytes and advances the offset.
func (r *Reader) ReadBytes(n int64, what string) ([]byte, error) {
	b, err := r.SafeReader.ReadBytes(r.offset, n, what)
	if err != nil {
		return nil, err
	}
	r.offset += n
	return b, nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Remaining returns the number of bytes between the offset and end of file.
func (r *Reader) Remaining() int64 {
	return r.size - r.offset
}
