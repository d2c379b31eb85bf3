package types

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size || e.Offset < 0 {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when no reader accepts the file.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// ResourceLimitError is returned when a reader would have to buffer more
// than the configured header guard in a single read.
type ResourceLimitError struct {
	Path   string
	What   string
	Offset int64
	Length int64
	Limit  int64
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("%s: read of %d bytes at offset %d exceeds header guard of %d bytes while reading %s",
		e.Path, e.Length, e.Offset, e.Limit, e.What)
}

// ReadError reports an I/O failure of the underlying file: it could not be
// opened, stat'ed or read. It is never absorbed by the dispatcher.
type ReadError struct {
	Path string
	Op   string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - Missing optional fields
//   - Invalid encoding in a tag
//   - A truncated comment list
//
// Warnings are collected in File.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "metadata", "technical", "streams"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// IsFatal reports whether err must end a parse instead of being recorded as
// a warning: header guard violations and failures of the file itself.
func IsFatal(err error) bool {
	var rl *ResourceLimitError
	var re *ReadError
	return errors.As(err, &rl) || errors.As(err, &re)
}
