package mediameta

import (
	"github.com/cockroachdb/errors"

	"github.com/simonhull/mediameta/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// ResourceLimitError is an alias to types.ResourceLimitError.
// Re-exporting from internal/types to maintain public API.
type ResourceLimitError = types.ResourceLimitError

// ReadError is an alias to types.ReadError.
// Re-exporting from internal/types to maintain public API.
type ReadError = types.ReadError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning

// ErrStrictParsing is returned by Open with WithStrictParsing when the file
// parsed with warnings.
var ErrStrictParsing = errors.New("strict parsing failed")

// IsReadError reports whether err is a failure of the file itself rather
// than of its contents.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
