// Package types provides core data structures for media file metadata.
//
// This package defines the File, Tags, AudioInfo and VideoInfo types that
// represent parsed metadata across all supported containers, along with the
// Format and Family enums the dispatcher matches on.
package types

import "fmt"

// File is the normalized metadata handle produced by a reader.
//
// A File is built fresh for every parse and is owned by the caller; readers
// and the dispatcher keep no reference to it.
type File struct {
	Path     string
	MIMEType string
	Tags     Tags
	Audio    AudioInfo
	Video    *VideoInfo // nil for audio-only files
	Warnings []Warning
	Format   Format
	Family   Family
	Size     int64
}

// NewFile returns an empty File for the given reader variant.
func NewFile(path string, format Format, size int64) *File {
	return &File{
		Path:   path,
		Format: format,
		Family: format.Family(),
		Size:   size,
	}
}

// Warn appends a non-fatal warning.
func (f *File) Warn(stage string, offset int64, format string, args ...any) {
	f.Warnings = append(f.Warnings, Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// HasVideo reports whether the file carries a video stream description.
func (f *File) HasVideo() bool {
	return f.Video != nil
}
