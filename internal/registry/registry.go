// Package registry maps reader variants to their parsers.
//
// Format packages register themselves from init functions; the dispatcher
// only ever looks them up.
package registry

import (
	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

// FormatParser is the interface all format readers implement.
type FormatParser interface {
	// Parse builds a File from the already opened source. The returned File
	// has Path, Format, Family and Size set.
	Parse(sr *binary.SafeReader) (*types.File, error)
}

// ParserFunc adapts an ordinary function to FormatParser.
type ParserFunc func(sr *binary.SafeReader) (*types.File, error)

// Parse calls f(sr).
func (f ParserFunc) Parse(sr *binary.SafeReader) (*types.File, error) {
	return f(sr)
}

// Container is the stream layout of a multi-format file after a single pass
// over its header.
type Container interface {
	HasVideo() bool
	HasAudio() bool
	// Build returns a File of the given flavor from the parsed header.
	Build(format types.Format) *types.File
}

// ContainerInspector parses a multi-format header once without committing
// to a flavor.
type ContainerInspector interface {
	Inspect(sr *binary.SafeReader) (Container, error)
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]FormatParser)

// inspector handles FamilyMultiFormat files.
var inspector ContainerInspector

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	return parsers[format]
}

// RegisterInspector registers the multi-format container inspector.
func RegisterInspector(i ContainerInspector) {
	inspector = i
}

// Inspector returns the registered container inspector, or nil.
func Inspector() ContainerInspector {
	return inspector
}
