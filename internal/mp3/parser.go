// Package mp3 reads ID3 tags and MPEG audio frame headers.
package mp3

import (
	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

// parser implements registry.FormatParser for MP3 files.
type parser struct{}

// Parse parses a single MP3 file and extracts metadata.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	file := types.NewFile(sr.Path(), types.FormatMP3, sr.Size())
	file.Audio.Container = "MPEG"

	// ID3v2 tag (if present). Limit and I/O errors end the parse, anything
	// else only costs us the tag.
	tagSize, err := parseID3v2(sr, file)
	if err != nil {
		if types.IsFatal(err) {
			return nil, err
		}
		file.Warn("metadata", 0, "ID3v2 parsing failed: %v", err)
		tagSize = 0
	}

	// ID3v1 trailer fills whatever ID3v2 left empty.
	v1, err := parseID3v1(sr)
	if err != nil && types.IsFatal(err) {
		return nil, err
	}
	if v1 != nil {
		file.Tags.Merge(v1)
	}

	// Frame headers for bitrate, sample rate and duration.
	if err := parseTechnicalInfo(sr, tagSize, file); err != nil {
		if types.IsFatal(err) {
			return nil, err
		}
		if tagSize == 0 && v1 == nil {
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Reason: "no ID3 tag and no MPEG audio frame",
				Offset: 0,
			}
		}
		file.Warn("technical", tagSize, "failed to parse MP3 technical info: %v", err)
	}

	return file, nil
}

// init registers the MP3 parser
func init() {
	registry.Register(types.FormatMP3, &parser{})
}
