// Package vorbis provides shared Vorbis comment parsing utilities.
//
// Vorbis comments are used by FLAC, Ogg Vorbis, Opus and OGM streams.
// The format is identical: UTF-8 strings in "KEY=VALUE" format.
package vorbis

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/simonhull/mediameta/internal/types"
)

// Block is a decoded comment header.
type Block struct {
	Vendor   string
	Comments []string
}

// ParseBlock decodes a comment header body:
//
//	[vendor_length u32le][vendor][count u32le]([length u32le][comment])*
//
// The payload has already been read through the header guard, so every
// length is checked against the slice rather than the file.
func ParseBlock(data []byte) (*Block, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("comment header too short: %d bytes", len(data))
	}
	vendorLen := int64(binary.LittleEndian.Uint32(data))
	pos := int64(4)
	if pos+vendorLen+4 > int64(len(data)) {
		return nil, fmt.Errorf("vendor string length %d exceeds header", vendorLen)
	}
	block := &Block{Vendor: string(data[pos : pos+vendorLen])}
	pos += vendorLen

	count := int64(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	// Each comment needs at least its length prefix.
	if count > (int64(len(data))-pos)/4 {
		return block, fmt.Errorf("comment count %d exceeds header", count)
	}

	block.Comments = make([]string, 0, count)
	for i := int64(0); i < count; i++ {
		if pos+4 > int64(len(data)) {
			return block, fmt.Errorf("comment %d truncated", i)
		}
		n := int64(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
		if pos+n > int64(len(data)) {
			return block, fmt.Errorf("comment %d length %d exceeds header", i, n)
		}
		block.Comments = append(block.Comments, string(data[pos:pos+n]))
		pos += n
	}
	return block, nil
}

// Apply maps every comment in the block onto tags. Malformed entries are
// reported as warnings on file.
func (b *Block) Apply(file *types.File) {
	if b.Vendor != "" && file.Tags.Encoder == "" {
		file.Tags.Encoder = b.Vendor
	}
	for _, c := range b.Comments {
		if err := ParseComment(c, &file.Tags); err != nil {
			file.Warn("metadata", 0, "%v", err)
		}
	}
}

// ParseComment parses a single Vorbis comment in "KEY=VALUE" format
// and populates the appropriate fields of tags.
//
// Vorbis comment field names are case-insensitive; they are upper-cased
// before matching and before being stored in the raw tags map.
//
// Returns an error if the comment is not in valid "KEY=VALUE" format.
func ParseComment(comment string, tags *types.Tags) error {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return fmt.Errorf("missing '=' in comment: %s", comment)
	}
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return fmt.Errorf("empty key in comment: %s", comment)
	}

	switch key {
	case "TITLE":
		tags.Title = value
	case "ARTIST":
		if tags.Artist == "" {
			tags.Artist = value
		}
	case "ALBUM":
		tags.Album = value
	case "ALBUMARTIST", "ALBUM ARTIST":
		tags.AlbumArtist = value
	case "DATE", "YEAR":
		tags.Date = value
		if year := types.ParseYear(value); year > 0 {
			tags.Year = year
		}
	case "TRACKNUMBER":
		n, total := types.ParseNumberPair(value)
		tags.TrackNumber = n
		if total > 0 {
			tags.TrackTotal = total
		}
	case "TRACKTOTAL", "TOTALTRACKS":
		tags.TrackTotal, _ = types.ParseNumberPair(value)
	case "DISCNUMBER":
		n, total := types.ParseNumberPair(value)
		tags.DiscNumber = n
		if total > 0 {
			tags.DiscTotal = total
		}
	case "DISCTOTAL", "TOTALDISCS":
		tags.DiscTotal, _ = types.ParseNumberPair(value)
	case "GENRE":
		tags.AddGenre(value)
	case "COMPOSER":
		tags.Composers = append(tags.Composers, value)
	case "COMMENT", "DESCRIPTION":
		if tags.Comment == "" {
			tags.Comment = value
		}
		if key == "DESCRIPTION" {
			tags.Description = value
		}
	case "PUBLISHER", "LABEL", "ORGANIZATION":
		if tags.Publisher == "" {
			tags.Publisher = value
		}
	case "LANGUAGE", "LANG":
		tags.Language = value
	case "COPYRIGHT":
		tags.Copyright = value
	case "RATING":
		tags.Rating = value
	case "ENCODER", "ENCODED_BY", "ENCODED-BY":
		tags.Encoder = value
	}

	tags.Add(key, value)
	return nil
}
