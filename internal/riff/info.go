package riff

import (
	"github.com/simonhull/mediameta/internal/textenc"
	"github.com/simonhull/mediameta/internal/types"
)

// applyInfo maps one INFO sub-chunk onto the tags. Values are NUL
// terminated and carry no declared encoding.
func applyInfo(id string, data []byte, tags *types.Tags) {
	value := textenc.Text(data)
	if value == "" {
		return
	}
	tags.Add(id, value)

	switch id {
	case "INAM":
		tags.Title = value
	case "IART":
		tags.Artist = value
	case "IPRD":
		tags.Album = value
	case "ICMT":
		tags.Comment = value
	case "ICRD":
		tags.Date = value
		tags.Year = types.ParseYear(value)
	case "IGNR":
		tags.AddGenre(value)
	case "ICOP":
		tags.Copyright = value
	case "ISFT":
		tags.Encoder = value
	case "ILNG":
		tags.Language = value
	case "ISBJ":
		tags.Description = value
	case "IPRT", "ITRK":
		tags.TrackNumber, tags.TrackTotal = types.ParseNumberPair(value)
	}
}
