package mp3

import (
	"strconv"
	"strings"

	binutil "github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/textenc"
	"github.com/simonhull/mediameta/internal/types"
)

const id3v1Size = 128

// parseID3v1 reads the fixed 128-byte trailer. It returns nil when the file
// has none.
func parseID3v1(sr *binutil.SafeReader) (*types.Tags, error) {
	if sr.Size() < id3v1Size {
		return nil, nil
	}
	buf := make([]byte, id3v1Size)
	if err := sr.ReadAt(buf, sr.Size()-id3v1Size, "ID3v1 tag"); err != nil {
		return nil, err
	}
	if string(buf[0:3]) != "TAG" {
		return nil, nil
	}

	field := func(b []byte) string {
		return strings.TrimSpace(textenc.Latin1(b))
	}

	tags := &types.Tags{
		Title:  field(buf[3:33]),
		Artist: field(buf[33:63]),
		Album:  field(buf[63:93]),
	}
	if year := field(buf[93:97]); year != "" {
		tags.Date = year
		tags.Year = types.ParseYear(year)
	}

	comment := buf[97:127]
	// ID3v1.1 stores the track in the last comment byte behind a NUL.
	if comment[28] == 0 && comment[29] != 0 {
		tags.TrackNumber = int(comment[29])
		comment = comment[:28]
	}
	tags.Comment = field(comment)

	if name := genreName(int(buf[127])); name != "" {
		tags.AddGenre(name)
	}

	for key, v := range map[string]string{
		"ID3v1:TITLE": tags.Title, "ID3v1:ARTIST": tags.Artist,
		"ID3v1:ALBUM": tags.Album, "ID3v1:YEAR": tags.Date,
		"ID3v1:COMMENT": tags.Comment,
	} {
		if v != "" {
			tags.Add(key, v)
		}
	}
	if tags.TrackNumber > 0 {
		tags.Add("ID3v1:TRACK", strconv.Itoa(tags.TrackNumber))
	}

	return tags, nil
}
