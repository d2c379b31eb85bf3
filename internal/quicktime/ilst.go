package quicktime

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/simonhull/mediameta/internal/textenc"
	"github.com/simonhull/mediameta/internal/types"
)

// iTunes data atom type indicators.
const (
	dataTypeBinary = 0
	dataTypeUTF8   = 1
	dataTypeUTF16  = 2
	dataTypeInt    = 21
)

// applyItem maps one ilst item onto the tags. The © sign of the standard
// item names is byte 0xA9.
func applyItem(key string, dataType uint32, value []byte, tags *types.Tags) {
	switch key {
	case "trkn":
		n, total := numberPair(value)
		tags.TrackNumber, tags.TrackTotal = n, total
		if n > 0 {
			tags.Add(key, strconv.Itoa(n)+"/"+strconv.Itoa(total))
		}
		return
	case "disk":
		n, total := numberPair(value)
		tags.DiscNumber, tags.DiscTotal = n, total
		if n > 0 {
			tags.Add(key, strconv.Itoa(n)+"/"+strconv.Itoa(total))
		}
		return
	case "gnre":
		// ID3v1 genre index plus one.
		if len(value) >= 2 {
			tags.Add(key, strconv.Itoa(int(binary.BigEndian.Uint16(value))))
		}
		return
	}

	text := itemText(dataType, value)
	if text == "" {
		return
	}
	tags.Add(displayKey(key), text)

	switch key {
	case "\xa9nam":
		tags.Title = text
	case "\xa9ART":
		tags.Artist = text
	case "\xa9alb":
		tags.Album = text
	case "aART":
		tags.AlbumArtist = text
	case "\xa9gen":
		tags.AddGenre(text)
	case "\xa9day":
		tags.Date = text
		tags.Year = types.ParseYear(text)
	case "\xa9cmt":
		tags.Comment = text
	case "desc", "ldes":
		if tags.Description == "" {
			tags.Description = text
		}
	case "\xa9wrt":
		tags.Composers = append(tags.Composers, text)
	case "cprt", "\xa9cpy":
		tags.Copyright = text
	case "\xa9too", "\xa9enc":
		if tags.Encoder == "" {
			tags.Encoder = text
		}
	case "\xa9pub", "\xa9lab":
		tags.Publisher = text
	}
}

// itemText decodes a data atom payload as text.
func itemText(dataType uint32, value []byte) string {
	switch dataType {
	case dataTypeUTF8:
		return strings.TrimSpace(strings.TrimRight(string(value), "\x00"))
	case dataTypeUTF16:
		return strings.TrimSpace(textenc.UTF16BE(value))
	case dataTypeInt:
		switch len(value) {
		case 1:
			return strconv.Itoa(int(int8(value[0])))
		case 2:
			return strconv.Itoa(int(int16(binary.BigEndian.Uint16(value))))
		case 4:
			return strconv.Itoa(int(int32(binary.BigEndian.Uint32(value))))
		}
	}
	return ""
}

// numberPair decodes the binary payload of trkn and disk items:
// [2 reserved][2 number][2 total][2 reserved].
func numberPair(value []byte) (n, total int) {
	if len(value) < 6 {
		return 0, 0
	}
	return int(binary.BigEndian.Uint16(value[2:4])), int(binary.BigEndian.Uint16(value[4:6]))
}

// displayKey renders the © byte as the character for raw tag keys.
func displayKey(key string) string {
	if strings.HasPrefix(key, "\xa9") {
		return "©" + key[1:]
	}
	return key
}
