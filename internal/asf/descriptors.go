package asf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/textenc"
	"github.com/simonhull/mediameta/internal/types"
)

// Descriptor value types.
const (
	valueUnicode = 0
	valueBytes   = 1
	valueBool    = 2
	valueDWord   = 3
	valueQWord   = 4
	valueWord    = 5
	valueGUID    = 6
)

// contentDescription decodes the five fixed fields of the Content
// Description object.
func (h *header) contentDescription(b []byte) error {
	if len(b) < 10 {
		return fmt.Errorf("object too short: %d bytes", len(b))
	}
	var lengths [5]int
	total := 10
	for i := range lengths {
		lengths[i] = int(binary.Decode[uint16](b[i*2:], binary.LittleEndian))
		total += lengths[i]
	}
	if total > len(b) {
		return fmt.Errorf("field lengths %d exceed object size %d", total, len(b))
	}

	fields := [5]string{}
	pos := 10
	for i, n := range lengths {
		fields[i] = strings.TrimSpace(textenc.UTF16LE(b[pos : pos+n]))
		pos += n
	}

	keys := [5]string{"Title", "Author", "Copyright", "Description", "Rating"}
	for i, v := range fields {
		if v != "" {
			h.tags.Add(keys[i], v)
		}
	}
	h.tags.Title = fields[0]
	h.tags.Artist = fields[1]
	h.tags.Copyright = fields[2]
	h.tags.Description = fields[3]
	h.tags.Rating = fields[4]
	if h.tags.Comment == "" {
		h.tags.Comment = fields[3]
	}
	return nil
}

// extendedContent decodes the name/value pairs of the Extended Content
// Description object.
func (h *header) extendedContent(b []byte) error {
	r := &cursor{b: b}
	count := int(r.u16())
	for i := 0; i < count; i++ {
		name := textenc.UTF16LE(r.bytes(int(r.u16())))
		kind := r.u16()
		value := r.bytes(int(r.u16()))
		if r.err != nil {
			return fmt.Errorf("descriptor %d: %w", i, r.err)
		}
		h.setDescriptor(name, kind, value, 4)
	}
	return nil
}

// metadata decodes the Metadata object of the Header Extension. Only
// stream independent records are used.
func (h *header) metadata(b []byte) error {
	r := &cursor{b: b}
	count := int(r.u16())
	for i := 0; i < count; i++ {
		r.u16() // reserved
		streamNumber := r.u16()
		nameLen := int(r.u16())
		kind := r.u16()
		dataLen := int(r.u32())
		name := textenc.UTF16LE(r.bytes(nameLen))
		value := r.bytes(dataLen)
		if r.err != nil {
			return fmt.Errorf("record %d: %w", i, r.err)
		}
		if streamNumber == 0 {
			h.setDescriptor(name, kind, value, 2)
		}
	}
	return nil
}

// setDescriptor stores one descriptor and maps the WM/ attributes onto the
// standard tag fields. boolSize differs between the two objects carrying
// descriptors.
func (h *header) setDescriptor(name string, kind uint16, value []byte, boolSize int) {
	text, ok := descriptorText(kind, value, boolSize)
	if !ok || text == "" || name == "" {
		return
	}
	tags := &h.tags
	tags.Add(name, text)

	switch name {
	case "WM/AlbumTitle":
		tags.Album = text
	case "WM/AlbumArtist":
		tags.AlbumArtist = text
	case "WM/Genre":
		tags.AddGenre(text)
	case "WM/Year", "WM/OriginalReleaseYear":
		if tags.Date == "" {
			tags.Date = text
			tags.Year = types.ParseYear(text)
		}
	case "WM/TrackNumber":
		n, total := types.ParseNumberPair(text)
		tags.TrackNumber = n
		if total > 0 {
			tags.TrackTotal = total
		}
	case "WM/Track":
		// Zero based, superseded by WM/TrackNumber.
		if n, err := strconv.Atoi(text); err == nil && tags.TrackNumber == 0 {
			tags.TrackNumber = n + 1
		}
	case "WM/PartOfSet":
		tags.DiscNumber, tags.DiscTotal = types.ParseNumberPair(text)
	case "WM/Composer":
		tags.Composers = append(tags.Composers, text)
	case "WM/Publisher":
		tags.Publisher = text
	case "WM/Language":
		tags.Language = text
	case "WM/EncodedBy", "WM/ToolName":
		if tags.Encoder == "" {
			tags.Encoder = text
		}
	case "WM/Text":
		if tags.Comment == "" {
			tags.Comment = text
		}
	}
}

// descriptorText renders a descriptor value. Byte arrays are not rendered.
func descriptorText(kind uint16, value []byte, boolSize int) (string, bool) {
	switch kind {
	case valueUnicode:
		return strings.TrimSpace(textenc.UTF16LE(value)), true
	case valueBool:
		if len(value) < boolSize {
			return "", false
		}
		return strconv.FormatBool(binary.Decode[uint16](value, binary.LittleEndian) != 0), true
	case valueDWord:
		if len(value) < 4 {
			return "", false
		}
		return strconv.FormatUint(uint64(binary.Decode[uint32](value, binary.LittleEndian)), 10), true
	case valueQWord:
		if len(value) < 8 {
			return "", false
		}
		return strconv.FormatUint(binary.Decode[uint64](value, binary.LittleEndian), 10), true
	case valueWord:
		if len(value) < 2 {
			return "", false
		}
		return strconv.FormatUint(uint64(binary.Decode[uint16](value, binary.LittleEndian)), 10), true
	case valueGUID:
		if len(value) < 16 {
			return "", false
		}
		return readGUID(value).String(), true
	}
	return "", false
}

// cursor reads little-endian fields from an object body and remembers the
// first overrun.
type cursor struct {
	b   []byte
	pos int
	err error
}

func (c *cursor) bytes(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.pos+n > len(c.b) {
		c.err = fmt.Errorf("need %d bytes at %d, have %d", n, c.pos, len(c.b)-c.pos)
		return nil
	}
	out := c.b[c.pos : c.pos+n]
	c.pos += n
	return out
}

func (c *cursor) u16() uint16 {
	b := c.bytes(2)
	if b == nil {
		return 0
	}
	return binary.Decode[uint16](b, binary.LittleEndian)
}

func (c *cursor) u32() uint32 {
	b := c.bytes(4)
	if b == nil {
		return 0
	}
	return binary.Decode[uint32](b, binary.LittleEndian)
}
