package mp3

import (
	"encoding/binary"
	"fmt"
	"strings"

	binutil "github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/textenc"
	"github.com/simonhull/mediameta/internal/types"
)

// ID3v2Header represents an ID3v2 tag header
type ID3v2Header struct {
	Version  byte // Major version (2, 3 or 4)
	Revision byte // Minor version
	Flags    byte
	Size     uint32 // Tag size (excluding header), synchsafe
}

// ID3v2Frame represents a single ID3v2 frame
type ID3v2Frame struct {
	ID    string // 4-character frame ID (e.g., "TIT2"); v2.2 IDs are mapped
	Flags uint16 // Frame flags
	Data  []byte // Frame data
}

const (
	flagUnsync   = 0x80
	flagExtended = 0x40
	flagFooter   = 0x10
)

// v22FrameIDs maps ID3v2.2 three-character frame IDs to their v2.3 names.
var v22FrameIDs = map[string]string{
	"TT1": "TIT1", "TT2": "TIT2", "TT3": "TIT3",
	"TP1": "TPE1", "TP2": "TPE2", "TP3": "TPE3",
	"TAL": "TALB", "TCO": "TCON", "TYE": "TYER",
	"TRK": "TRCK", "TPA": "TPOS", "TCM": "TCOM",
	"TCR": "TCOP", "TPB": "TPUB", "TEN": "TENC",
	"TSS": "TSSE", "TLA": "TLAN", "TXX": "TXXX",
	"COM": "COMM",
}

// parseID3v2 parses an ID3v2 tag at the start of the file. It returns the
// number of bytes the tag occupies, or 0 when there is none.
func parseID3v2(sr *binutil.SafeReader, file *types.File) (int64, error) {
	buf, err := sr.Header(10)
	if err != nil {
		return 0, err
	}
	if len(buf) < 10 || string(buf[0:3]) != "ID3" {
		return 0, nil
	}

	header := ID3v2Header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     decodeSynchsafe(buf[6:10]),
	}

	if header.Version < 2 || header.Version > 4 {
		return 0, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", header.Version),
		}
	}

	tagSize := int64(10) + int64(header.Size)
	if header.Version == 4 && header.Flags&flagFooter != 0 {
		tagSize += 10
	}

	// The declared size comes from the file, so it goes through the guard.
	body, err := sr.ReadBytes(10, int64(header.Size), "ID3v2 tag")
	if err != nil {
		return 0, err
	}
	if header.Version < 4 && header.Flags&flagUnsync != 0 {
		body = removeUnsync(body)
	}

	pos := 0
	if header.Flags&flagExtended != 0 {
		switch header.Version {
		case 2:
			// In v2.2 this bit means compression, which nobody implemented.
			file.Warn("metadata", 10, "compressed ID3v2.2 tag skipped")
			return tagSize, nil
		case 3:
			if len(body) >= 4 {
				pos = 4 + int(binary.BigEndian.Uint32(body[0:4]))
			}
		case 4:
			if len(body) >= 4 {
				pos = int(decodeSynchsafe(body[0:4]))
			}
		}
		if pos < 0 || pos > len(body) {
			return 0, &types.CorruptedFileError{
				Path:   sr.Path(),
				Reason: "extended header larger than tag",
				Offset: 10,
			}
		}
	}

	for _, frame := range readFrames(body[pos:], header.Version, file) {
		switch {
		case frame.ID == "TXXX":
			parseTXXXFrame(frame, file)
		case frame.ID == "COMM":
			parseCommentFrame(frame, file)
		case strings.HasPrefix(frame.ID, "T"):
			parseTextFrame(frame, file)
		}
	}

	return tagSize, nil
}

// readFrames splits the tag body into frames, stopping at padding.
func readFrames(body []byte, version byte, file *types.File) []ID3v2Frame {
	headerLen, idLen := 10, 4
	if version == 2 {
		headerLen, idLen = 6, 3
	}

	var frames []ID3v2Frame
	pos := 0
	for pos+headerLen <= len(body) {
		h := body[pos : pos+headerLen]
		if h[0] == 0 {
			break
		}

		id := string(h[:idLen])
		var size int
		var flags uint16
		switch version {
		case 2:
			size = int(h[3])<<16 | int(h[4])<<8 | int(h[5])
			mapped, ok := v22FrameIDs[id]
			if !ok {
				mapped = id
			}
			id = mapped
		case 3:
			size = int(binary.BigEndian.Uint32(h[4:8]))
			flags = binary.BigEndian.Uint16(h[8:10])
		default:
			size = int(decodeSynchsafe(h[4:8]))
			flags = binary.BigEndian.Uint16(h[8:10])
		}

		start := pos + headerLen
		if size < 0 || start+size > len(body) {
			file.Warn("metadata", int64(10+pos), "frame %s truncated (size %d)", id, size)
			break
		}
		data := body[start : start+size]
		pos = start + size

		if data, ok := frameData(data, version, flags); ok {
			frames = append(frames, ID3v2Frame{ID: id, Flags: flags, Data: data})
		} else {
			file.Warn("metadata", int64(10+start), "frame %s is compressed or encrypted, skipped", id)
		}
	}
	return frames
}

// frameData applies per-frame flags. ok is false for frames we cannot
// decode (compressed or encrypted).
func frameData(data []byte, version byte, flags uint16) ([]byte, bool) {
	switch version {
	case 3:
		if flags&0x00C0 != 0 {
			return nil, false
		}
	case 4:
		if flags&0x000C != 0 {
			return nil, false
		}
		if flags&0x0001 != 0 && len(data) >= 4 {
			data = data[4:]
		}
		if flags&0x0002 != 0 {
			data = removeUnsync(data)
		}
	}
	return data, true
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
// ID3v2 uses 7-bit encoding where bit 7 is always 0
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// removeUnsync reverses the unsynchronisation scheme (0xFF 0x00 -> 0xFF).
func removeUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// parseTextFrame parses standard text frames (TIT2, TPE1, TALB, etc.)
func parseTextFrame(frame ID3v2Frame, file *types.File) {
	if len(frame.Data) < 1 {
		return
	}

	values := decodeTextValues(frame.Data[1:], frame.Data[0])
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		file.Tags.Add(frame.ID, v)
	}
	text := values[0]

	switch frame.ID {
	case "TIT2": // Title
		file.Tags.Title = text
	case "TIT3": // Subtitle
		file.Tags.Description = text
	case "TPE1": // Artist
		file.Tags.Artist = text
	case "TALB": // Album
		file.Tags.Album = text
	case "TPE2": // Album artist
		file.Tags.AlbumArtist = text
	case "TCON": // Genre
		for _, v := range values {
			for _, g := range parseGenres(v) {
				file.Tags.AddGenre(g)
			}
		}
	case "TYER", "TDRC": // Year (v2.3), recording time (v2.4)
		file.Tags.Date = text
		if year := types.ParseYear(text); year > 0 {
			file.Tags.Year = year
		}
	case "TCOM": // Composer
		file.Tags.Composers = append(file.Tags.Composers, values...)
	case "TRCK": // Track number/total
		file.Tags.TrackNumber, file.Tags.TrackTotal = types.ParseNumberPair(text)
	case "TPOS": // Disc number/total
		file.Tags.DiscNumber, file.Tags.DiscTotal = types.ParseNumberPair(text)
	case "TCOP":
		file.Tags.Copyright = text
	case "TPUB":
		file.Tags.Publisher = text
	case "TLAN":
		file.Tags.Language = text
	case "TENC", "TSSE":
		if file.Tags.Encoder == "" {
			file.Tags.Encoder = text
		}
	}
}

// parseTXXXFrame parses user-defined text frames.
// Format: [encoding][description\0][value]
func parseTXXXFrame(frame ID3v2Frame, file *types.File) {
	if len(frame.Data) < 2 {
		return
	}

	encoding := frame.Data[0]
	desc, rest := splitDescription(frame.Data[1:], encoding)
	description := decodeText(desc, encoding)
	values := decodeTextValues(rest, encoding)
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		file.Tags.Add("TXXX:"+description, v)
	}

	switch strings.ToLower(description) {
	case "rating":
		file.Tags.Rating = values[0]
	case "publisher", "label":
		if file.Tags.Publisher == "" {
			file.Tags.Publisher = values[0]
		}
	}
}

// parseCommentFrame parses comment frames (COMM)
// Format: [encoding][language(3)][short description\0][text]
func parseCommentFrame(frame ID3v2Frame, file *types.File) {
	if len(frame.Data) < 5 {
		return
	}

	encoding := frame.Data[0]
	lang := strings.Trim(string(frame.Data[1:4]), "\x00 ")
	desc, rest := splitDescription(frame.Data[4:], encoding)
	description := decodeText(desc, encoding)
	text := strings.TrimSpace(decodeText(rest, encoding))

	// iTunes stores normalisation and gapless data as comments.
	if text == "" || strings.HasPrefix(description, "iTun") {
		return
	}
	file.Tags.Add("COMM", text)
	if file.Tags.Comment == "" {
		file.Tags.Comment = text
		if file.Tags.Language == "" && lang != "" && lang != "XXX" {
			file.Tags.Language = lang
		}
	}
}

// splitDescription splits [description\0][rest]. Without a terminator the
// whole payload is treated as rest.
func splitDescription(data []byte, encoding byte) (desc, rest []byte) {
	term := terminatorSize(encoding)
	for i := 0; i+term <= len(data); i += term {
		if isNUL(data[i : i+term]) {
			return data[:i], data[i+term:]
		}
	}
	return nil, data
}

// decodeTextValues decodes a text payload that may hold several
// NUL-separated values (ID3v2.4) into trimmed, non-empty strings.
func decodeTextValues(data []byte, encoding byte) []string {
	var out []string
	for _, part := range textenc.SplitNUL(data, terminatorSize(encoding)) {
		if v := strings.TrimSpace(decodeText(part, encoding)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// decodeText decodes text based on ID3v2 encoding byte
func decodeText(data []byte, encoding byte) string {
	switch encoding {
	case 0: // ISO-8859-1
		return textenc.Latin1(data)
	case 1: // UTF-16 with BOM
		return textenc.UTF16(data)
	case 2: // UTF-16BE (ID3v2.4)
		return textenc.UTF16BE(data)
	case 3: // UTF-8 (ID3v2.4)
		return textenc.UTF8(data)
	default:
		return textenc.Text(data)
	}
}

// terminatorSize returns the size of the null terminator for the encoding
func terminatorSize(encoding byte) int {
	if encoding == 1 || encoding == 2 {
		return 2
	}
	return 1
}

func isNUL(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
