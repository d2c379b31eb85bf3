// Package asf reads the header object of Advanced Systems Format files:
// Windows Media Audio, Windows Media Video and plain .asf containers.
package asf

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

const (
	headerObjectSize = 30
	objectHeaderSize = 24
)

// stream is one Stream Properties object.
type stream struct {
	number   int
	video    bool
	codec    string
	lossless bool

	// audio
	channels   int
	sampleRate int
	bitDepth   int
	bitrate    int

	// video
	width, height int
	frameTime     time.Duration // from Extended Stream Properties
	dataBitrate   int
}

// header is everything learned from one pass over the Header Object.
type header struct {
	path string
	size int64

	playDuration time.Duration
	preroll      time.Duration
	maxBitrate   int

	streams  []*stream
	tags     types.Tags
	warnings []types.Warning
}

func (h *header) warn(offset int64, format string, args ...any) {
	h.warnings = append(h.warnings, types.Warning{
		Stage:   "header",
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// readHeader walks the objects of the Header Object. Objects that cannot be
// decoded become warnings; a missing or malformed Header Object is an error.
func readHeader(sr *binary.SafeReader) (*header, error) {
	top := make([]byte, headerObjectSize)
	if err := sr.ReadAt(top, 0, "ASF header object"); err != nil {
		return nil, err
	}
	if readGUID(top[0:16]) != guidHeader {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "missing ASF header object GUID"}
	}
	size := int64(binary.Decode[uint64](top[16:24], binary.LittleEndian))
	count := int(binary.Decode[uint32](top[24:28], binary.LittleEndian))
	if size < headerObjectSize {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("header object size %d too small", size),
			Offset: 16,
		}
	}

	h := &header{path: sr.Path(), size: sr.Size()}
	end := min(size, sr.Size())
	if size > sr.Size() {
		h.warn(16, "header object size %d exceeds file size %d", size, sr.Size())
	}

	sawFileProperties := false
	err := h.walkObjects(sr, headerObjectSize, end, count, func(id uuid.UUID, offset int64, body []byte) error {
		switch id {
		case guidFileProperties:
			if err := h.fileProperties(body); err != nil {
				return err
			}
			sawFileProperties = true
		case guidStreamProperties:
			s, err := parseStreamProperties(body)
			if err != nil {
				h.warn(offset, "stream properties: %v", err)
				return nil
			}
			h.streams = append(h.streams, s)
		case guidContentDescription:
			if err := h.contentDescription(body); err != nil {
				h.warn(offset, "content description: %v", err)
			}
		case guidExtendedContent:
			if err := h.extendedContent(body); err != nil {
				h.warn(offset, "extended content description: %v", err)
			}
		case guidHeaderExtension:
			if err := h.headerExtension(sr, offset, body); err != nil {
				if types.IsFatal(err) {
					return err
				}
				h.warn(offset, "header extension: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !sawFileProperties {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "missing file properties object"}
	}
	return h, nil
}

// walkObjects reads up to count objects between start and end and calls fn
// with each body. Bodies go through the reader's guard. A damaged object
// ends the walk with a warning.
func (h *header) walkObjects(sr *binary.SafeReader, start, end int64, count int, fn func(id uuid.UUID, offset int64, body []byte) error) error {
	offset := start
	for i := 0; (count <= 0 || i < count) && offset+objectHeaderSize <= end; i++ {
		head := make([]byte, objectHeaderSize)
		if err := sr.ReadAt(head, offset, "ASF object header"); err != nil {
			if types.IsFatal(err) {
				return err
			}
			h.warn(offset, "object header: %v", err)
			return nil
		}
		id := readGUID(head[0:16])
		size := int64(binary.Decode[uint64](head[16:24], binary.LittleEndian))
		if size < objectHeaderSize || size > end-offset {
			h.warn(offset, "object %s has invalid size %d", id, size)
			return nil
		}

		body, err := sr.ReadBytes(offset+objectHeaderSize, size-objectHeaderSize, "ASF object "+id.String())
		if err != nil {
			return err
		}
		if err := fn(id, offset, body); err != nil {
			return err
		}
		offset += size
	}
	return nil
}

// fileProperties decodes the File Properties object. A broken one makes the
// whole header unusable.
func (h *header) fileProperties(b []byte) error {
	if len(b) < 80 {
		return &types.CorruptedFileError{
			Path:   h.path,
			Reason: fmt.Sprintf("file properties object too short: %d bytes", len(b)),
		}
	}
	play := binary.Decode[uint64](b[40:48], binary.LittleEndian)
	preroll := binary.Decode[uint64](b[56:64], binary.LittleEndian)
	h.playDuration = time.Duration(play) * 100
	h.preroll = time.Duration(preroll) * time.Millisecond
	h.maxBitrate = int(binary.Decode[uint32](b[76:80], binary.LittleEndian))
	return nil
}

// duration is the play duration without the preroll.
func (h *header) duration() time.Duration {
	if h.playDuration <= h.preroll {
		return 0
	}
	return h.playDuration - h.preroll
}

// parseStreamProperties decodes a Stream Properties object body.
func parseStreamProperties(b []byte) (*stream, error) {
	if len(b) < 54 {
		return nil, fmt.Errorf("object too short: %d bytes", len(b))
	}
	kind := readGUID(b[0:16])
	typeLen := int(binary.Decode[uint32](b[40:44], binary.LittleEndian))
	flags := binary.Decode[uint16](b[48:50], binary.LittleEndian)
	if 54+typeLen > len(b) {
		return nil, fmt.Errorf("type specific data of %d bytes overruns object", typeLen)
	}
	data := b[54 : 54+typeLen]
	s := &stream{number: int(flags & 0x7F)}

	switch kind {
	case guidAudioMedia:
		if len(data) < 16 {
			return nil, fmt.Errorf("WAVEFORMATEX too short: %d bytes", len(data))
		}
		tag := binary.Decode[uint16](data[0:2], binary.LittleEndian)
		s.codec, s.lossless = audioCodec(tag)
		s.channels = int(binary.Decode[uint16](data[2:4], binary.LittleEndian))
		s.sampleRate = int(binary.Decode[uint32](data[4:8], binary.LittleEndian))
		s.bitrate = int(binary.Decode[uint32](data[8:12], binary.LittleEndian)) * 8
		s.bitDepth = int(binary.Decode[uint16](data[14:16], binary.LittleEndian))
	case guidVideoMedia:
		// width 4, height 4, flags 1, format size 2, BITMAPINFOHEADER 40
		if len(data) < 11+20 {
			return nil, fmt.Errorf("video media type too short: %d bytes", len(data))
		}
		s.video = true
		s.width = int(binary.Decode[uint32](data[0:4], binary.LittleEndian))
		s.height = int(binary.Decode[uint32](data[4:8], binary.LittleEndian))
		s.codec = fourCC(data[11+16 : 11+20])
	default:
		return nil, fmt.Errorf("unhandled stream type %s", kind)
	}
	return s, nil
}

// headerExtension walks the objects nested in the Header Extension object.
func (h *header) headerExtension(sr *binary.SafeReader, offset int64, b []byte) error {
	if len(b) < 22 {
		return fmt.Errorf("object too short: %d bytes", len(b))
	}
	dataSize := int64(binary.Decode[uint32](b[18:22], binary.LittleEndian))
	start := offset + objectHeaderSize + 22
	end := min(start+dataSize, offset+objectHeaderSize+int64(len(b)))

	return h.walkObjects(sr, start, end, 0, func(id uuid.UUID, off int64, body []byte) error {
		switch id {
		case guidExtendedStreamProps:
			h.extendedStreamProperties(off, body)
		case guidMetadata:
			if err := h.metadata(body); err != nil {
				h.warn(off, "metadata object: %v", err)
			}
		}
		return nil
	})
}

// extendedStreamProperties picks up the data bitrate and the average frame
// time of a stream, and a Stream Properties object embedded at its end.
func (h *header) extendedStreamProperties(offset int64, b []byte) {
	if len(b) < 64 {
		h.warn(offset, "extended stream properties too short: %d bytes", len(b))
		return
	}
	dataBitrate := int(binary.Decode[uint32](b[16:20], binary.LittleEndian))
	number := int(binary.Decode[uint16](b[48:50], binary.LittleEndian))
	frameTime := time.Duration(binary.Decode[uint64](b[52:60], binary.LittleEndian)) * 100
	names := int(binary.Decode[uint16](b[60:62], binary.LittleEndian))
	systems := int(binary.Decode[uint16](b[62:64], binary.LittleEndian))

	pos := 64
	for i := 0; i < names && pos+4 <= len(b); i++ {
		pos += 4 + int(binary.Decode[uint16](b[pos+2:pos+4], binary.LittleEndian))
	}
	for i := 0; i < systems && pos+22 <= len(b); i++ {
		pos += 22 + int(binary.Decode[uint32](b[pos+18:pos+22], binary.LittleEndian))
	}
	if pos+objectHeaderSize <= len(b) && readGUID(b[pos:pos+16]) == guidStreamProperties {
		if s, err := parseStreamProperties(b[pos+objectHeaderSize:]); err == nil && h.streamByNumber(s.number) == nil {
			h.streams = append(h.streams, s)
		}
	}

	if s := h.streamByNumber(number); s != nil {
		s.frameTime = frameTime
		s.dataBitrate = dataBitrate
	}
}

func (h *header) streamByNumber(n int) *stream {
	for _, s := range h.streams {
		if s.number == n {
			return s
		}
	}
	return nil
}

// firstStream returns the first audio or video stream.
func (h *header) firstStream(video bool) *stream {
	for _, s := range h.streams {
		if s.video == video {
			return s
		}
	}
	return nil
}

// audioCodec names a WAVEFORMATEX format tag.
func audioCodec(tag uint16) (name string, lossless bool) {
	switch tag {
	case 0x0160:
		return "WMA v1", false
	case 0x0161:
		return "WMA", false
	case 0x0162:
		return "WMA Pro", false
	case 0x0163:
		return "WMA Lossless", true
	case 0x000A:
		return "WMA Voice", false
	case 0x0055:
		return "MP3", false
	case 0x0001:
		return "PCM", true
	case 0x2000:
		return "AC-3", false
	default:
		return fmt.Sprintf("0x%04X", tag), false
	}
}

func fourCC(b []byte) string {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%02X%02X%02X%02X", b[0], b[1], b[2], b[3])
		}
	}
	return string(b)
}
