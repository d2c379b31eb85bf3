// Package riff reads the header list and INFO tags of RIFF AVI files.
package riff

import (
	"fmt"
	"slices"
	"time"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

const chunkHeaderSize = 8

// maxChunks bounds the number of chunks visited per list.
const maxChunks = 4096

// listParents names the enclosing list each LIST type is read under; ""
// is the RIFF body. Lists anywhere else are skipped, which bounds the
// nesting depth.
var listParents = map[string][]string{
	"hdrl": {""},
	"strl": {"hdrl"},
	"INFO": {"", "hdrl"},
}

// aviHeader holds the main AVI header (avih).
type aviHeader struct {
	microSecPerFrame uint32
	totalFrames      uint32
	width, height    int
}

// streamHeader holds one strl list: strh plus strf.
type streamHeader struct {
	kind    string // "vids" or "auds"
	handler string
	scale   uint32
	rate    uint32
	length  uint32

	// strf
	codec      string
	channels   int
	sampleRate int
	bitDepth   int
	bitrate    int
	width      int
	height     int
}

type parser struct{}

// Parse walks the RIFF chunk tree of an AVI file.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	head := make([]byte, 12)
	if err := sr.ReadAt(head, 0, "RIFF header"); err != nil {
		return nil, err
	}
	if string(head[0:4]) != "RIFF" || string(head[8:12]) != "AVI " {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "not a RIFF AVI file"}
	}

	w := &walker{sr: sr, file: types.NewFile(sr.Path(), types.FormatAVI, sr.Size())}
	riffEnd := min(12+int64(binary.Decode[uint32](head[4:8], binary.LittleEndian))-4, sr.Size())
	if err := w.walk(12, riffEnd, ""); err != nil {
		return nil, err
	}
	if w.avih == nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "missing avih chunk"}
	}

	w.fill()
	return w.file, nil
}

// walker collects chunk contents while walking the tree.
type walker struct {
	sr      *binary.SafeReader
	file    *types.File
	avih    *aviHeader
	streams []*streamHeader
}

// walk visits the chunks between start and end. list is the type of the
// enclosing LIST.
func (w *walker) walk(start, end int64, list string) error {
	offset := start
	for i := 0; i < maxChunks && offset+chunkHeaderSize <= end; i++ {
		head := make([]byte, chunkHeaderSize)
		if err := w.sr.ReadAt(head, offset, "chunk header"); err != nil {
			if types.IsFatal(err) {
				return err
			}
			w.file.Warn("chunks", offset, "%v", err)
			return nil
		}
		id := string(head[0:4])
		size := int64(binary.Decode[uint32](head[4:8], binary.LittleEndian))
		body := offset + chunkHeaderSize
		if body+size > end {
			w.file.Warn("chunks", offset, "chunk %q of %d bytes overruns its parent", id, size)
			size = end - body
		}

		if err := w.chunk(id, body, size, list); err != nil {
			return err
		}

		// Chunks are padded to an even size.
		offset = body + size + size&1
	}
	return nil
}

func (w *walker) chunk(id string, offset, size int64, list string) error {
	if id == "LIST" {
		if size < 4 {
			return nil
		}
		listType, err := w.sr.ReadString(offset, 4, "list type")
		if err != nil {
			return err
		}
		if listType == list {
			return &types.CorruptedFileError{
				Path:   w.sr.Path(),
				Reason: fmt.Sprintf("LIST %q nested in itself", listType),
				Offset: offset,
			}
		}
		// movi, unknown lists and lists out of place are skipped unread.
		if !slices.Contains(listParents[listType], list) {
			return nil
		}
		if listType == "strl" {
			w.streams = append(w.streams, &streamHeader{})
		}
		return w.walk(offset+4, offset+size, listType)
	}

	switch {
	case id == "avih" && list == "hdrl":
		data, err := w.sr.ReadBytes(offset, size, "avih chunk")
		if err != nil {
			return err
		}
		if len(data) < 40 {
			return &types.CorruptedFileError{Path: w.sr.Path(), Reason: "avih chunk too short", Offset: offset}
		}
		w.avih = &aviHeader{
			microSecPerFrame: binary.Decode[uint32](data[0:4], binary.LittleEndian),
			totalFrames:      binary.Decode[uint32](data[16:20], binary.LittleEndian),
			width:            int(binary.Decode[uint32](data[32:36], binary.LittleEndian)),
			height:           int(binary.Decode[uint32](data[36:40], binary.LittleEndian)),
		}

	case (id == "strh" || id == "strf") && list == "strl" && len(w.streams) > 0:
		data, err := w.sr.ReadBytes(offset, size, id+" chunk")
		if err != nil {
			return err
		}
		s := w.streams[len(w.streams)-1]
		var perr error
		if id == "strh" {
			perr = s.parseStrh(data)
		} else {
			perr = s.parseStrf(data)
		}
		if perr != nil {
			w.file.Warn("streams", offset, "%s: %v", id, perr)
		}

	case list == "INFO":
		data, err := w.sr.ReadBytes(offset, size, "INFO "+id)
		if err != nil {
			if types.IsFatal(err) {
				return err
			}
			w.file.Warn("metadata", offset, "%v", err)
			return nil
		}
		applyInfo(id, data, &w.file.Tags)
	}
	return nil
}

func (s *streamHeader) parseStrh(b []byte) error {
	if len(b) < 36 {
		return fmt.Errorf("too short: %d bytes", len(b))
	}
	s.kind = string(b[0:4])
	s.handler = string(b[4:8])
	s.scale = binary.Decode[uint32](b[20:24], binary.LittleEndian)
	s.rate = binary.Decode[uint32](b[24:28], binary.LittleEndian)
	s.length = binary.Decode[uint32](b[32:36], binary.LittleEndian)
	return nil
}

// parseStrf decodes a BITMAPINFOHEADER or WAVEFORMATEX depending on the
// stream type seen in strh.
func (s *streamHeader) parseStrf(b []byte) error {
	switch s.kind {
	case "vids":
		if len(b) < 20 {
			return fmt.Errorf("BITMAPINFOHEADER too short: %d bytes", len(b))
		}
		s.width = int(int32(binary.Decode[uint32](b[4:8], binary.LittleEndian)))
		s.height = int(int32(binary.Decode[uint32](b[8:12], binary.LittleEndian)))
		if s.height < 0 {
			s.height = -s.height
		}
		s.codec = fourCC(b[16:20])
	case "auds":
		if len(b) < 16 {
			return fmt.Errorf("WAVEFORMATEX too short: %d bytes", len(b))
		}
		s.codec = audioCodec(binary.Decode[uint16](b[0:2], binary.LittleEndian))
		s.channels = int(binary.Decode[uint16](b[2:4], binary.LittleEndian))
		s.sampleRate = int(binary.Decode[uint32](b[4:8], binary.LittleEndian))
		s.bitrate = int(binary.Decode[uint32](b[8:12], binary.LittleEndian)) * 8
		s.bitDepth = int(binary.Decode[uint16](b[14:16], binary.LittleEndian))
	}
	return nil
}

// fill derives the stream properties once the walk is done.
func (w *walker) fill() {
	h := w.avih
	video := &types.VideoInfo{Width: h.width, Height: h.height}
	if h.microSecPerFrame > 0 {
		video.FrameRate = 1e6 / float64(h.microSecPerFrame)
		video.Duration = time.Duration(h.totalFrames) * time.Duration(h.microSecPerFrame) * time.Microsecond
	}

	for _, s := range w.streams {
		switch {
		case s.kind == "vids" && video.Codec == "":
			video.Codec = s.codec
			if video.Codec == "" {
				video.Codec = fourCC([]byte(s.handler))
			}
			if s.scale > 0 && s.rate > 0 {
				video.FrameRate = float64(s.rate) / float64(s.scale)
				if s.length > 0 {
					video.Duration = time.Duration(float64(s.length) / video.FrameRate * float64(time.Second))
				}
			}
			if video.Width == 0 {
				video.Width, video.Height = s.width, s.height
			}
		case s.kind == "auds" && w.file.Audio.Codec == "":
			w.file.Audio = types.AudioInfo{
				Codec:      s.codec,
				Container:  "AVI",
				SampleRate: s.sampleRate,
				BitDepth:   s.bitDepth,
				Channels:   s.channels,
				Bitrate:    s.bitrate,
				Lossless:   s.codec == "PCM",
			}
		}
	}

	if secs := video.Duration.Seconds(); secs > 0 {
		total := int(float64(w.sr.Size()) * 8 / secs)
		video.Bitrate = max(total-w.file.Audio.Bitrate, 0)
	}
	if w.file.Audio.Codec != "" {
		w.file.Audio.Duration = video.Duration
	}
	w.file.Video = video
}

func audioCodec(tag uint16) string {
	switch tag {
	case 0x0001:
		return "PCM"
	case 0x0050:
		return "MPEG Audio"
	case 0x0055:
		return "MP3"
	case 0x00FF:
		return "AAC"
	case 0x0161:
		return "WMA"
	case 0x2000:
		return "AC-3"
	case 0x2001:
		return "DTS"
	default:
		return fmt.Sprintf("0x%04X", tag)
	}
}

func fourCC(b []byte) string {
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return ""
		}
	}
	return string(b)
}

// init registers the AVI parser.
func init() {
	registry.Register(types.FormatAVI, &parser{})
}
