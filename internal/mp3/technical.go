package mp3

import (
	"encoding/binary"
	"fmt"
	"time"

	binutil "github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

// maxFrameSearch bounds how far past the tag we look for the first frame.
const maxFrameSearch = 64 << 10

// MPEG audio version IDs as stored in the frame header.
const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3
)

// Layer III bitrates in kbps.
var (
	bitrateV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitrateV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rates in Hz, indexed by version ID then sample rate index.
var sampleRateTable = [4][3]int{
	mpeg25: {11025, 12000, 8000},
	mpeg2:  {22050, 24000, 16000},
	mpeg1:  {44100, 48000, 32000},
}

// frameHeader is a decoded MPEG audio Layer III frame header.
type frameHeader struct {
	version    uint32
	bitrate    int // bps
	sampleRate int
	channels   int
	padding    int
}

// samplesPerFrame returns the number of PCM samples a frame decodes to.
func (h frameHeader) samplesPerFrame() int {
	if h.version == mpeg1 {
		return 1152
	}
	return 576
}

// length returns the frame length in bytes.
func (h frameHeader) length() int {
	coef := 144
	if h.version != mpeg1 {
		coef = 72
	}
	return coef*h.bitrate/h.sampleRate + h.padding
}

// sideInfoSize returns the size of the side information block that
// precedes a Xing/Info header.
func (h frameHeader) sideInfoSize() int {
	switch {
	case h.version == mpeg1 && h.channels == 1:
		return 17
	case h.version == mpeg1:
		return 32
	case h.channels == 1:
		return 9
	default:
		return 17
	}
}

// decodeFrameHeader validates and decodes a 4-byte frame header.
func decodeFrameHeader(b []byte) (frameHeader, error) {
	header := binary.BigEndian.Uint32(b)

	// Check frame sync (11 bits set: 0xFFE00000)
	if header&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, fmt.Errorf("invalid frame sync")
	}

	version := (header >> 19) & 0x3
	if version == 1 {
		return frameHeader{}, fmt.Errorf("reserved MPEG version")
	}

	// Layer III (01)
	if layer := (header >> 17) & 0x3; layer != 1 {
		return frameHeader{}, fmt.Errorf("unsupported layer")
	}

	bitrateIdx := (header >> 12) & 0xF
	sampleRateIdx := (header >> 10) & 0x3
	if bitrateIdx == 0 || bitrateIdx == 15 || sampleRateIdx == 3 {
		return frameHeader{}, fmt.Errorf("invalid bitrate or sample rate index")
	}

	h := frameHeader{
		version:    version,
		sampleRate: sampleRateTable[version][sampleRateIdx],
		padding:    int((header >> 9) & 0x1),
		channels:   2,
	}
	if version == mpeg1 {
		h.bitrate = bitrateV1[bitrateIdx] * 1000
	} else {
		h.bitrate = bitrateV2[bitrateIdx] * 1000
	}
	// Channel mode 3 is mono; stereo, joint stereo and dual channel are two.
	if (header>>6)&0x3 == 3 {
		h.channels = 1
	}
	return h, nil
}

// parseTechnicalInfo extracts bitrate, sample rate, codec, and duration from MP3 frames.
func parseTechnicalInfo(sr *binutil.SafeReader, tagSize int64, file *types.File) error {
	audioEnd := sr.Size()
	if hasID3v1(sr) {
		audioEnd -= id3v1Size
	}
	if tagSize >= audioEnd {
		return fmt.Errorf("no audio data after tag")
	}

	windowLen := min(int64(maxFrameSearch), audioEnd-tagSize)
	window, err := sr.ReadBytes(tagSize, windowLen, "MP3 frame search window")
	if err != nil {
		return err
	}

	for i := 0; i+4 <= len(window); i++ {
		if window[i] != 0xFF {
			continue
		}
		h, err := decodeFrameHeader(window[i : i+4])
		if err != nil {
			continue
		}
		// Require a second frame right behind the first when the window
		// holds it, to skip false syncs in junk data.
		next := i + h.length()
		if next+4 <= len(window) {
			if _, err := decodeFrameHeader(window[next : next+4]); err != nil {
				continue
			}
		}

		frameOffset := tagSize + int64(i)
		file.Audio.Codec = "MP3"
		file.Audio.SampleRate = h.sampleRate
		file.Audio.Channels = h.channels
		file.Audio.Bitrate = h.bitrate

		if frames, size, ok := parseVBRHeader(window[i:], h); ok {
			file.Audio.VBR = true
			file.Audio.Duration = durationFromFrames(frames, h)
			if size == 0 {
				size = uint32(audioEnd - frameOffset)
			}
			if secs := file.Audio.Duration.Seconds(); secs > 0 {
				file.Audio.Bitrate = int(float64(size) * 8 / secs)
			}
		} else {
			file.Audio.Duration = estimateCBRDuration(h.bitrate, audioEnd-frameOffset)
		}
		return nil
	}

	return fmt.Errorf("no valid MP3 frame found in first %d bytes", windowLen)
}

// parseVBRHeader looks for a Xing/Info or VBRI header inside the first
// frame. It returns the frame count and, when present, the stream size.
func parseVBRHeader(frame []byte, h frameHeader) (frames, size uint32, ok bool) {
	xing := 4 + h.sideInfoSize()
	if xing+16 <= len(frame) {
		tag := string(frame[xing : xing+4])
		if tag == "Xing" || tag == "Info" {
			flags := binary.BigEndian.Uint32(frame[xing+4 : xing+8])
			pos := xing + 8
			if flags&0x1 == 0 {
				return 0, 0, false
			}
			frames = binary.BigEndian.Uint32(frame[pos : pos+4])
			pos += 4
			if flags&0x2 != 0 && pos+4 <= len(frame) {
				size = binary.BigEndian.Uint32(frame[pos : pos+4])
			}
			// "Info" marks a CBR stream written by LAME; the frame count is
			// still exact.
			return frames, size, frames > 0
		}
	}

	// VBRI always sits 32 bytes after the frame header.
	const vbri = 36
	if vbri+18 <= len(frame) && string(frame[vbri:vbri+4]) == "VBRI" {
		size = binary.BigEndian.Uint32(frame[vbri+10 : vbri+14])
		frames = binary.BigEndian.Uint32(frame[vbri+14 : vbri+18])
		return frames, size, frames > 0
	}
	return 0, 0, false
}

// durationFromFrames calculates duration from number of frames.
func durationFromFrames(numFrames uint32, h frameHeader) time.Duration {
	totalSamples := float64(numFrames) * float64(h.samplesPerFrame())
	return time.Duration(totalSamples / float64(h.sampleRate) * float64(time.Second))
}

// estimateCBRDuration estimates duration for constant bitrate files.
func estimateCBRDuration(bitrate int, audioSize int64) time.Duration {
	if bitrate == 0 || audioSize <= 0 {
		return 0
	}
	durationSeconds := float64(audioSize*8) / float64(bitrate)
	return time.Duration(durationSeconds * float64(time.Second))
}

// hasID3v1 reports whether the file ends with an ID3v1 trailer.
func hasID3v1(sr *binutil.SafeReader) bool {
	if sr.Size() < id3v1Size {
		return false
	}
	buf := make([]byte, 3)
	if err := sr.ReadAt(buf, sr.Size()-id3v1Size, "ID3v1 marker"); err != nil {
		return false
	}
	return string(buf) == "TAG"
}
