package ogg

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/simonhull/mediameta/internal/types"
)

// opusSampleRate is the fixed output rate of every Opus decoder.
const opusSampleRate = 48000

// parseOpusHead parses the OpusHead identification header.
//
// The OpusHead header contains audio properties:
//   - Version (must be 1)
//   - Number of channels
//   - Pre-skip (samples to skip at start)
//   - Input sample rate (original recording rate, informational)
//   - Output gain (playback volume adjustment)
//
// Note: Opus always outputs at 48kHz regardless of input sample rate.
func parseOpusHead(data []byte, file *types.File) (preSkip int, err error) {
	if len(data) < 19 {
		return 0, fmt.Errorf("OpusHead packet too short: %d bytes (need at least 19)", len(data))
	}
	if string(data[0:8]) != "OpusHead" {
		return 0, fmt.Errorf("invalid OpusHead magic: %q", string(data[0:8]))
	}
	// Only the major version (upper nibble) breaks compatibility.
	if version := data[8]; version>>4 != 0 {
		return 0, fmt.Errorf("unsupported Opus version: %d", version)
	}

	file.Audio.Codec = "Opus"
	file.Audio.Container = containerOgg
	file.Audio.SampleRate = opusSampleRate
	file.Audio.Channels = int(data[9])
	file.Audio.VBR = true

	if inputRate := binary.LittleEndian.Uint32(data[12:16]); inputRate != opusSampleRate && inputRate > 0 {
		file.Warn("technical", 0, "original sample rate was %d Hz (Opus outputs at 48 kHz)", inputRate)
	}

	return int(binary.LittleEndian.Uint16(data[10:12])), nil
}

// parseOpusTags parses the OpusTags comment header.
//
// The only difference from Vorbis comments is the "OpusTags" magic marker.
func parseOpusTags(data []byte, file *types.File) error {
	if len(data) < 8 || string(data[0:8]) != "OpusTags" {
		return fmt.Errorf("not an OpusTags header")
	}
	return applyComments(data[8:], file)
}

// estimateOpusBitrate estimates the bitrate for an Opus file.
//
// Opus files don't have a nominal bitrate field in the header, so we
// estimate it from the size of the audio pages and the duration.
func estimateOpusBitrate(audioSize int64, duration time.Duration) int {
	seconds := duration.Seconds()
	if seconds <= 0 || audioSize <= 0 {
		return 0
	}
	return int(float64(audioSize) * 8 / seconds)
}
