package types

import (
	"fmt"
	"strings"
	"time"
)

// AudioInfo represents technical audio properties.
//
// AudioInfo provides format-agnostic access to audio technical metadata
// such as duration, sample rate, bit depth, and codec information. For
// video files it describes the first audio stream, if any.
type AudioInfo struct {
	Codec      string
	Container  string
	Duration   time.Duration
	SampleRate int
	BitDepth   int
	Channels   int
	Bitrate    int // bits per second
	Lossless   bool
	VBR        bool
}

// IsZero reports whether no audio property was filled in.
func (a AudioInfo) IsZero() bool {
	return a == AudioInfo{}
}

// String returns a human-readable representation of the audio info.
// Example output: "FLAC 44.1kHz 16-bit stereo lossless".
func (a AudioInfo) String() string {
	parts := []string{a.Codec}
	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000))
	}
	if a.BitDepth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", a.BitDepth))
	}
	parts = append(parts, channelDescription(a.Channels))

	switch {
	case a.Lossless:
		parts = append(parts, "lossless")
	case a.Bitrate > 0:
		quality := fmt.Sprintf("%dkbps", a.Bitrate/1000)
		if a.VBR {
			quality += " VBR"
		}
		parts = append(parts, quality)
	}

	return join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
