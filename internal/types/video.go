package types

import (
	"fmt"
	"time"
)

// VideoInfo describes the primary video stream of a file.
type VideoInfo struct {
	Codec     string // FourCC or codec name ("DIVX", "MPEG-2", "avc1")
	Duration  time.Duration
	FrameRate float64
	Width     int
	Height    int
	Bitrate   int // bits per second, 0 when unknown
}

// Resolution returns "WxH", or "" when the dimensions are unknown.
func (v VideoInfo) Resolution() string {
	if v.Width <= 0 || v.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// String returns a summary such as "DIVX 640x480 25.00fps 1200kbps".
func (v VideoInfo) String() string {
	parts := []string{v.Codec, v.Resolution()}
	if v.FrameRate > 0 {
		parts = append(parts, fmt.Sprintf("%.2ffps", v.FrameRate))
	}
	if v.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%dkbps", v.Bitrate/1000))
	}
	return join(parts, " ")
}
