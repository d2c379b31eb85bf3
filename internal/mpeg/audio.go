package mpeg

import (
	"github.com/cockroachdb/errors"

	"github.com/simonhull/mediameta/internal/types"
)

var (
	errShortSequence = errors.New("sequence header too short")
	errZeroSize      = errors.New("sequence header declares zero picture size")
	errNoPack        = errors.New("no pack header in the last part of the file")
)

var audioSampleRates = [4][3]int{
	{11025, 12000, 8000},  // MPEG 2.5
	{},                    // reserved
	{22050, 24000, 16000}, // MPEG 2
	{44100, 48000, 32000}, // MPEG 1
}

var layerNames = [4]string{"", "MPEG Audio Layer III", "MPEG Audio Layer II", "MPEG Audio Layer I"}

// findAudio looks for the first MPEG audio PES packet and decodes the frame
// header at the start of its payload. AC-3 in a private stream is only
// named.
func findAudio(b []byte) *types.AudioInfo {
	for i := 0; i+9 <= len(b); i++ {
		if b[i] != 0 || b[i+1] != 0 || b[i+2] != 1 {
			continue
		}
		code := b[i+3]
		switch {
		case code >= codeAudioFirst && code <= codeAudioLast:
			if info := audioFrame(pesPayload(b[i:])); info != nil {
				return info
			}
		case code == codePrivateStream:
			if payload := pesPayload(b[i:]); len(payload) >= 1 && payload[0]&0xF8 == 0x80 {
				return &types.AudioInfo{Codec: "AC-3", Container: "MPEG-PS"}
			}
		}
	}
	return nil
}

// pesPayload returns the payload of the PES packet at b[0], handling both
// the MPEG-1 and MPEG-2 header layouts.
func pesPayload(b []byte) []byte {
	if len(b) < 6 {
		return nil
	}
	end := min(6+(int(b[4])<<8|int(b[5])), len(b))
	if len(b) > 8 && b[6]&0xC0 == 0x80 {
		start := 9 + int(b[8])
		if start > end {
			return nil
		}
		return b[start:end]
	}

	i := 6
	for i < end && b[i] == 0xFF {
		i++
	}
	if i < end && b[i]&0xC0 == 0x40 {
		i += 2
	}
	switch {
	case i < end && b[i]&0xF0 == 0x20:
		i += 5
	case i < end && b[i]&0xF0 == 0x30:
		i += 10
	default:
		i++
	}
	if i > end {
		return nil
	}
	return b[i:end]
}

// audioFrame decodes an MPEG audio frame header at the start of b.
func audioFrame(b []byte) *types.AudioInfo {
	if len(b) < 4 || b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return nil
	}
	version := (b[1] >> 3) & 0x03
	layer := (b[1] >> 1) & 0x03
	rateIndex := (b[2] >> 2) & 0x03
	if version == 1 || layer == 0 || rateIndex == 3 {
		return nil
	}
	channels := 2
	if b[3]>>6 == 3 {
		channels = 1
	}
	return &types.AudioInfo{
		Codec:      layerNames[layer],
		Container:  "MPEG-PS",
		SampleRate: audioSampleRates[version][rateIndex],
		Channels:   channels,
	}
}
