package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/mediameta/internal/types"
	"github.com/simonhull/mediameta/internal/vorbis"
)

// parseVorbisIdentification parses the Vorbis identification header (packet type 0x01).
//
// The identification header contains audio properties:
//   - Sample rate
//   - Number of channels
//   - Bitrate (nominal, maximum, minimum)
//
// Returns an error if the header is invalid or too short.
func parseVorbisIdentification(data []byte, audio *types.AudioInfo) error {
	if len(data) < 30 {
		return fmt.Errorf("identification header too short: %d bytes", len(data))
	}
	if data[0] != 0x01 || string(data[1:7]) != "vorbis" {
		return fmt.Errorf("not a Vorbis identification header")
	}

	if version := binary.LittleEndian.Uint32(data[7:11]); version != 0 {
		return fmt.Errorf("unsupported Vorbis version: %d", version)
	}

	audio.Codec = "Vorbis"
	audio.Container = containerOgg
	audio.Channels = int(data[11])
	audio.SampleRate = int(binary.LittleEndian.Uint32(data[12:16]))
	audio.Bitrate = int(int32(binary.LittleEndian.Uint32(data[20:24])))
	if audio.Bitrate < 0 {
		audio.Bitrate = 0
	}
	audio.VBR = true // Vorbis is typically VBR

	if audio.SampleRate == 0 {
		return fmt.Errorf("sample rate is zero")
	}
	return nil
}

// parseVorbisComment parses the Vorbis comment header (packet type 0x03).
//
// The comment header contains Vorbis comments (tags) in the same format
// as FLAC Vorbis comments: UTF-8 strings in "KEY=VALUE" format.
func parseVorbisComment(data []byte, file *types.File) error {
	if len(data) < 7 || data[0] != 0x03 || string(data[1:7]) != "vorbis" {
		return fmt.Errorf("not a Vorbis comment header")
	}
	return applyComments(data[7:], file)
}

// applyComments decodes a comment block and maps it onto file. A block
// that is cut short still contributes the comments read before the cut.
func applyComments(data []byte, file *types.File) error {
	block, err := vorbis.ParseBlock(data)
	if block != nil {
		block.Apply(file)
	}
	return err
}
