// Package flac reads FLAC metadata blocks.
package flac

import (
	"fmt"
	"time"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
	"github.com/simonhull/mediameta/internal/vorbis"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
	blockTypeInvalid       = 127
)

const streamInfoSize = 34

// parser implements registry.FormatParser for FLAC files.
type parser struct{}

// Parse walks the metadata blocks of a FLAC stream.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	start, err := streamStart(sr)
	if err != nil {
		return nil, err
	}

	file := types.NewFile(sr.Path(), types.FormatFLAC, sr.Size())
	file.Audio.Container = "FLAC"
	file.Audio.Codec = "FLAC"
	file.Audio.Lossless = true

	sawStreamInfo := false
	offset := start + 4
	for offset < sr.Size() {
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			if types.IsFatal(err) {
				return nil, err
			}
			file.Warn("metadata", offset, "failed to read metadata block header: %v", err)
			break
		}

		isLast := header>>31 == 1
		blockType := uint8((header >> 24) & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)
		offset += 4

		switch blockType {
		case blockTypeStreamInfo:
			if err := parseStreamInfo(sr, offset, blockLength, file); err != nil {
				if types.IsFatal(err) {
					return nil, err
				}
				file.Warn("metadata", offset, "failed to parse STREAMINFO: %v", err)
			} else {
				sawStreamInfo = true
			}

		case blockTypeVorbisComment:
			if err := parseVorbisComment(sr, offset, blockLength, file); err != nil {
				if types.IsFatal(err) {
					return nil, err
				}
				file.Warn("metadata", offset, "failed to parse Vorbis comments: %v", err)
			}

		case blockTypeInvalid:
			return nil, &types.CorruptedFileError{
				Path:   sr.Path(),
				Reason: "invalid metadata block type 127",
				Offset: offset - 4,
			}

		case blockTypePadding, blockTypeApplication, blockTypeSeekTable, blockTypeCueSheet, blockTypePicture:
			// skipped
		}

		offset += blockLength
		if isLast {
			break
		}
	}

	if !sawStreamInfo {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: "missing STREAMINFO block",
			Offset: start + 4,
		}
	}

	if secs := file.Audio.Duration.Seconds(); secs > 0 {
		file.Audio.Bitrate = int(float64(sr.Size()-offset) * 8 / secs)
	}

	return file, nil
}

// streamStart returns the offset of the "fLaC" marker, skipping an ID3v2
// tag some encoders put in front of the stream.
func streamStart(sr *binary.SafeReader) (int64, error) {
	head, err := sr.Header(10)
	if err != nil {
		return 0, err
	}
	start := int64(0)
	if len(head) == 10 && string(head[0:3]) == "ID3" {
		size := int64(head[6]&0x7F)<<21 | int64(head[7]&0x7F)<<14 | int64(head[8]&0x7F)<<7 | int64(head[9]&0x7F)
		start = 10 + size
		if head[5]&0x10 != 0 {
			start += 10
		}
	}

	magic, err := sr.ReadString(start, 4, "FLAC magic bytes")
	if err != nil {
		if types.IsFatal(err) {
			return 0, err
		}
		return 0, &types.CorruptedFileError{Path: sr.Path(), Reason: "file too short for FLAC", Offset: start}
	}
	if magic != "fLaC" {
		return 0, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: start,
			Reason: "invalid FLAC magic bytes",
		}
	}
	return start, nil
}

// parseStreamInfo extracts audio info from STREAMINFO block
func parseStreamInfo(sr *binary.SafeReader, offset, blockLength int64, file *types.File) error {
	if blockLength != streamInfoSize {
		return fmt.Errorf("invalid STREAMINFO size: %d (expected %d)", blockLength, streamInfoSize)
	}

	data := make([]byte, streamInfoSize)
	if err := sr.ReadAt(data, offset, "STREAMINFO block"); err != nil {
		return err
	}

	// Bytes 10-17 pack sample rate (20 bits), channels-1 (3 bits),
	// bits per sample-1 (5 bits) and total samples (36 bits).
	packed := binary.Decode[uint64](data[10:18], binary.BigEndian)

	sampleRate := (packed >> 44) & 0xFFFFF
	channels := ((packed >> 41) & 0x7) + 1
	bitsPerSample := ((packed >> 36) & 0x1F) + 1
	totalSamples := packed & 0xFFFFFFFFF

	if sampleRate == 0 {
		return fmt.Errorf("sample rate is zero")
	}

	file.Audio.SampleRate = int(sampleRate)
	file.Audio.Channels = int(channels)
	file.Audio.BitDepth = int(bitsPerSample)
	file.Audio.Duration = time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
	return nil
}

// parseVorbisComment extracts tags from VORBIS_COMMENT block
func parseVorbisComment(sr *binary.SafeReader, offset, blockLength int64, file *types.File) error {
	data, err := sr.ReadBytes(offset, blockLength, "VORBIS_COMMENT block")
	if err != nil {
		return err
	}
	block, err := vorbis.ParseBlock(data)
	if block != nil {
		block.Apply(file)
	}
	return err
}

// init registers the FLAC parser
func init() {
	registry.Register(types.FormatFLAC, &parser{})
}
