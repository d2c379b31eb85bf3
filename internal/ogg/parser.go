package ogg

import (
	"time"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

const containerOgg = "Ogg"

// Codec identifiers found in the first packet of a logical stream.
const (
	codecUnknown = iota
	codecVorbis
	codecOpus
	codecOGMVideo
	codecOGMAudio
	codecOGMText
)

// parser implements registry.FormatParser for Ogg Vorbis and Ogg Opus.
type parser struct{}

// Parse parses an Ogg audio file and extracts metadata.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	file := types.NewFile(sr.Path(), types.FormatOgg, sr.Size())

	headers, err := readHeaders(sr, 2, file)
	if err != nil {
		return nil, err
	}
	stream := headers.first()
	if len(stream.packets) == 0 {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "empty first Ogg packet"}
	}

	var (
		sampleRate int
		preSkip    int
	)
	switch detectCodec(stream.packets[0]) {
	case codecVorbis:
		if err := parseVorbisIdentification(stream.packets[0], &file.Audio); err != nil {
			return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
		}
		sampleRate = file.Audio.SampleRate
		if len(stream.packets) > 1 {
			if err := parseVorbisComment(stream.packets[1], file); err != nil {
				file.Warn("metadata", 0, "failed to parse Vorbis comment header: %v", err)
			}
		}

	case codecOpus:
		if preSkip, err = parseOpusHead(stream.packets[0], file); err != nil {
			return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
		}
		sampleRate = opusSampleRate
		if len(stream.packets) > 1 {
			if err := parseOpusTags(stream.packets[1], file); err != nil {
				file.Warn("metadata", 0, "failed to parse OpusTags header: %v", err)
			}
		}

	case codecOGMVideo:
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "Ogg stream carries OGM video"}

	default:
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "unknown Ogg codec"}
	}

	granule, err := findLastGranulePosition(sr, stream.serial)
	switch {
	case err != nil && types.IsFatal(err):
		return nil, err
	case err != nil:
		file.Warn("technical", 0, "failed to calculate duration: %v", err)
	default:
		file.Audio.Duration = granuleDuration(granule-int64(preSkip), sampleRate)
	}

	if file.Audio.Codec == "Opus" {
		file.Audio.Bitrate = estimateOpusBitrate(sr.Size()-headers.end, file.Audio.Duration)
	}

	return file, nil
}

// detectCodec determines the codec of a logical stream from the magic
// marker of its first packet.
func detectCodec(first []byte) int {
	switch {
	case len(first) >= 8 && string(first[0:8]) == "OpusHead":
		return codecOpus
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		return codecVorbis
	case len(first) >= 9 && first[0] == 0x01 && string(first[1:9]) == "video\x00\x00\x00":
		return codecOGMVideo
	case len(first) >= 9 && first[0] == 0x01 && string(first[1:9]) == "audio\x00\x00\x00":
		return codecOGMAudio
	case len(first) >= 9 && first[0] == 0x01 && string(first[1:9]) == "text\x00\x00\x00\x00":
		return codecOGMText
	default:
		return codecUnknown
	}
}

// granuleDuration converts a granule position in samples to a duration.
func granuleDuration(granule int64, sampleRate int) time.Duration {
	if granule <= 0 || sampleRate <= 0 {
		return 0
	}
	seconds := float64(granule) / float64(sampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// init registers the Ogg audio and OGM video parsers.
func init() {
	registry.Register(types.FormatOgg, &parser{})
	registry.Register(types.FormatOGM, &ogmParser{})
}
