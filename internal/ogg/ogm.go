package ogg

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	binutil "github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

// ogmHeaderSize is the length of an OGM stream header up to and including
// the video/audio specific fields.
const ogmHeaderSize = 53

// ogmHeader is the stream header written by OGMTools:
//
//	[0x01][stream type 8][subtype 4][size 4][time unit 8][samples per unit 8]
//	[default len 4][buffer size 4][bits per sample 2][pad 2][specific 8]
type ogmHeader struct {
	streamType     string
	subtype        string
	timeUnit       int64 // in 100ns units
	samplesPerUnit int64
	bitsPerSample  int
	// video
	width, height int
	// audio
	channels       int
	avgBytesPerSec int
}

func parseOGMHeader(data []byte) (*ogmHeader, error) {
	if len(data) < ogmHeaderSize || data[0] != 0x01 {
		return nil, fmt.Errorf("OGM stream header too short: %d bytes", len(data))
	}
	h := &ogmHeader{
		streamType:     strings.TrimRight(string(data[1:9]), "\x00"),
		subtype:        strings.TrimRight(string(data[9:13]), "\x00 "),
		timeUnit:       int64(binary.LittleEndian.Uint64(data[17:25])),
		samplesPerUnit: int64(binary.LittleEndian.Uint64(data[25:33])),
		bitsPerSample:  int(binary.LittleEndian.Uint16(data[41:43])),
	}
	switch h.streamType {
	case "video":
		h.width = int(int32(binary.LittleEndian.Uint32(data[45:49])))
		h.height = int(int32(binary.LittleEndian.Uint32(data[49:53])))
	case "audio":
		h.channels = int(binary.LittleEndian.Uint16(data[45:47]))
		h.avgBytesPerSec = int(int32(binary.LittleEndian.Uint32(data[49:53])))
	}
	if h.timeUnit <= 0 {
		return nil, fmt.Errorf("invalid OGM time unit %d", h.timeUnit)
	}
	return h, nil
}

// ogmAudioCodecs names the WAVEFORMAT tags OGM audio streams carry as
// their subtype.
var ogmAudioCodecs = map[string]string{
	"0001": "PCM",
	"0055": "MP3",
	"2000": "AC-3",
	"00FF": "AAC",
	"0161": "WMA",
}

// ogmParser implements registry.FormatParser for OGM video.
type ogmParser struct{}

// Parse reads the stream headers of an OGM file.
func (p *ogmParser) Parse(sr *binutil.SafeReader) (*types.File, error) {
	file := types.NewFile(sr.Path(), types.FormatOGM, sr.Size())

	headers, err := readHeaders(sr, 2, file)
	if err != nil {
		return nil, err
	}

	var video *logicalStream
	var vh *ogmHeader
	for _, s := range headers.streams {
		if len(s.packets) == 0 {
			continue
		}
		switch detectCodec(s.packets[0]) {
		case codecOGMVideo:
			if video != nil {
				continue
			}
			h, err := parseOGMHeader(s.packets[0])
			if err != nil {
				return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
			}
			video, vh = s, h
			if len(s.packets) > 1 {
				if err := parseOGMComment(s.packets[1], file); err != nil {
					file.Warn("metadata", 0, "failed to parse OGM comment header: %v", err)
				}
			}

		case codecVorbis:
			if file.Audio.Codec != "" {
				continue
			}
			if err := parseVorbisIdentification(s.packets[0], &file.Audio); err != nil {
				file.Warn("streams", 0, "failed to parse Vorbis audio stream: %v", err)
				continue
			}
			if len(s.packets) > 1 {
				if err := parseVorbisComment(s.packets[1], file); err != nil {
					file.Warn("metadata", 0, "failed to parse Vorbis comment header: %v", err)
				}
			}

		case codecOGMAudio:
			if file.Audio.Codec != "" {
				continue
			}
			h, err := parseOGMHeader(s.packets[0])
			if err != nil {
				file.Warn("streams", 0, "failed to parse OGM audio stream: %v", err)
				continue
			}
			file.Audio.Codec = ogmAudioCodecs[strings.ToUpper(h.subtype)]
			if file.Audio.Codec == "" {
				file.Audio.Codec = h.subtype
			}
			file.Audio.Container = "OGM"
			file.Audio.SampleRate = int(h.samplesPerUnit)
			file.Audio.Channels = h.channels
			file.Audio.BitDepth = h.bitsPerSample
			file.Audio.Bitrate = h.avgBytesPerSec * 8
		}
	}

	if video == nil {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "no OGM video stream"}
	}

	file.Video = &types.VideoInfo{
		Codec:     vh.subtype,
		Width:     vh.width,
		Height:    vh.height,
		FrameRate: 1e7 / float64(vh.timeUnit),
	}

	frames, err := findLastGranulePosition(sr, video.serial)
	switch {
	case err != nil && types.IsFatal(err):
		return nil, err
	case err != nil:
		file.Warn("technical", 0, "failed to calculate duration: %v", err)
	default:
		file.Video.Duration = time.Duration(frames * vh.timeUnit * 100)
		if secs := file.Video.Duration.Seconds(); secs > 0 {
			file.Video.Bitrate = int(float64(sr.Size()) * 8 / secs)
		}
	}
	if file.Audio.Codec != "" && file.Audio.Duration == 0 {
		file.Audio.Duration = file.Video.Duration
	}

	return file, nil
}

// parseOGMComment parses a comment packet of an OGM stream. OGMTools writes
// them Vorbis style, others drop the "vorbis" marker.
func parseOGMComment(data []byte, file *types.File) error {
	if len(data) < 1 || data[0] != 0x03 {
		return fmt.Errorf("not a comment packet")
	}
	if len(data) >= 7 && string(data[1:7]) == "vorbis" {
		return applyComments(data[7:], file)
	}
	return applyComments(data[1:], file)
}
