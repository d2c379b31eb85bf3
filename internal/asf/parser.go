package asf

import (
	"slices"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

// parser implements registry.FormatParser for one ASF flavor.
type parser struct {
	format types.Format
}

// Parse reads the header object and builds a File of the parser's flavor.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	h, err := readHeader(sr)
	if err != nil {
		return nil, err
	}
	return h.Build(p.format), nil
}

// inspector implements registry.ContainerInspector for .asf files whose
// flavor is only known after reading the stream list.
type inspector struct{}

// Inspect reads the header object once.
func (inspector) Inspect(sr *binary.SafeReader) (registry.Container, error) {
	h, err := readHeader(sr)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// HasVideo reports whether a video stream is declared.
func (h *header) HasVideo() bool {
	return h.firstStream(true) != nil
}

// HasAudio reports whether an audio stream is declared.
func (h *header) HasAudio() bool {
	return h.firstStream(false) != nil
}

// Build returns a fresh File of the given flavor. Video information is only
// filled in for WMV.
func (h *header) Build(format types.Format) *types.File {
	file := types.NewFile(h.path, format, h.size)
	file.Tags.Merge(&h.tags)
	file.Warnings = slices.Clone(h.warnings)

	duration := h.duration()
	if a := h.firstStream(false); a != nil {
		file.Audio = types.AudioInfo{
			Codec:      a.codec,
			Container:  "ASF",
			Duration:   duration,
			SampleRate: a.sampleRate,
			BitDepth:   a.bitDepth,
			Channels:   a.channels,
			Bitrate:    a.bitrate,
			Lossless:   a.lossless,
		}
	}

	if v := h.firstStream(true); v != nil && format == types.FormatWMV {
		info := &types.VideoInfo{
			Codec:    v.codec,
			Duration: duration,
			Width:    v.width,
			Height:   v.height,
			Bitrate:  v.dataBitrate,
		}
		if v.frameTime > 0 {
			info.FrameRate = 1e9 / float64(v.frameTime)
		}
		if info.Bitrate == 0 && h.maxBitrate > file.Audio.Bitrate {
			info.Bitrate = h.maxBitrate - file.Audio.Bitrate
		}
		file.Video = info
	}

	if file.Audio.Bitrate == 0 && file.Video == nil {
		file.Audio.Bitrate = h.maxBitrate
	}
	return file
}

// init registers the WMA and WMV parsers and the multi-format inspector.
func init() {
	registry.Register(types.FormatWMA, &parser{format: types.FormatWMA})
	registry.Register(types.FormatWMV, &parser{format: types.FormatWMV})
	registry.RegisterInspector(inspector{})
}
