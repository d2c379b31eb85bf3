// Package quicktime reads ISO base media and QuickTime files: M4A audio and
// MOV/MP4 video. The box walk is done by github.com/abema/go-mp4.
package quicktime

import (
	"fmt"
	"slices"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/sunfish-shogi/bufseekio"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/classify"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

const (
	readBufferSize  = 64 * 1024
	readHistorySize = 4

	// maxBoxDepth is deeper than any box the walker reads
	// (moov/trak/mdia/minf/stbl/stsd/entry).
	maxBoxDepth = 16
)

// containerParents lists, for each container box the walker expands, the
// parents it is expanded under. "" is the top level.
var containerParents = map[string][]string{
	"moov": {""},
	"trak": {"moov"},
	"mdia": {"trak"},
	"minf": {"mdia"},
	"stbl": {"minf"},
	"stsd": {"stbl"},
	"udta": {"moov", "trak"},
	"meta": {"udta"},
	"ilst": {"meta"},
}

// Handler types found in mdia/hdlr.
const (
	handlerSound = "soun"
	handlerVideo = "vide"
)

// parser implements registry.FormatParser for one QuickTime flavor.
type parser struct {
	format types.Format
}

// Parse walks the box tree and fills in tags and stream properties.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	head, err := sr.Header(12)
	if err != nil {
		return nil, err
	}
	if !classify.IsMOV(head) {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: "not an ISO base media file",
		}
	}

	file := types.NewFile(sr.Path(), p.format, sr.Size())
	w := &walker{sr: sr, file: file}

	rs := bufseekio.NewReadSeeker(sr.Section(), readBufferSize, readHistorySize)
	if _, err := mp4.ReadBoxStructure(rs, w.handle); err != nil {
		switch {
		case w.malformed != nil:
			return nil, w.malformed
		case types.IsFatal(err):
			return nil, err
		case !w.sawMoov:
			return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
		default:
			file.Warn("boxes", 0, "stopped walking boxes: %v", err)
		}
	}

	if !w.sawMoov {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "no moov box"}
	}

	if err := p.fill(w); err != nil {
		return nil, err
	}
	return file, nil
}

// fill derives the stream properties from the collected tracks.
func (p *parser) fill(w *walker) error {
	file := w.file
	duration := scaled(w.movieDuration, w.movieTimescale)

	audio := w.firstTrack(handlerSound)
	video := w.firstTrack(handlerVideo)

	if p.format == types.FormatM4A && audio == nil {
		return &types.UnsupportedFormatError{Path: file.Path, Reason: "no sound track"}
	}

	container := "QuickTime"
	if p.format == types.FormatM4A {
		container = "MP4"
	}

	if audio != nil {
		file.Audio = types.AudioInfo{
			Codec:      codecName(audio.codec),
			Container:  container,
			Duration:   audio.duration(),
			SampleRate: audio.sampleRate,
			BitDepth:   audio.bitDepth,
			Channels:   audio.channels,
			Lossless:   losslessCodecs[audio.codec],
		}
		if file.Audio.Duration == 0 {
			file.Audio.Duration = duration
		}
	}

	if p.format == types.FormatMOV && video != nil {
		v := &types.VideoInfo{
			Codec:    codecName(video.codec),
			Duration: video.duration(),
			Width:    video.width,
			Height:   video.height,
		}
		if v.Duration == 0 {
			v.Duration = duration
		}
		if secs := v.Duration.Seconds(); secs > 0 && video.samples > 0 {
			v.FrameRate = float64(video.samples) / secs
		}
		if secs := v.Duration.Seconds(); secs > 0 && w.mdatSize > 0 {
			v.Bitrate = int(float64(w.mdatSize) * 8 / secs)
		}
		file.Video = v
		return nil
	}

	if secs := file.Audio.Duration.Seconds(); secs > 0 && w.mdatSize > 0 {
		file.Audio.Bitrate = int(float64(w.mdatSize) * 8 / secs)
	}
	return nil
}

// track collects what the walk learned about one trak box.
type track struct {
	handler    string
	codec      string
	timescale  uint32
	length     uint64
	samples    uint64
	sampleRate int
	channels   int
	bitDepth   int
	width      int
	height     int
}

func (t *track) duration() time.Duration {
	return scaled(t.length, t.timescale)
}

func scaled(length uint64, timescale uint32) time.Duration {
	if timescale == 0 {
		return 0
	}
	return time.Duration(float64(length) / float64(timescale) * float64(time.Second))
}

// walker is the go-mp4 read handler state.
type walker struct {
	sr   *binary.SafeReader
	file *types.File

	sawMoov        bool
	movieTimescale uint32
	movieDuration  uint64
	mdatSize       uint64
	tracks         []*track

	// malformed is set when the box tree nests in a way no file can.
	malformed error
}

func (w *walker) current() *track {
	if len(w.tracks) == 0 {
		w.tracks = append(w.tracks, &track{})
	}
	return w.tracks[len(w.tracks)-1]
}

func (w *walker) firstTrack(handler string) *track {
	for _, t := range w.tracks {
		if t.handler == handler {
			return t
		}
	}
	return nil
}

// handle is called by go-mp4 for every box header. Container boxes are
// expanded only under their legal parents, leaf boxes are decoded and
// everything else is skipped.
func (w *walker) handle(h *mp4.ReadHandle) (any, error) {
	name := boxName(h.BoxInfo.Type)
	parent, grandparent := ancestor(h.Path, 2), ancestor(h.Path, 3)

	if err := w.checkNesting(h, name); err != nil {
		return nil, err
	}

	if parents, ok := containerParents[name]; ok {
		if !slices.Contains(parents, parent) {
			return nil, nil
		}
		switch name {
		case "moov":
			w.sawMoov = true
		case "trak":
			w.tracks = append(w.tracks, &track{})
		}
		return h.Expand()
	}

	switch {
	case parent == "ilst" && grandparent == "meta":
		// iTunes item such as ©nam; its data child holds the value.
		return h.Expand()

	case name == "data" && grandparent == "ilst":
		return nil, w.readItem(h, parent)

	case parent == "stsd":
		return nil, w.readSampleEntry(h)

	case name == "mdat":
		w.mdatSize += h.BoxInfo.Size - h.BoxInfo.HeaderSize
		return nil, nil

	case name == "mvhd", name == "tkhd", name == "mdhd", name == "stts",
		name == "hdlr" && parent == "mdia":
		return nil, w.readLeaf(h)
	}
	return nil, nil
}

// checkNesting rejects paths deeper than maxBoxDepth and container boxes
// nested inside a box of their own type.
func (w *walker) checkNesting(h *mp4.ReadHandle, name string) error {
	offset := int64(h.BoxInfo.Offset)
	if len(h.Path) > maxBoxDepth {
		w.malformed = &types.CorruptedFileError{
			Path:   w.sr.Path(),
			Reason: fmt.Sprintf("boxes nested deeper than %d levels", maxBoxDepth),
			Offset: offset,
		}
		return w.malformed
	}
	if _, ok := containerParents[name]; !ok {
		return nil
	}
	for _, t := range h.Path[:len(h.Path)-1] {
		if boxName(t) == name {
			w.malformed = &types.CorruptedFileError{
				Path:   w.sr.Path(),
				Reason: name + " box nested in itself",
				Offset: offset,
			}
			return w.malformed
		}
	}
	return nil
}

// payload reads and decodes the box at h after checking it against the
// header guard.
func (w *walker) payload(h *mp4.ReadHandle) (mp4.IBox, error) {
	size := int64(h.BoxInfo.Size - h.BoxInfo.HeaderSize)
	if size > w.sr.Guard() {
		return nil, &types.ResourceLimitError{
			Path:   w.sr.Path(),
			What:   boxName(h.BoxInfo.Type) + " box",
			Offset: int64(h.BoxInfo.Offset),
			Length: size,
			Limit:  w.sr.Guard(),
		}
	}
	box, _, err := h.ReadPayload()
	if err != nil {
		if types.IsFatal(err) {
			return nil, err
		}
		w.file.Warn("boxes", int64(h.BoxInfo.Offset), "failed to decode %s box: %v", boxName(h.BoxInfo.Type), err)
		return nil, nil
	}
	return box, nil
}

func (w *walker) readLeaf(h *mp4.ReadHandle) error {
	box, err := w.payload(h)
	if err != nil || box == nil {
		return err
	}

	switch b := box.(type) {
	case *mp4.Mvhd:
		w.movieTimescale = b.Timescale
		w.movieDuration = uint64(b.DurationV0)
		if b.GetVersion() == 1 {
			w.movieDuration = b.DurationV1
		}

	case *mp4.Tkhd:
		t := w.current()
		t.width = int(b.Width >> 16)
		t.height = int(b.Height >> 16)

	case *mp4.Mdhd:
		t := w.current()
		t.timescale = b.Timescale
		t.length = uint64(b.DurationV0)
		if b.GetVersion() == 1 {
			t.length = b.DurationV1
		}

	case *mp4.Hdlr:
		w.current().handler = string(b.HandlerType[:])

	case *mp4.Stts:
		t := w.current()
		for _, e := range b.Entries {
			t.samples += uint64(e.SampleCount)
		}
	}
	return nil
}

func (w *walker) readSampleEntry(h *mp4.ReadHandle) error {
	t := w.current()
	if t.codec != "" {
		return nil
	}
	t.codec = boxName(h.BoxInfo.Type)
	if !h.BoxInfo.IsSupportedType() {
		return nil
	}

	box, err := w.payload(h)
	if err != nil || box == nil {
		return err
	}
	switch b := box.(type) {
	case *mp4.AudioSampleEntry:
		t.channels = int(b.ChannelCount)
		t.bitDepth = int(b.SampleSize)
		t.sampleRate = int(b.SampleRate >> 16)
	case *mp4.VisualSampleEntry:
		if b.Width > 0 && b.Height > 0 {
			t.width = int(b.Width)
			t.height = int(b.Height)
		}
	}
	return nil
}

func (w *walker) readItem(h *mp4.ReadHandle, item string) error {
	box, err := w.payload(h)
	if err != nil || box == nil {
		return err
	}
	data, ok := box.(*mp4.Data)
	if !ok {
		return nil
	}
	applyItem(item, data.DataType, data.Data, &w.file.Tags)
	return nil
}

func boxName(t mp4.BoxType) string {
	return string(t[:])
}

// ancestor returns the name of the box depth levels up the path, where 1
// is the current box.
func ancestor(path mp4.BoxPath, depth int) string {
	if len(path) < depth {
		return ""
	}
	return boxName(path[len(path)-depth])
}

// init registers the M4A and MOV parsers.
func init() {
	registry.Register(types.FormatM4A, &parser{format: types.FormatM4A})
	registry.Register(types.FormatMOV, &parser{format: types.FormatMOV})
}
