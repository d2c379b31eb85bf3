// Package mpeg reads MPEG-1 and MPEG-2 program streams and elementary
// video streams.
package mpeg

import (
	"bytes"
	"time"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

// Start codes.
const (
	codePack          = 0xBA
	codeSequence      = 0xB3
	codeExtension     = 0xB5
	codeAudioFirst    = 0xC0
	codeAudioLast     = 0xDF
	codePrivateStream = 0xBD
)

// scanWindow is how much of the head and the tail of the file we search.
const scanWindow = 256 * 1024

// systemClock is the SCR frequency.
const systemClock = 90000

var frameRates = [...]float64{0, 24000.0 / 1001, 24, 25, 30000.0 / 1001, 30, 50, 60000.0 / 1001, 60}

type parser struct{}

// Parse searches the start of the file for a pack and a sequence header and
// the end of the file for the last pack.
func (p *parser) Parse(sr *binary.SafeReader) (*types.File, error) {
	head, err := sr.ReadBytes(0, window(sr, sr.Size()), "stream head")
	if err != nil {
		return nil, err
	}
	if len(head) < 4 || !bytes.HasPrefix(head, []byte{0, 0, 1}) || (head[3] != codePack && head[3] != codeSequence) {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "no MPEG pack or sequence start code"}
	}

	file := types.NewFile(sr.Path(), types.FormatMPEG, sr.Size())
	video := &types.VideoInfo{Codec: "MPEG-1"}

	firstSCR, mpeg2, packed := int64(0), false, head[3] == codePack
	if packed {
		firstSCR, mpeg2 = readSCR(head)
	}

	seq := findStartCode(head, codeSequence, 0)
	if seq < 0 {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "no sequence header"}
	}
	if err := parseSequenceHeader(head[seq:], video); err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error(), Offset: int64(seq)}
	}
	if ext := findStartCode(head, codeExtension, seq); mpeg2 || (ext >= 0 && ext+4 < len(head) && head[ext+4]>>4 == 1) {
		video.Codec = "MPEG-2"
	}

	if a := findAudio(head); a != nil {
		file.Audio = *a
	}

	if packed {
		lastSCR, err := lastPackSCR(sr)
		switch {
		case err != nil && types.IsFatal(err):
			return nil, err
		case err != nil:
			file.Warn("technical", 0, "failed to read the last pack: %v", err)
		case lastSCR > firstSCR:
			video.Duration = time.Duration(float64(lastSCR-firstSCR) / systemClock * float64(time.Second))
		}
	}
	if video.Duration == 0 && video.Bitrate > 0 {
		video.Duration = time.Duration(float64(sr.Size()) * 8 / float64(video.Bitrate) * float64(time.Second))
	}
	if file.Audio.Codec != "" {
		file.Audio.Duration = video.Duration
	}

	file.Video = video
	return file, nil
}

// window returns how much may be read in one go for a search.
func window(sr *binary.SafeReader, n int64) int64 {
	return min(n, scanWindow, sr.Guard())
}

// parseSequenceHeader decodes width, height, frame rate and bitrate from a
// sequence header starting at b[0].
func parseSequenceHeader(b []byte, video *types.VideoInfo) error {
	if len(b) < 12 {
		return errShortSequence
	}
	video.Width = int(b[4])<<4 | int(b[5])>>4
	video.Height = int(b[5]&0x0F)<<8 | int(b[6])
	if code := int(b[7] & 0x0F); code < len(frameRates) {
		video.FrameRate = frameRates[code]
	}
	// 18 bits in units of 400 bps; all ones means variable.
	rate := int(b[8])<<10 | int(b[9])<<2 | int(b[10])>>6
	if rate != 0x3FFFF {
		video.Bitrate = rate * 400
	}
	if video.Width == 0 || video.Height == 0 {
		return errZeroSize
	}
	return nil
}

// readSCR decodes the system clock reference of a pack header at b[0] and
// reports whether it is an MPEG-2 pack.
func readSCR(b []byte) (scr int64, mpeg2 bool) {
	if len(b) < 10 {
		return 0, false
	}
	p := b[4:]
	if p[0]&0xC0 == 0x40 {
		// MPEG-2: 01 [32..30] 1 [29..15] 1 [14..0] 1 ext
		scr = int64(p[0]&0x38)<<27 | int64(p[0]&0x03)<<28 | int64(p[1])<<20 |
			int64(p[2]&0xF8)<<12 | int64(p[2]&0x03)<<13 | int64(p[3])<<5 | int64(p[4]&0xF8)>>3
		return scr, true
	}
	// MPEG-1: 0010 [32..30] 1 [29..15] 1 [14..0] 1
	scr = int64(p[0]&0x0E)<<29 | int64(p[1])<<22 | int64(p[2]&0xFE)<<14 |
		int64(p[3])<<7 | int64(p[4]&0xFE)>>1
	return scr, false
}

// lastPackSCR finds the SCR of the last pack header in the tail of the file.
func lastPackSCR(sr *binary.SafeReader) (int64, error) {
	n := window(sr, sr.Size())
	tail, err := sr.ReadBytes(sr.Size()-n, n, "stream tail")
	if err != nil {
		return 0, err
	}
	for i := bytes.LastIndex(tail, []byte{0, 0, 1, codePack}); i >= 0; i = bytes.LastIndex(tail[:i], []byte{0, 0, 1, codePack}) {
		if i+10 <= len(tail) {
			scr, _ := readSCR(tail[i:])
			return scr, nil
		}
	}
	return 0, errNoPack
}

// findStartCode returns the index of 00 00 01 code in b at or after from,
// or -1.
func findStartCode(b []byte, code byte, from int) int {
	if from < 0 || from >= len(b) {
		return -1
	}
	i := bytes.Index(b[from:], []byte{0, 0, 1, code})
	if i < 0 {
		return -1
	}
	return from + i
}

// init registers the MPEG parser.
func init() {
	registry.Register(types.FormatMPEG, &parser{})
}
