package testutil

// Ogg page header flags.
const (
	OggContinued = 0x01
	OggBOS       = 0x02
	OggEOS       = 0x04
)

// OggPage returns a page holding whole packets. The CRC is left zero.
func OggPage(flags byte, serial, seq uint32, granule int64, packets ...[]byte) []byte {
	var lacing, body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			lacing = append(lacing, 255)
			n -= 255
		}
		lacing = append(lacing, byte(n))
		body = append(body, p...)
	}
	header := Concat(
		[]byte("OggS"), []byte{0, flags},
		LE64(uint64(granule)), LE32(serial), LE32(seq), LE32(0),
		[]byte{byte(len(lacing))},
	)
	return Concat(header, lacing, body)
}

// VorbisCommentBlock returns a comment block without any packet framing.
func VorbisCommentBlock(vendor string, comments ...string) []byte {
	b := Concat(LE32(uint32(len(vendor))), []byte(vendor), LE32(uint32(len(comments))))
	for _, c := range comments {
		b = Concat(b, LE32(uint32(len(c))), []byte(c))
	}
	return b
}

// VorbisIdent returns a Vorbis identification header packet.
func VorbisIdent(channels byte, rate, nominal uint32) []byte {
	return Concat(
		[]byte("\x01vorbis"), LE32(0), []byte{channels},
		LE32(rate), LE32(0), LE32(nominal), LE32(0),
		[]byte{0xB8, 0x01},
	)
}

// VorbisComment returns a Vorbis comment header packet.
func VorbisComment(comments ...string) []byte {
	return Concat([]byte("\x03vorbis"), VorbisCommentBlock("test vendor", comments...), []byte{1})
}

// OggVorbis returns a three page Vorbis file lasting samples samples.
func OggVorbis(rate uint32, samples int64, comments ...string) []byte {
	return Concat(
		OggPage(OggBOS, 1, 0, 0, VorbisIdent(2, rate, 128000)),
		OggPage(0, 1, 1, 0, VorbisComment(comments...), []byte("\x05vorbis setup")),
		OggPage(OggEOS, 1, 2, samples, make([]byte, 200)),
	)
}

// OpusHead returns an OpusHead packet.
func OpusHead(channels byte, preSkip uint16, inputRate uint32) []byte {
	return Concat([]byte("OpusHead"), []byte{1, channels}, LE16(preSkip), LE32(inputRate), LE16(0), []byte{0})
}

// OggOpus returns a three page Opus file whose last granule is granule.
func OggOpus(preSkip uint16, granule int64, comments ...string) []byte {
	return Concat(
		OggPage(OggBOS, 7, 0, 0, OpusHead(2, preSkip, 48000)),
		OggPage(0, 7, 1, 0, Concat([]byte("OpusTags"), VorbisCommentBlock("libopus", comments...))),
		OggPage(OggEOS, 7, 2, granule, make([]byte, 400)),
	)
}

// OGMVideoHeader returns an OGM video stream header packet. timeUnit is the
// frame duration in 100ns units.
func OGMVideoHeader(fourcc string, timeUnit int64, width, height int32) []byte {
	return Concat(
		[]byte("\x01video\x00\x00\x00"), []byte(fourcc),
		LE32(52), LE64(uint64(timeUnit)), LE64(1),
		LE32(1), LE32(0x10000), LE16(0), LE16(0),
		LE32(uint32(width)), LE32(uint32(height)),
	)
}

// OGMAudioHeader returns an OGM audio stream header packet.
func OGMAudioHeader(subtype string, rate int64, channels uint16, avgBytesPerSec uint32) []byte {
	return Concat(
		[]byte("\x01audio\x00\x00\x00"), []byte(subtype),
		LE32(52), LE64(10000000/uint64(rate)), LE64(uint64(rate)),
		LE32(1), LE32(0x10000), LE16(16), LE16(0),
		LE16(channels), LE16(0), LE32(avgBytesPerSec),
	)
}

// OGM returns a file with an OGM video stream and an OGM audio stream.
// The video lasts frames frames.
func OGM(frames int64, comments ...string) []byte {
	return Concat(
		OggPage(OggBOS, 100, 0, 0, OGMVideoHeader("DIVX", 400000, 640, 480)),
		OggPage(OggBOS, 200, 0, 0, OGMAudioHeader("0055", 44100, 2, 16000)),
		OggPage(0, 100, 1, 0, Concat([]byte("\x03vorbis"), VorbisCommentBlock("ogmmerge", comments...), []byte{1})),
		OggPage(0, 200, 1, 0, Concat([]byte("\x03vorbis"), VorbisCommentBlock("ogmmerge"), []byte{1})),
		OggPage(0, 100, 2, frames/2, make([]byte, 300)),
		OggPage(OggEOS, 100, 3, frames, make([]byte, 300)),
		OggPage(OggEOS, 200, 2, 44100, make([]byte, 100)),
	)
}
