package testutil

// Chunk returns a RIFF chunk padded to an even length.
func Chunk(id string, body ...[]byte) []byte {
	b := Concat(body...)
	out := Concat([]byte(id), LE32(uint32(len(b))), b)
	if len(b)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

// List returns a LIST chunk of the given type.
func List(listType string, chunks ...[]byte) []byte {
	return Chunk("LIST", append([][]byte{[]byte(listType)}, chunks...)...)
}

// Avih returns a main AVI header chunk.
func Avih(microSecPerFrame, totalFrames, width, height uint32) []byte {
	return Chunk("avih",
		LE32(microSecPerFrame), LE32(0), LE32(0), LE32(0x10),
		LE32(totalFrames), LE32(0), LE32(2), LE32(0),
		LE32(width), LE32(height), make([]byte, 16),
	)
}

// Strh returns a stream header chunk.
func Strh(kind, handler string, scale, rate, length uint32) []byte {
	return Chunk("strh",
		[]byte(kind), []byte(handler), LE32(0), LE16(0), LE16(0), LE32(0),
		LE32(scale), LE32(rate), LE32(0), LE32(length),
		LE32(0), LE32(0xFFFFFFFF), LE32(0), make([]byte, 8),
	)
}

// VideoStrl returns a strl list for a video stream.
func VideoStrl(fourcc string, width, height, scale, rate, frames uint32) []byte {
	return List("strl",
		Strh("vids", fourcc, scale, rate, frames),
		Chunk("strf",
			LE32(40), LE32(width), LE32(height), LE16(1), LE16(24), []byte(fourcc),
			LE32(width*height*3), LE32(0), LE32(0), LE32(0), LE32(0),
		),
	)
}

// AudioStrl returns a strl list for an audio stream.
func AudioStrl(formatTag, channels uint16, rate, avgBytes uint32, bits uint16) []byte {
	return List("strl",
		Strh("auds", "\x00\x00\x00\x00", 1, rate, 0),
		Chunk("strf", LE16(formatTag), LE16(channels), LE32(rate), LE32(avgBytes), LE16(4), LE16(bits)),
	)
}

// AVI returns a RIFF AVI file: 25 fps DIVX video of frames frames with an
// MP3 audio stream, INFO tags given as id/value pairs, and a movi list of
// moviSize bytes.
func AVI(frames uint32, moviSize int, info ...string) []byte {
	var infoChunks [][]byte
	for i := 0; i+1 < len(info); i += 2 {
		infoChunks = append(infoChunks, Chunk(info[i], []byte(info[i+1]), []byte{0}))
	}
	body := Concat(
		[]byte("AVI "),
		List("hdrl",
			Avih(40000, frames, 640, 480),
			VideoStrl("DIVX", 640, 480, 1, 25, frames),
			AudioStrl(0x0055, 2, 44100, 16000, 0),
		),
		List("INFO", infoChunks...),
		List("movi", make([]byte, moviSize)),
	)
	return Concat([]byte("RIFF"), LE32(uint32(len(body))), body)
}

// NestedLists wraps inner in depth LIST chunks of listType. Sizes are
// written directly so deep trees stay linear to build.
func NestedLists(listType string, depth int, inner []byte) []byte {
	out := make([]byte, 0, depth*12+len(inner))
	for i := range depth {
		out = append(out, "LIST"...)
		out = append(out, LE32(uint32(4+12*(depth-1-i)+len(inner)))...)
		out = append(out, listType...)
	}
	return append(out, inner...)
}

// RIFFAVI returns a RIFF AVI file holding chunks.
func RIFFAVI(chunks ...[]byte) []byte {
	body := Concat(append([][]byte{[]byte("AVI ")}, chunks...)...)
	return Concat([]byte("RIFF"), LE32(uint32(len(body))), body)
}
