package testutil

// Box returns an ISO base media box.
func Box(boxType string, children ...[]byte) []byte {
	body := Concat(children...)
	return Concat(BE32(uint32(8+len(body))), []byte(boxType), body)
}

// FullBox returns a box with a version 0 header and zero flags.
func FullBox(boxType string, children ...[]byte) []byte {
	return Box(boxType, append([][]byte{{0, 0, 0, 0}}, children...)...)
}

// Ftyp returns a file type box.
func Ftyp(major string, compatible ...string) []byte {
	parts := [][]byte{[]byte(major), BE32(0)}
	for _, c := range compatible {
		parts = append(parts, []byte(c))
	}
	return Box("ftyp", parts...)
}

// Mvhd returns a version 0 movie header.
func Mvhd(timescale, duration uint32) []byte {
	return FullBox("mvhd",
		BE32(0), BE32(0), BE32(timescale), BE32(duration),
		BE32(0x00010000), BE16(0x0100), BE16(0), make([]byte, 8),
		identityMatrix(), make([]byte, 24), BE32(2),
	)
}

// Trak returns a track with the given handler, sample entry and timing.
func Trak(handler string, width, height uint32, timescale, duration uint32, samples uint32, entry []byte) []byte {
	tkhd := FullBox("tkhd",
		BE32(0), BE32(0), BE32(1), BE32(0), BE32(duration), make([]byte, 8),
		BE16(0), BE16(0), BE16(0), BE16(0), identityMatrix(),
		BE32(width<<16), BE32(height<<16),
	)
	mdhd := FullBox("mdhd", BE32(0), BE32(0), BE32(timescale), BE32(duration), BE16(0x55C4), BE16(0))
	hdlr := FullBox("hdlr", BE32(0), []byte(handler), make([]byte, 12), []byte{0})
	stsd := FullBox("stsd", BE32(1), entry)
	stts := FullBox("stts", BE32(1), BE32(samples), BE32(duration/max(samples, 1)))
	return Box("trak", tkhd, Box("mdia", mdhd, hdlr, Box("minf", Box("stbl", stsd, stts))))
}

// AudioEntry returns an audio sample entry such as mp4a.
func AudioEntry(fourCC string, channels, bits uint16, rate uint32) []byte {
	return Box(fourCC,
		make([]byte, 6), BE16(1),
		BE16(0), make([]byte, 6),
		BE16(channels), BE16(bits), BE16(0), BE16(0), BE32(rate<<16),
	)
}

// VideoEntry returns a visual sample entry such as avc1.
func VideoEntry(fourCC string, width, height uint16) []byte {
	return Box(fourCC,
		make([]byte, 6), BE16(1),
		BE16(0), BE16(0), make([]byte, 12),
		BE16(width), BE16(height),
		BE32(0x00480000), BE32(0x00480000), BE32(0),
		BE16(1), make([]byte, 32), BE16(0x0018), BE16(0xFFFF),
	)
}

// ItunesText returns an ilst item holding a UTF-8 data box.
func ItunesText(item, value string) []byte {
	return Box(item, Box("data", BE32(1), BE32(0), []byte(value)))
}

// ItunesPair returns a trkn or disk item.
func ItunesPair(item string, n, total uint16) []byte {
	return Box(item, Box("data", BE32(0), BE32(0), BE16(0), BE16(n), BE16(total), BE16(0)))
}

// Udta returns moov/udta/meta/ilst holding items.
func Udta(items ...[]byte) []byte {
	hdlr := FullBox("hdlr", BE32(0), []byte("mdir"), []byte("appl"), make([]byte, 8), []byte{0})
	return Box("udta", FullBox("meta", hdlr, Box("ilst", items...)))
}

// M4A returns an AAC audio file lasting seconds with the given ilst items
// and mdatSize bytes of media data.
func M4A(seconds uint32, mdatSize int, items ...[]byte) []byte {
	const rate = 44100
	return Concat(
		Ftyp("M4A ", "M4A ", "mp42", "isom"),
		Box("moov",
			Mvhd(1000, seconds*1000),
			Trak("soun", 0, 0, rate, seconds*rate, seconds*rate/1024, AudioEntry("mp4a", 2, 16, rate)),
			Udta(items...),
		),
		Box("mdat", make([]byte, mdatSize)),
	)
}

// MOV returns a QuickTime movie with an H.264 track and an AAC track.
func MOV(seconds uint32, fps uint32, mdatSize int) []byte {
	return Concat(
		Ftyp("qt  ", "qt  "),
		Box("moov",
			Mvhd(600, seconds*600),
			Trak("vide", 1280, 720, fps*100, seconds*fps*100, seconds*fps, VideoEntry("avc1", 1280, 720)),
			Trak("soun", 0, 0, 48000, seconds*48000, seconds*48000/1024, AudioEntry("mp4a", 2, 16, 48000)),
		),
		Box("mdat", make([]byte, mdatSize)),
	)
}

func identityMatrix() []byte {
	return Concat(
		BE32(0x00010000), BE32(0), BE32(0),
		BE32(0), BE32(0x00010000), BE32(0),
		BE32(0), BE32(0), BE32(0x40000000),
	)
}

// NestedBoxes wraps inner in depth boxes of boxType. Sizes are written
// directly so deep trees stay linear to build.
func NestedBoxes(boxType string, depth int, inner []byte) []byte {
	out := make([]byte, 0, depth*8+len(inner))
	for i := range depth {
		out = append(out, BE32(uint32(8*(depth-i)+len(inner)))...)
		out = append(out, boxType...)
	}
	return append(out, inner...)
}
