package testutil

// MPEG-1 Layer III, 128 kbps, 44.1 kHz, stereo, no padding.
var mp3FrameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

// MP3FrameLen is the byte length of each frame MP3Frames emits.
const MP3FrameLen = 417

// Synchsafe encodes n as a 4-byte ID3v2 synchsafe integer.
func Synchsafe(n uint32) []byte {
	return []byte{byte(n >> 21 & 0x7F), byte(n >> 14 & 0x7F), byte(n >> 7 & 0x7F), byte(n & 0x7F)}
}

// ID3v2Header returns a 10-byte tag header declaring size bytes of body.
func ID3v2Header(version byte, flags byte, size uint32) []byte {
	return Concat([]byte{'I', 'D', '3', version, 0, flags}, Synchsafe(size))
}

// ID3v2Tag wraps v2.3/v2.4 frames in a tag with 16 bytes of padding.
func ID3v2Tag(version byte, frames ...[]byte) []byte {
	body := Concat(frames...)
	body = append(body, make([]byte, 16)...)
	return Concat(ID3v2Header(version, 0, uint32(len(body))), body)
}

// ID3v2Frame returns a v2.3 (or v2.4 when version is 4) frame with the given
// raw payload.
func ID3v2Frame(version byte, id string, payload []byte) []byte {
	size := BE32(uint32(len(payload)))
	if version == 4 {
		size = Synchsafe(uint32(len(payload)))
	}
	return Concat([]byte(id), size, []byte{0, 0}, payload)
}

// ID3v2Text returns a Latin-1 text frame.
func ID3v2Text(version byte, id, text string) []byte {
	return ID3v2Frame(version, id, Concat([]byte{0}, []byte(text)))
}

// ID3v22Text returns an ID3v2.2 text frame with a three character ID.
func ID3v22Text(id, text string) []byte {
	payload := Concat([]byte{0}, []byte(text))
	n := len(payload)
	return Concat([]byte(id), []byte{byte(n >> 16), byte(n >> 8), byte(n)}, payload)
}

// ID3v1 returns a 128-byte ID3v1.1 trailer.
func ID3v1(title, artist, album, year, comment string, track, genre byte) []byte {
	b := make([]byte, 128)
	copy(b, "TAG")
	copy(b[3:33], title)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	copy(b[97:125], comment)
	b[126] = track
	b[127] = genre
	return b
}

// MP3Frames returns n silent CBR frames.
func MP3Frames(n int) []byte {
	out := make([]byte, 0, n*MP3FrameLen)
	for range n {
		frame := make([]byte, MP3FrameLen)
		copy(frame, mp3FrameHeader)
		out = append(out, frame...)
	}
	return out
}

// MP3XingFrame returns a first frame carrying a Xing header that declares
// frames frames.
func MP3XingFrame(frames uint32) []byte {
	frame := make([]byte, MP3FrameLen)
	copy(frame, mp3FrameHeader)
	// 4 byte header + 32 bytes of stereo MPEG-1 side info.
	copy(frame[36:], "Xing")
	copy(frame[40:], BE32(0x1))
	copy(frame[44:], BE32(frames))
	return frame
}
