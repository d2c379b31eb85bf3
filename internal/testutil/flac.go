package testutil

// FLAC metadata block types used by the builders.
const (
	FLACStreamInfo    = 0
	FLACPadding       = 1
	FLACVorbisComment = 4
)

// FLACBlock returns a metadata block with its 4 byte header.
func FLACBlock(blockType byte, last bool, body []byte) []byte {
	if last {
		blockType |= 0x80
	}
	n := len(body)
	return Concat([]byte{blockType, byte(n >> 16), byte(n >> 8), byte(n)}, body)
}

// FLACStreamInfoBody returns a 34 byte STREAMINFO body.
func FLACStreamInfoBody(rate uint32, channels, bits byte, samples uint64) []byte {
	packed := uint64(rate&0xFFFFF)<<44 |
		uint64((channels-1)&0x7)<<41 |
		uint64((bits-1)&0x1F)<<36 |
		samples&0xFFFFFFFFF
	return Concat(
		BE16(4096), BE16(4096), []byte{0, 0, 0}, []byte{0, 0, 0},
		BE64(packed), make([]byte, 16),
	)
}

// FLAC returns a stream with STREAMINFO, a comment block and audio bytes.
func FLAC(rate uint32, samples uint64, comments ...string) []byte {
	return Concat(
		[]byte("fLaC"),
		FLACBlock(FLACStreamInfo, false, FLACStreamInfoBody(rate, 2, 16, samples)),
		FLACBlock(FLACVorbisComment, false, VorbisCommentBlock("reference libFLAC 1.4.3", comments...)),
		FLACBlock(FLACPadding, true, make([]byte, 64)),
		make([]byte, 1000),
	)
}
