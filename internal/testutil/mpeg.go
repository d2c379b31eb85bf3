package testutil

// MPEG1Pack returns an MPEG-1 pack header with the given SCR.
func MPEG1Pack(scr uint64) []byte {
	return []byte{
		0, 0, 1, 0xBA,
		0x21 | byte((scr>>30)&7)<<1,
		byte(scr >> 22),
		byte((scr>>15)&0x7F)<<1 | 1,
		byte(scr >> 7),
		byte(scr&0x7F)<<1 | 1,
		0x80, 0x00, 0x01,
	}
}

// MPEG2Pack returns an MPEG-2 pack header with the given SCR base.
func MPEG2Pack(scr uint64) []byte {
	return []byte{
		0, 0, 1, 0xBA,
		0x44 | byte((scr>>30)&7)<<3 | byte((scr>>28)&3),
		byte(scr >> 20),
		byte((scr>>15)&0x1F)<<3 | 0x04 | byte((scr>>13)&3),
		byte(scr >> 5),
		byte(scr&0x1F)<<3 | 0x04,
		0x01,
		0x01, 0x89, 0xC3,
		0xF8,
	}
}

// MPEGSequenceHeader returns a video sequence header. bitrate is in bits
// per second and rateCode indexes the frame rate table (3 = 25 fps).
func MPEGSequenceHeader(width, height int, rateCode byte, bitrate int) []byte {
	br := bitrate / 400
	return []byte{
		0, 0, 1, 0xB3,
		byte(width >> 4),
		byte(width&0x0F)<<4 | byte(height>>8),
		byte(height),
		0x10 | rateCode,
		byte(br >> 10),
		byte(br >> 2),
		byte(br&3)<<6 | 0x20 | 0x1F,
		0xF8,
	}
}

// MPEGAudioPES returns an MPEG-1 PES packet holding a Layer II frame
// header at 48 kHz stereo.
func MPEGAudioPES() []byte {
	payload := Concat([]byte{0x0F}, []byte{0xFF, 0xFD, 0x84, 0x00}, make([]byte, 32))
	return Concat([]byte{0, 0, 1, 0xC0}, BE16(uint16(len(payload))), payload)
}

// MPEGProgram returns a program stream lasting seconds.
func MPEGProgram(seconds uint64, mpeg2 bool) []byte {
	pack := MPEG1Pack
	if mpeg2 {
		pack = MPEG2Pack
	}
	const start = 3600
	return Concat(
		pack(start),
		MPEGSequenceHeader(352, 288, 3, 1_150_000),
		MPEGAudioPES(),
		make([]byte, 2048),
		pack(start+seconds*90000/2),
		make([]byte, 2048),
		pack(start+seconds*90000),
		make([]byte, 64),
		[]byte{0, 0, 1, 0xB9},
	)
}
