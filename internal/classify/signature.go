package classify

import "bytes"

// asfHeaderGUID is the ASF Header Object GUID
// 75B22630-668E-11CF-A6D9-00AA0062CE6C in its on-disk byte order.
var asfHeaderGUID = []byte{
	0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
	0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
}

// QuickTime top-level atoms that may open a file.
var movAtoms = [][]byte{
	[]byte("ftyp"), []byte("moov"), []byte("mdat"),
	[]byte("wide"), []byte("free"), []byte("skip"), []byte("pnot"),
}

// IsRIFF reports a RIFF file with form type "AVI ".
func IsRIFF(h []byte) bool {
	return len(h) >= 12 && string(h[0:4]) == "RIFF" && string(h[8:12]) == "AVI "
}

// IsOGM reports an Ogg stream whose first packet is an OGM video stream
// header.
func IsOGM(h []byte) bool {
	if len(h) < 27 || string(h[0:4]) != "OggS" {
		return false
	}
	start := 27 + int(h[26])
	return len(h) >= start+6 && bytes.Equal(h[start:start+6], []byte("\x01video"))
}

// IsASF reports an ASF Header Object.
func IsASF(h []byte) bool {
	return len(h) >= 16 && bytes.Equal(h[:16], asfHeaderGUID)
}

// IsMPEG reports an MPEG program stream pack header or a video sequence
// header.
func IsMPEG(h []byte) bool {
	return len(h) >= 4 && h[0] == 0 && h[1] == 0 && h[2] == 1 && (h[3] == 0xBA || h[3] == 0xB3)
}

// IsMOV reports a QuickTime or ISO base media file.
func IsMOV(h []byte) bool {
	if len(h) < 8 {
		return false
	}
	for _, atom := range movAtoms {
		if bytes.Equal(h[4:8], atom) {
			return true
		}
	}
	return false
}
