package testutil

import "github.com/google/uuid"

// ASF object GUIDs used by the builders.
const (
	ASFHeaderGUID             = "75B22630-668E-11CF-A6D9-00AA0062CE6C"
	ASFFilePropertiesGUID     = "8CABDCA1-A947-11CF-8EE4-00C00C205365"
	ASFStreamPropertiesGUID   = "B7DC0791-A9B7-11CF-8EE6-00C00C205365"
	ASFContentDescriptionGUID = "75B22633-668E-11CF-A6D9-00AA0062CE6C"
	ASFExtendedContentGUID    = "D2D0A440-E307-11D2-97F0-00A0C95EA850"
	ASFHeaderExtensionGUID    = "5FBF03B5-A92E-11CF-8EE3-00C00C205365"
	ASFExtStreamPropsGUID     = "14E6A5CB-C672-4332-8399-A96952065B5A"
	ASFMetadataGUID           = "C5F8CBEA-5BAF-4877-8467-AA8C44FA4CCA"
	ASFAudioMediaGUID         = "F8699E40-5B4D-11CF-A8FD-00805F5C442B"
	ASFVideoMediaGUID         = "BC19EFC0-5B4D-11CF-A8FD-00805F5C442B"
	asfNoErrorCorrectionGUID  = "20FB5700-5B55-11CF-A8FD-00805F5C442B"
	asfReserved1GUID          = "ABD3D211-A9BA-11CF-8EE6-00C00C205365"
)

// ASFGUID returns a GUID in ASF's on-disk byte order.
func ASFGUID(s string) []byte {
	u := uuid.MustParse(s)
	return []byte{
		u[3], u[2], u[1], u[0], u[5], u[4], u[7], u[6],
		u[8], u[9], u[10], u[11], u[12], u[13], u[14], u[15],
	}
}

// ASFObject returns an object with its 24 byte header.
func ASFObject(guid string, body ...[]byte) []byte {
	b := Concat(body...)
	return Concat(ASFGUID(guid), LE64(uint64(24+len(b))), b)
}

// ASF returns a Header Object holding objects followed by a few bytes of
// packet data.
func ASF(objects ...[]byte) []byte {
	body := Concat(objects...)
	return ASFHeader(uint64(30+len(body)), uint32(len(objects)), objects...)
}

// ASFHeader is ASF with the declared header size and object count given
// verbatim.
func ASFHeader(size uint64, count uint32, objects ...[]byte) []byte {
	return Concat(
		ASFGUID(ASFHeaderGUID), LE64(size), LE32(count), []byte{1, 2},
		Concat(objects...), make([]byte, 128),
	)
}

// ASFObjectSized is ASFObject with the declared size given verbatim.
func ASFObjectSized(guid string, size uint64, body ...[]byte) []byte {
	return Concat(ASFGUID(guid), LE64(size), Concat(body...))
}

// ASFFileProperties returns a File Properties object. playDuration is in
// 100ns units, preroll in milliseconds.
func ASFFileProperties(playDuration, preroll uint64, maxBitrate uint32) []byte {
	return ASFObject(ASFFilePropertiesGUID,
		make([]byte, 16), LE64(0), LE64(0), LE64(1),
		LE64(playDuration), LE64(playDuration), LE64(preroll),
		LE32(2), LE32(3200), LE32(3200), LE32(maxBitrate),
	)
}

func asfStream(kind string, number uint16, typeSpecific []byte) []byte {
	return ASFObject(ASFStreamPropertiesGUID,
		ASFGUID(kind), ASFGUID(asfNoErrorCorrectionGUID), LE64(0),
		LE32(uint32(len(typeSpecific))), LE32(0), LE16(number), LE32(0),
		typeSpecific,
	)
}

// ASFAudioStream returns a Stream Properties object with a WAVEFORMATEX.
func ASFAudioStream(number, formatTag, channels uint16, rate, avgBytes uint32, bits uint16) []byte {
	return asfStream(ASFAudioMediaGUID, number, Concat(
		LE16(formatTag), LE16(channels), LE32(rate), LE32(avgBytes),
		LE16(4096), LE16(bits), LE16(0),
	))
}

// ASFVideoStream returns a Stream Properties object with a BITMAPINFOHEADER.
func ASFVideoStream(number uint16, width, height uint32, fourcc string) []byte {
	return asfStream(ASFVideoMediaGUID, number, Concat(
		LE32(width), LE32(height), []byte{2}, LE16(40),
		LE32(40), LE32(width), LE32(height), LE16(1), LE16(24), []byte(fourcc),
		LE32(0), LE32(0), LE32(0), LE32(0), LE32(0),
	))
}

// ASFContentDescription returns a Content Description object.
func ASFContentDescription(title, author, copyright, description, rating string) []byte {
	fields := [][]byte{UTF16LE(title), UTF16LE(author), UTF16LE(copyright), UTF16LE(description), UTF16LE(rating)}
	var lengths []byte
	for _, f := range fields {
		lengths = Concat(lengths, LE16(uint16(len(f))))
	}
	return ASFObject(ASFContentDescriptionGUID, lengths, Concat(fields...))
}

// ASFStringDescriptor returns an Extended Content Description entry.
func ASFStringDescriptor(name, value string) []byte {
	n, v := UTF16LE(name), UTF16LE(value)
	return Concat(LE16(uint16(len(n))), n, LE16(0), LE16(uint16(len(v))), v)
}

// ASFDWordDescriptor returns a DWORD Extended Content Description entry.
func ASFDWordDescriptor(name string, value uint32) []byte {
	n := UTF16LE(name)
	return Concat(LE16(uint16(len(n))), n, LE16(3), LE16(4), LE32(value))
}

// ASFExtendedContent returns an Extended Content Description object.
func ASFExtendedContent(descriptors ...[]byte) []byte {
	return ASFObject(ASFExtendedContentGUID, LE16(uint16(len(descriptors))), Concat(descriptors...))
}

// ASFExtStreamProps returns an Extended Stream Properties object.
// frameTime is in 100ns units.
func ASFExtStreamProps(number uint16, dataBitrate uint32, frameTime uint64) []byte {
	return ASFObject(ASFExtStreamPropsGUID,
		LE64(0), LE64(0), LE32(dataBitrate), LE32(0), LE32(0),
		LE32(0), LE32(0), LE32(0), LE32(0), LE32(0),
		LE16(number), LE16(0), LE64(frameTime), LE16(0), LE16(0),
	)
}

// ASFMetadata returns a Metadata object of stream independent strings.
func ASFMetadata(pairs ...string) []byte {
	var records []byte
	for i := 0; i+1 < len(pairs); i += 2 {
		n, v := UTF16LE(pairs[i]), UTF16LE(pairs[i+1])
		records = Concat(records, LE16(0), LE16(0), LE16(uint16(len(n))), LE16(0), LE32(uint32(len(v))), n, v)
	}
	return ASFObject(ASFMetadataGUID, LE16(uint16(len(pairs)/2)), records)
}

// ASFHeaderExtension returns a Header Extension object holding objects.
func ASFHeaderExtension(objects ...[]byte) []byte {
	body := Concat(objects...)
	return ASFObject(ASFHeaderExtensionGUID, ASFGUID(asfReserved1GUID), LE16(6), LE32(uint32(len(body))), body)
}

// WMA returns a 30 second audio-only ASF file.
func WMA(title, artist string, descriptors ...[]byte) []byte {
	return ASF(
		ASFFileProperties(330_000_000, 3000, 128000),
		ASFAudioStream(1, 0x0161, 2, 44100, 16000, 16),
		ASFContentDescription(title, artist, "", "", ""),
		ASFExtendedContent(descriptors...),
	)
}

// WMV returns a 10 second ASF file with a WMV3 video stream and a WMA
// audio stream.
func WMV(title string) []byte {
	return ASF(
		ASFFileProperties(130_000_000, 3000, 1_128_000),
		ASFVideoStream(2, 640, 480, "WMV3"),
		ASFAudioStream(1, 0x0161, 2, 44100, 16000, 16),
		ASFContentDescription(title, "", "", "", ""),
		ASFHeaderExtension(ASFExtStreamProps(2, 1_000_000, 400_000)),
	)
}
