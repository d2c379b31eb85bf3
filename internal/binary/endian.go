package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: MP4/QuickTime, ID3v2, FLAC block headers, MPEG.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: Vorbis comments, Ogg pages, RIFF/AVI, ASF.
	LittleEndian
)

// Unsigned is the set of integer types the generic readers decode.
type Unsigned interface {
	uint8 | uint16 | uint32 | uint64
}

// ReadLE reads a numeric value of type T at the given offset using little-endian byte order.
//
//	length, err := binary.ReadLE[uint32](sr, offset, "vorbis comment length")
func ReadLE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, LittleEndian)
}

// ReadBE reads a numeric value of type T at the given offset using big-endian byte order.
func ReadBE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
func ReadEndian[T Unsigned](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	var buf [8]byte
	b := buf[:sizeOf[T]()]
	if err := sr.ReadAt(b, off, what); err != nil {
		return 0, err
	}
	return Decode[T](b, endian), nil
}

// Decode converts the leading bytes of b into T. b must hold at least
// sizeof(T) bytes.
func Decode[T Unsigned](b []byte, endian Endianness) T {
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}
	switch sizeOf[T]() {
	case 1:
		return T(b[0])
	case 2:
		return T(order.Uint16(b))
	case 4:
		return T(order.Uint32(b))
	default:
		return T(order.Uint64(b))
	}
}

func sizeOf[T Unsigned]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}
