// Package textenc decodes the string encodings found in media headers.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	utf16LE  = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16BE  = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16BOM = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
)

// Latin1 decodes ISO-8859-1 bytes. Trailing NULs are dropped.
func Latin1(b []byte) string {
	return decode(charmap.ISO8859_1, trimNUL(b, 1))
}

// UTF8 returns b as a string with trailing NULs dropped. Invalid sequences
// are replaced with U+FFFD.
func UTF8(b []byte) string {
	b = trimNUL(b, 1)
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

// UTF16LE decodes little-endian UTF-16 without a byte order mark, as used
// by ASF and AVI headers.
func UTF16LE(b []byte) string {
	return decode(utf16LE, trimNUL(b, 2))
}

// UTF16BE decodes big-endian UTF-16 without a byte order mark.
func UTF16BE(b []byte) string {
	return decode(utf16BE, trimNUL(b, 2))
}

// UTF16 decodes UTF-16 that starts with a byte order mark. Input without a
// mark is treated as little-endian.
func UTF16(b []byte) string {
	if len(b) >= 2 && (b[0] == 0xFE && b[1] == 0xFF || b[0] == 0xFF && b[1] == 0xFE) {
		return decode(utf16BOM, trimNUL(b, 2))
	}
	return UTF16LE(b)
}

// Text is a best-effort decoder for fields whose encoding is not declared:
// valid UTF-8 is taken as is, anything else is read as Latin-1.
func Text(b []byte) string {
	b = trimNUL(b, 1)
	if utf8.Valid(b) {
		return strings.TrimSpace(string(b))
	}
	return strings.TrimSpace(decode(charmap.ISO8859_1, b))
}

// SplitNUL splits b on terminators of the given width (1 or 2 bytes).
// Empty trailing parts are dropped.
func SplitNUL(b []byte, width int) [][]byte {
	var parts [][]byte
	for len(b) > 0 {
		i := indexNUL(b, width)
		if i < 0 {
			parts = append(parts, b)
			break
		}
		parts = append(parts, b[:i])
		b = b[i+width:]
	}
	for len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func decode(enc encoding.Encoding, b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}

func trimNUL(b []byte, width int) []byte {
	if width == 1 {
		return bytes.TrimRight(b, "\x00")
	}
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	for len(b) >= 2 && b[len(b)-1] == 0 && b[len(b)-2] == 0 {
		b = b[:len(b)-2]
	}
	return b
}

func indexNUL(b []byte, width int) int {
	if width == 1 {
		return bytes.IndexByte(b, 0)
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return -1
}
