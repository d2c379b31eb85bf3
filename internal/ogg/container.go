// Package ogg reads Ogg Vorbis and Ogg Opus audio, and OGM video.
package ogg

import (
	"bytes"
	"fmt"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

// Header type flags.
const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04
)

// maxHeaderPages bounds how many pages we walk looking for header packets.
const maxHeaderPages = 1024

// lastPageSearch is how far from the end we look for the final page.
const lastPageSearch = 65536

// Page represents an Ogg page.
//
// An Ogg page is the fundamental unit of the Ogg container format.
// Each page contains a header, a segment (lacing) table and payload data.
type Page struct {
	Offset          int64
	GranulePosition int64  // Codec-defined position (samples, frames)
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	Segments        []byte // Lacing values
	Data            []byte // Page payload (one or more packet pieces)
}

// readPage reads an Ogg page at the given offset.
//
// Returns the page, next offset, and any error encountered.
func readPage(sr *binary.SafeReader, offset int64) (*Page, int64, error) {
	header := make([]byte, 27)
	if err := sr.ReadAt(header, offset, "Ogg page header"); err != nil {
		return nil, 0, err
	}
	if string(header[0:4]) != "OggS" {
		return nil, 0, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: "missing OggS capture pattern",
			Offset: offset,
		}
	}
	if header[4] != 0 {
		return nil, 0, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("unsupported Ogg version: %d", header[4]),
			Offset: offset + 4,
		}
	}

	page := &Page{
		Offset:          offset,
		HeaderType:      header[5],
		GranulePosition: int64(binary.Decode[uint64](header[6:14], binary.LittleEndian)),
		SerialNumber:    binary.Decode[uint32](header[14:18], binary.LittleEndian),
		SequenceNumber:  binary.Decode[uint32](header[18:22], binary.LittleEndian),
	}

	segments, err := sr.ReadBytes(offset+27, int64(header[26]), "segment table")
	if err != nil {
		return nil, 0, err
	}
	page.Segments = segments

	dataSize := int64(0)
	for _, seg := range segments {
		dataSize += int64(seg)
	}
	dataOffset := offset + 27 + int64(len(segments))
	if page.Data, err = sr.ReadBytes(dataOffset, dataSize, "page data"); err != nil {
		return nil, 0, err
	}

	return page, dataOffset + dataSize, nil
}

// logicalStream collects the packets of one serial number.
type logicalStream struct {
	serial  uint32
	packets [][]byte
	partial []byte
}

// headerSet is the result of walking the start of an Ogg file.
type headerSet struct {
	streams []*logicalStream // in BOS order
	end     int64            // offset after the last page read
}

// first returns the first logical stream.
func (h *headerSet) first() *logicalStream {
	if len(h.streams) == 0 {
		return nil
	}
	return h.streams[0]
}

// readHeaders walks pages from the start of the file and assembles the
// first perStream packets of every logical stream. Packets larger than the
// reader's guard fail with *types.ResourceLimitError. A truncated or
// damaged page after the first ends the walk with what was collected.
func readHeaders(sr *binary.SafeReader, perStream int, file *types.File) (*headerSet, error) {
	set := &headerSet{}
	bySerial := make(map[uint32]*logicalStream)
	offset := int64(0)

	for i := 0; i < maxHeaderPages && offset < sr.Size(); i++ {
		page, next, err := readPage(sr, offset)
		if err != nil {
			if i == 0 || types.IsFatal(err) {
				return nil, err
			}
			file.Warn("streams", offset, "stopped reading Ogg pages: %v", err)
			break
		}
		set.end = next
		offset = next

		s := bySerial[page.SerialNumber]
		if page.HeaderType&flagBOS != 0 && s == nil {
			s = &logicalStream{serial: page.SerialNumber}
			bySerial[page.SerialNumber] = s
			set.streams = append(set.streams, s)
		}
		if s == nil {
			continue
		}
		if err := s.lace(page, sr); err != nil {
			return nil, err
		}

		if page.HeaderType&flagBOS == 0 && set.complete(perStream) {
			break
		}
	}

	if len(set.streams) == 0 {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: "no beginning-of-stream page",
		}
	}
	return set, nil
}

// complete reports whether every stream has perStream packets.
func (h *headerSet) complete(perStream int) bool {
	for _, s := range h.streams {
		if len(s.packets) < perStream {
			return false
		}
	}
	return true
}

// lace splits a page into packets using its segment table. A segment of 255
// bytes continues the packet; anything shorter ends it.
func (s *logicalStream) lace(page *Page, sr *binary.SafeReader) error {
	if page.HeaderType&flagContinued == 0 {
		s.partial = nil
	}
	pos := 0
	for _, seg := range page.Segments {
		n := int(seg)
		if int64(len(s.partial)+n) > sr.Guard() {
			return &types.ResourceLimitError{
				Path:   sr.Path(),
				What:   "Ogg packet",
				Offset: page.Offset,
				Length: int64(len(s.partial) + n),
				Limit:  sr.Guard(),
			}
		}
		s.partial = append(s.partial, page.Data[pos:pos+n]...)
		pos += n
		if seg < 255 {
			s.packets = append(s.packets, s.partial)
			s.partial = nil
		}
	}
	return nil
}

// findLastGranulePosition searches backwards from the end of file for the
// last page of serial that carries a granule position.
//
// This is used to calculate the duration of a stream.
func findLastGranulePosition(sr *binary.SafeReader, serial uint32) (int64, error) {
	searchStart := max(sr.Size()-lastPageSearch, 0)
	buf, err := sr.ReadBytes(searchStart, sr.Size()-searchStart, "Ogg tail")
	if err != nil {
		return 0, err
	}

	for i := bytes.LastIndex(buf, []byte("OggS")); i >= 0; i = bytes.LastIndex(buf[:i], []byte("OggS")) {
		if i+27 > len(buf) {
			continue
		}
		if binary.Decode[uint32](buf[i+14:], binary.LittleEndian) != serial {
			continue
		}
		granule := int64(binary.Decode[uint64](buf[i+6:], binary.LittleEndian))
		if granule >= 0 {
			return granule, nil
		}
	}
	return 0, fmt.Errorf("could not find last Ogg page for stream %08x", serial)
}
