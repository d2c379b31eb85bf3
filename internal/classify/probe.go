package classify

import (
	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/types"
)

// Probe is what the fine predicates get to look at: the path, its
// lower-cased extension and the first HeaderSize bytes of the file.
type Probe struct {
	Path   string
	Ext    string
	Header []byte
}

// NewProbe reads the leading bytes of sr. Files shorter than HeaderSize
// yield a short Header.
func NewProbe(mf types.MediaFile, sr *binary.SafeReader) (Probe, error) {
	h, err := sr.Header(HeaderSize)
	if err != nil {
		return Probe{}, err
	}
	return Probe{Path: mf.Path, Ext: mf.Ext, Header: h}, nil
}

// AudioFormat maps the probe's extension to an audio reader.
func (p Probe) AudioFormat() (types.Format, bool) {
	return AudioFormat(p.Ext)
}

// VideoFormat maps the probe's leading bytes to a video reader.
func (p Probe) VideoFormat() (types.Format, bool) {
	return VideoFormat(p.Header)
}
