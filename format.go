package mediameta

import (
	"github.com/simonhull/mediameta/internal/classify"
	"github.com/simonhull/mediameta/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Family is an alias to types.Family.
type Family = types.Family

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatMP3     = types.FormatMP3
	FormatOgg     = types.FormatOgg
	FormatFLAC    = types.FormatFLAC
	FormatM4A     = types.FormatM4A
	FormatWMA     = types.FormatWMA
	FormatAVI     = types.FormatAVI
	FormatOGM     = types.FormatOGM
	FormatWMV     = types.FormatWMV
	FormatMPEG    = types.FormatMPEG
	FormatMOV     = types.FormatMOV
)

// Re-export the family constants.
const (
	FamilyUnsupported = types.FamilyUnsupported
	FamilyAudio       = types.FamilyAudio
	FamilyVideo       = types.FamilyVideo
	FamilyMultiFormat = types.FamilyMultiFormat
)

// Classify returns the family of path judged by its extension alone. It
// does not touch the file.
func Classify(path string) Family {
	return classify.Classify(path).Family
}

// IsSupported reports whether Parse would consider path at all.
func IsSupported(path string) bool {
	return Classify(path) != FamilyUnsupported
}
