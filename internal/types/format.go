package types

// Format identifies the reader variant that produced a File.
//
// Each Format has exactly one reader constructor registered in
// internal/registry. The dispatcher matches over this enum.
//
//go:generate stringer -type=Format -linecomment
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota // Unknown
	// FormatMP3 represents MPEG-1/2 Layer III audio files.
	FormatMP3 // MP3
	// FormatOgg represents Ogg audio files (Vorbis or Opus).
	FormatOgg // Ogg
	// FormatFLAC represents FLAC audio files.
	FormatFLAC // FLAC
	// FormatM4A represents MPEG-4 audio files.
	FormatM4A // M4A
	// FormatWMA represents Windows Media Audio (audio-flavored ASF).
	FormatWMA // WMA
	// FormatAVI represents RIFF/AVI video files.
	FormatAVI // AVI
	// FormatOGM represents Ogg Media video files.
	FormatOGM // OGM
	// FormatWMV represents Windows Media Video (video-flavored ASF).
	FormatWMV // WMV
	// FormatMPEG represents MPEG-1/2 program and elementary video streams.
	FormatMPEG // MPEG
	// FormatMOV represents QuickTime and ISO base media video files.
	FormatMOV // MOV
)

var formatNames = [...]string{
	FormatUnknown: "Unknown",
	FormatMP3:     "MP3",
	FormatOgg:     "Ogg",
	FormatFLAC:    "FLAC",
	FormatM4A:     "M4A",
	FormatWMA:     "WMA",
	FormatAVI:     "AVI",
	FormatOGM:     "OGM",
	FormatWMV:     "WMV",
	FormatMPEG:    "MPEG",
	FormatMOV:     "MOV",
}

// String returns the display name of the format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "Unknown"
	}
	return formatNames[f]
}

// Formats returns every reader variant in dispatch order.
func Formats() []Format {
	return []Format{
		FormatMP3, FormatOgg, FormatFLAC, FormatM4A, FormatWMA,
		FormatAVI, FormatOGM, FormatWMV, FormatMPEG, FormatMOV,
	}
}

// Family returns the media family the format belongs to.
func (f Format) Family() Family {
	switch f {
	case FormatMP3, FormatOgg, FormatFLAC, FormatM4A, FormatWMA:
		return FamilyAudio
	case FormatAVI, FormatOGM, FormatWMV, FormatMPEG, FormatMOV:
		return FamilyVideo
	case FormatUnknown:
		return FamilyUnsupported
	default:
		return FamilyUnsupported
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatFLAC:
		return []string{".flac", ".fla"}
	case FormatM4A:
		return []string{".m4a"}
	case FormatWMA:
		return []string{".wma"}
	case FormatAVI:
		return []string{".avi"}
	case FormatOGM:
		return []string{".ogm"}
	case FormatWMV:
		return []string{".wmv"}
	case FormatMPEG:
		return []string{".mpg", ".mpeg", ".mpe", ".m1v"}
	case FormatMOV:
		return []string{".mov", ".qt", ".mp4", ".m4v"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// Family is the coarse classification of a media file.
type Family int

const (
	// FamilyUnsupported is assigned to files outside every known extension set.
	FamilyUnsupported Family = iota
	// FamilyAudio covers audio-only formats.
	FamilyAudio
	// FamilyVideo covers video formats.
	FamilyVideo
	// FamilyMultiFormat covers containers that hold audio or video depending
	// on their stream declarations (ASF).
	FamilyMultiFormat
)

// String returns the lower-case family name.
func (f Family) String() string {
	switch f {
	case FamilyAudio:
		return "audio"
	case FamilyVideo:
		return "video"
	case FamilyMultiFormat:
		return "multi-format"
	default:
		return "unsupported"
	}
}

// ParseFamily maps a family name back to its value. Unknown names map to
// FamilyUnsupported.
func ParseFamily(s string) Family {
	switch s {
	case "audio":
		return FamilyAudio
	case "video":
		return FamilyVideo
	case "multi-format":
		return FamilyMultiFormat
	default:
		return FamilyUnsupported
	}
}

// MediaFile is a path together with its coarse classification.
type MediaFile struct {
	Path   string
	Ext    string // lower-case, with leading dot
	Family Family
}
