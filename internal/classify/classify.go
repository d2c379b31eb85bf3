// Package classify holds the pure predicates the dispatcher uses to place a
// file into a media family and then onto a concrete reader.
//
// Coarse predicates look only at the extension. Fine predicates look at the
// extension (audio) or the leading bytes (video). The two levels are not
// guaranteed to agree: an extension can be coarse-audio without any audio
// reader claiming it.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/simonhull/mediameta/internal/types"
)

// HeaderSize is the number of leading bytes a Probe carries.
const HeaderSize = 64

var audioExtensions = map[string]bool{
	".mp3": true, ".ogg": true, ".oga": true, ".flac": true, ".fla": true,
	".m4a": true, ".wma": true,
	// Recognized as audio, no reader.
	".wav": true, ".aif": true, ".aiff": true, ".aac": true,
}

var videoExtensions = map[string]bool{
	".avi": true, ".ogm": true, ".wmv": true,
	".mpg": true, ".mpeg": true, ".mpe": true, ".m1v": true,
	".mov": true, ".qt": true, ".mp4": true, ".m4v": true,
	// Recognized as video, no reader.
	".mkv": true, ".webm": true,
}

var multiFormatExtensions = map[string]bool{
	".asf": true, ".wm": true,
}

// Ext returns the lower-cased extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsSupportedAudioFormat reports whether ext belongs to the audio family.
func IsSupportedAudioFormat(ext string) bool {
	return audioExtensions[ext]
}

// IsSupportedVideoFormat reports whether ext belongs to the video family.
func IsSupportedVideoFormat(ext string) bool {
	return videoExtensions[ext]
}

// IsSupportedMultipleFormat reports whether ext names a container that may
// carry either audio or video.
func IsSupportedMultipleFormat(ext string) bool {
	return multiFormatExtensions[ext]
}

// Classify places path into exactly one family. The checks run in the order
// audio, video, multi-format and the first match wins.
func Classify(path string) types.MediaFile {
	ext := Ext(path)
	mf := types.MediaFile{Path: path, Ext: ext}
	switch {
	case IsSupportedAudioFormat(ext):
		mf.Family = types.FamilyAudio
	case IsSupportedVideoFormat(ext):
		mf.Family = types.FamilyVideo
	case IsSupportedMultipleFormat(ext):
		mf.Family = types.FamilyMultiFormat
	default:
		mf.Family = types.FamilyUnsupported
	}
	return mf
}

// AudioFormat maps an audio extension to its reader. ok is false for
// extensions that are coarse-audio but have no reader.
func AudioFormat(ext string) (f types.Format, ok bool) {
	switch ext {
	case ".mp3":
		return types.FormatMP3, true
	case ".ogg", ".oga":
		return types.FormatOgg, true
	case ".flac", ".fla":
		return types.FormatFLAC, true
	case ".m4a":
		return types.FormatM4A, true
	case ".wma":
		return types.FormatWMA, true
	default:
		return types.FormatUnknown, false
	}
}

// VideoFormat maps the leading bytes of a video file to its reader. The
// signatures are tried in the order RIFF/AVI, OGM, WMV, MPEG, MOV.
func VideoFormat(header []byte) (f types.Format, ok bool) {
	switch {
	case IsRIFF(header):
		return types.FormatAVI, true
	case IsOGM(header):
		return types.FormatOGM, true
	case IsASF(header):
		return types.FormatWMV, true
	case IsMPEG(header):
		return types.FormatMPEG, true
	case IsMOV(header):
		return types.FormatMOV, true
	default:
		return types.FormatUnknown, false
	}
}
