package quicktime

import "strings"

// codecNames maps sample entry types to readable codec names.
var codecNames = map[string]string{
	// Audio
	"mp4a": "AAC",
	"alac": "Apple Lossless",
	"ac-3": "AC-3",
	"ec-3": "E-AC-3",
	"fLaC": "FLAC",
	"Opus": "Opus",
	".mp3": "MP3",
	"samr": "AMR",
	"sowt": "PCM",
	"twos": "PCM",
	"lpcm": "PCM",
	"ima4": "IMA ADPCM",

	// Video
	"avc1": "H.264",
	"avc3": "H.264",
	"hvc1": "HEVC",
	"hev1": "HEVC",
	"mp4v": "MPEG-4 Visual",
	"s263": "H.263",
	"jpeg": "Motion JPEG",
	"SVQ3": "Sorenson Video 3",
	"SVQ1": "Sorenson Video",
	"cvid": "Cinepak",
	"apcn": "ProRes 422",
	"apch": "ProRes 422 HQ",
	"av01": "AV1",
	"vp09": "VP9",
}

// losslessCodecs are the audio sample entries that carry lossless audio.
var losslessCodecs = map[string]bool{
	"alac": true,
	"fLaC": true,
	"sowt": true,
	"twos": true,
	"lpcm": true,
}

// codecName returns a readable name for a sample entry type, falling back
// to the trimmed four character code.
func codecName(fourCC string) string {
	if name, ok := codecNames[fourCC]; ok {
		return name
	}
	return strings.TrimSpace(fourCC)
}
