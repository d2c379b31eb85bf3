package mediameta_test

import (
	"testing"

	"github.com/simonhull/mediameta"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want mediameta.Family
	}{
		{"song.mp3", mediameta.FamilyAudio},
		{"SONG.FLAC", mediameta.FamilyAudio},
		{"take.wav", mediameta.FamilyAudio},
		{"clip.avi", mediameta.FamilyVideo},
		{"/movies/clip.m4v", mediameta.FamilyVideo},
		{"clip.webm", mediameta.FamilyVideo},
		{"stream.asf", mediameta.FamilyMultiFormat},
		{"stream.wm", mediameta.FamilyMultiFormat},
		{"notes.txt", mediameta.FamilyUnsupported},
		{"Makefile", mediameta.FamilyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := mediameta.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
			if got := mediameta.IsSupported(tt.path); got != (tt.want != mediameta.FamilyUnsupported) {
				t.Errorf("IsSupported(%q) = %v", tt.path, got)
			}
		})
	}
}

func TestFormatFamilies(t *testing.T) {
	audio := []mediameta.Format{
		mediameta.FormatMP3, mediameta.FormatOgg, mediameta.FormatFLAC,
		mediameta.FormatM4A, mediameta.FormatWMA,
	}
	video := []mediameta.Format{
		mediameta.FormatAVI, mediameta.FormatOGM, mediameta.FormatWMV,
		mediameta.FormatMPEG, mediameta.FormatMOV,
	}
	for _, f := range audio {
		if f.Family() != mediameta.FamilyAudio {
			t.Errorf("%v.Family() = %v, want audio", f, f.Family())
		}
	}
	for _, f := range video {
		if f.Family() != mediameta.FamilyVideo {
			t.Errorf("%v.Family() = %v, want video", f, f.Family())
		}
	}
}
