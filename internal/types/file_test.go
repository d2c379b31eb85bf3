package types

import (
	"strings"
	"testing"
	"time"
)

func TestNewFile_SetsFamily(t *testing.T) {
	f := NewFile("/music/a.wmv", FormatWMV, 1024)
	if f.Family != FamilyVideo {
		t.Errorf("Family = %v, want video", f.Family)
	}
	if f.HasVideo() {
		t.Error("HasVideo() = true before a reader filled VideoInfo")
	}
}

func TestFile_Warn(t *testing.T) {
	f := NewFile("a.mp3", FormatMP3, 10)
	f.Warn("metadata", 42, "bad frame %s", "TIT2")

	if len(f.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(f.Warnings))
	}
	if got := f.Warnings[0].String(); got != "metadata (at offset 42): bad frame TIT2" {
		t.Errorf("Warning.String() = %q", got)
	}
}

func TestAudioInfo_String(t *testing.T) {
	tests := []struct {
		name string
		info AudioInfo
		want string
	}{
		{
			name: "lossless",
			info: AudioInfo{Codec: "FLAC", SampleRate: 44100, BitDepth: 16, Channels: 2, Lossless: true},
			want: "FLAC 44.1kHz 16-bit stereo lossless",
		},
		{
			name: "vbr",
			info: AudioInfo{Codec: "MP3", SampleRate: 48000, Channels: 1, Bitrate: 192000, VBR: true},
			want: "MP3 48.0kHz mono 192kbps VBR",
		},
		{
			name: "surround",
			info: AudioInfo{Codec: "AC-3", Channels: 6},
			want: "AC-3 5.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVideoInfo_String(t *testing.T) {
	v := VideoInfo{Codec: "DIVX", Width: 640, Height: 480, FrameRate: 25, Bitrate: 1200000, Duration: time.Minute}
	if got := v.String(); got != "DIVX 640x480 25.00fps 1200kbps" {
		t.Errorf("String() = %q", got)
	}
	if (VideoInfo{}).Resolution() != "" {
		t.Error("Resolution() of zero VideoInfo should be empty")
	}
}

func TestErrors_Messages(t *testing.T) {
	rl := &ResourceLimitError{Path: "a.avi", What: "strl", Offset: 12, Length: 1 << 30, Limit: 8 << 20}
	if !strings.Contains(rl.Error(), "header guard") {
		t.Errorf("ResourceLimitError message = %q", rl.Error())
	}

	re := &ReadError{Path: "a.mp3", Op: "open", Err: errTest}
	if re.Unwrap() != errTest {
		t.Error("ReadError.Unwrap() did not return the cause")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&ResourceLimitError{}, true},
		{&ReadError{Err: errTest}, true},
		{&CorruptedFileError{}, false},
		{&OutOfBoundsError{}, false},
		{errTest, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("IsFatal(%T) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
