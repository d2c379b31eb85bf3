package asf

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/testutil"
	"github.com/simonhull/mediameta/internal/types"
)

func reader(data []byte, name string) *binary.SafeReader {
	return binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), name)
}

func TestParse_WMA(t *testing.T) {
	data := testutil.WMA("Song Title", "Song Artist",
		testutil.ASFStringDescriptor("WM/AlbumTitle", "The Album"),
		testutil.ASFStringDescriptor("WM/Genre", "Rock"),
		testutil.ASFStringDescriptor("WM/Year", "2004"),
		testutil.ASFDWordDescriptor("WM/TrackNumber", 7),
	)

	file, err := (&parser{format: types.FormatWMA}).Parse(reader(data, "song.wma"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if file.Format != types.FormatWMA || file.Family != types.FamilyAudio {
		t.Errorf("expected WMA/audio, got %v/%v", file.Format, file.Family)
	}
	if file.Tags.Title != "Song Title" || file.Tags.Artist != "Song Artist" || file.Tags.Album != "The Album" {
		t.Errorf("unexpected tags: %+v", file.Tags)
	}
	if file.Tags.Genre() != "Rock" || file.Tags.Year != 2004 || file.Tags.TrackNumber != 7 {
		t.Errorf("unexpected tags: %+v", file.Tags)
	}
	if got := file.Tags.GetFirst("WM/AlbumTitle"); got != "The Album" {
		t.Errorf("expected raw WM/AlbumTitle, got %q", got)
	}

	audio := file.Audio
	if audio.Codec != "WMA" || audio.Container != "ASF" {
		t.Errorf("expected WMA in ASF, got %s in %s", audio.Codec, audio.Container)
	}
	if audio.Duration != 30*time.Second {
		t.Errorf("expected 30s without preroll, got %v", audio.Duration)
	}
	if audio.SampleRate != 44100 || audio.Channels != 2 || audio.BitDepth != 16 || audio.Bitrate != 128000 {
		t.Errorf("unexpected audio info: %+v", audio)
	}
	if file.Video != nil {
		t.Error("WMA must not carry video info")
	}
}

func TestParse_WMV(t *testing.T) {
	file, err := (&parser{format: types.FormatWMV}).Parse(reader(testutil.WMV("Clip"), "clip.wmv"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if file.Format != types.FormatWMV || file.Family != types.FamilyVideo {
		t.Errorf("expected WMV/video, got %v/%v", file.Format, file.Family)
	}
	if file.Video == nil {
		t.Fatal("expected video info")
	}
	v := file.Video
	if v.Codec != "WMV3" || v.Width != 640 || v.Height != 480 {
		t.Errorf("unexpected video info: %+v", v)
	}
	if v.FrameRate != 25 || v.Bitrate != 1_000_000 || v.Duration != 10*time.Second {
		t.Errorf("unexpected video timing: %+v", v)
	}
	if file.Audio.Codec != "WMA" {
		t.Errorf("expected WMA audio stream, got %q", file.Audio.Codec)
	}
	if file.Tags.Title != "Clip" {
		t.Errorf("expected title, got %q", file.Tags.Title)
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantVideo bool
		wantAudio bool
	}{
		{"audio only", testutil.WMA("a", "b"), false, true},
		{"video and audio", testutil.WMV("c"), true, true},
		{"no streams", testutil.ASF(testutil.ASFFileProperties(10_000_000, 0, 0)), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := inspector{}.Inspect(reader(tt.data, "x.asf"))
			if err != nil {
				t.Fatalf("Inspect failed: %v", err)
			}
			if c.HasVideo() != tt.wantVideo || c.HasAudio() != tt.wantAudio {
				t.Errorf("HasVideo=%v HasAudio=%v, want %v %v", c.HasVideo(), c.HasAudio(), tt.wantVideo, tt.wantAudio)
			}
		})
	}
}

func TestBuild_IndependentFiles(t *testing.T) {
	c, err := inspector{}.Inspect(reader(testutil.WMA("Same", "Artist"), "x.asf"))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	a := c.Build(types.FormatWMA)
	b := c.Build(types.FormatWMA)
	a.Tags.Set("Title", "changed")
	if b.Tags.GetFirst("Title") != "Same" {
		t.Error("files built from one header must not share tag storage")
	}
}

func TestParse_HeaderExtensionMetadata(t *testing.T) {
	data := testutil.ASF(
		testutil.ASFFileProperties(10_000_000, 0, 64000),
		testutil.ASFAudioStream(1, 0x0163, 2, 48000, 8000, 24),
		testutil.ASFHeaderExtension(testutil.ASFMetadata("WM/Composer", "Someone", "WM/Publisher", "Label")),
	)

	file, err := (&parser{format: types.FormatWMA}).Parse(reader(data, "meta.wma"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(file.Tags.Composers) != 1 || file.Tags.Composers[0] != "Someone" || file.Tags.Publisher != "Label" {
		t.Errorf("unexpected tags: %+v", file.Tags)
	}
	if !file.Audio.Lossless || file.Audio.Codec != "WMA Lossless" {
		t.Errorf("expected lossless WMA, got %+v", file.Audio)
	}
}

func TestParse_NotASF(t *testing.T) {
	_, err := (&parser{format: types.FormatWMA}).Parse(reader(make([]byte, 64), "zero.wma"))
	var ce *types.CorruptedFileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CorruptedFileError, got %T (%v)", err, err)
	}
}

func TestParse_MissingFileProperties(t *testing.T) {
	data := testutil.ASF(testutil.ASFAudioStream(1, 0x0161, 2, 44100, 16000, 16))
	_, err := (&parser{format: types.FormatWMA}).Parse(reader(data, "nofp.wma"))
	var ce *types.CorruptedFileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CorruptedFileError, got %T (%v)", err, err)
	}
}

func TestParse_TruncatedObjectWarns(t *testing.T) {
	data := testutil.WMA("Kept", "Artist", testutil.ASFStringDescriptor("WM/Genre", "Pop"))
	// Drop the trailing packet bytes and half of the extended content object.
	data = data[:len(data)-128-10]

	file, err := (&parser{format: types.FormatWMA}).Parse(reader(data, "cut.wma"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if file.Tags.Title != "Kept" {
		t.Errorf("expected title from content description, got %q", file.Tags.Title)
	}
	if len(file.Warnings) == 0 {
		t.Error("expected a warning for the cut object")
	}
}

func TestParse_ObjectOverGuard(t *testing.T) {
	data := testutil.WMA("t", "a", testutil.ASFStringDescriptor("WM/Lyrics", string(bytes.Repeat([]byte("la"), 1024))))
	_, err := (&parser{format: types.FormatWMA}).Parse(reader(data, "big.wma").WithGuard(1024))
	var rl *types.ResourceLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected *ResourceLimitError, got %T (%v)", err, err)
	}
}

func TestReadGUID(t *testing.T) {
	if got := readGUID(testutil.ASFGUID(testutil.ASFHeaderGUID)); got != guidHeader {
		t.Errorf("readGUID() = %s, want %s", got, guidHeader)
	}
	disk := testutil.ASFGUID(testutil.ASFHeaderGUID)
	want := []byte{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}
	if !bytes.Equal(disk, want) {
		t.Errorf("on-disk header GUID = % X", disk)
	}
}

func TestParse_HostileSizes(t *testing.T) {
	fp := testutil.ASFFileProperties(10_000_000, 0, 64000)
	audio := testutil.ASFAudioStream(1, 0x0161, 2, 44100, 16000, 16)

	tests := []struct {
		name     string
		data     []byte
		wantFile bool
	}{
		{"object size near MaxInt64 before file properties",
			testutil.ASF(testutil.ASFObjectSized(testutil.ASFContentDescriptionGUID, 0x7FFFFFFFFFFFFFF0), fp),
			false},
		{"object size near MaxInt64 after file properties",
			testutil.ASF(fp, audio, testutil.ASFObjectSized(testutil.ASFContentDescriptionGUID, 0x7FFFFFFFFFFFFFF0)),
			true},
		{"object size wrapping negative",
			testutil.ASF(testutil.ASFObjectSized(testutil.ASFStreamPropertiesGUID, 0xFFFFFFFFFFFFFFF0), fp),
			false},
		{"header size near MaxUint64",
			testutil.ASFHeader(0xFFFFFFFFFFFFFFF0, 2, fp, audio),
			false},
		{"header size near MaxInt64",
			testutil.ASFHeader(0x7FFFFFFFFFFFFFF0, 2, fp, audio),
			true},
		{"object count 0xFFFFFFFF",
			testutil.ASFHeader(uint64(30+len(fp)+len(audio)), 0xFFFFFFFF, fp, audio),
			true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := (&parser{format: types.FormatWMA}).Parse(reader(tt.data, "hostile.wma"))
			if !tt.wantFile {
				var ce *types.CorruptedFileError
				if !errors.As(err, &ce) {
					t.Fatalf("expected *CorruptedFileError, got %T (%v)", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if file.Audio.Codec != "WMA" {
				t.Errorf("expected the audio stream to be read, got %+v", file.Audio)
			}
		})
	}
}
