package mediameta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simonhull/mediameta"
	"github.com/simonhull/mediameta/internal/testutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format mediameta.Format
	}{
		{"song.mp3", testutil.Concat(testutil.ID3v2Tag(3, testutil.ID3v2Text(3, "TIT2", "Title")), testutil.MP3Frames(40)), mediameta.FormatMP3},
		{"song.ogg", testutil.OggVorbis(44100, 44100*3, "TITLE=Title"), mediameta.FormatOgg},
		{"song.flac", testutil.FLAC(44100, 44100*2, "TITLE=Title"), mediameta.FormatFLAC},
		{"song.m4a", testutil.M4A(180, 4500, testutil.ItunesText("\xa9nam", "Title")), mediameta.FormatM4A},
		{"song.wma", testutil.WMA("Title", "Artist"), mediameta.FormatWMA},
		{"clip.avi", testutil.AVI(250, 1000, "INAM", "Title"), mediameta.FormatAVI},
		{"clip.ogm", testutil.OGM(250, "TITLE=Title"), mediameta.FormatOGM},
		{"clip.wmv", testutil.WMV("Title"), mediameta.FormatWMV},
		{"clip.mov", testutil.MOV(10, 25, 1000), mediameta.FormatMOV},
		{"clip.mpg", testutil.MPEGProgram(12, true), mediameta.FormatMPEG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			file, err := mediameta.Parse(testutil.WriteFile(t, tt.name, tt.data))
			require.NoError(err)
			require.NotNil(file)
			require.Equal(tt.format, file.Format)
			require.Equal(tt.format.Family(), file.Family)
			require.Equal(tt.format.Family() == mediameta.FamilyVideo, file.Video != nil)
			if tt.format != mediameta.FormatMOV && tt.format != mediameta.FormatMPEG {
				require.Equal("Title", file.Tags.Title)
			}
		})
	}
}

func TestParse_Absent(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}

	tests := []struct {
		desc string
		path string
	}{
		{"unknown extension", write("notes.txt", []byte("hello"))},
		{"unknown extension, missing file", filepath.Join(dir, "missing.txt")},
		{"audio extension without reader", write("take.wav", []byte("RIFF\x00\x00\x00\x00WAVE"))},
		{"audio extension without reader, missing file", filepath.Join(dir, "missing.aiff")},
		{"matroska", write("clip.mkv", []byte{0x1A, 0x45, 0xDF, 0xA3})},
		{"malformed flac", write("broken.flac", []byte("fLaX"))},
		{"empty mp3", write("empty.mp3", nil)},
		{"asf without streams", write("bare.asf", testutil.ASF(testutil.ASFFileProperties(1, 0, 0)))},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			file, err := mediameta.Parse(tt.path)
			require.NoError(t, err)
			require.Nil(t, file)
		})
	}
}

func TestParse_MissingFileIsReadError(t *testing.T) {
	_, err := mediameta.Parse(filepath.Join(t.TempDir(), "gone.mp3"))
	require.Error(t, err)
	require.True(t, mediameta.IsReadError(err))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	path := testutil.WriteFile(t, "locked.mp3", testutil.MP3Frames(10))
	require.NoError(t, os.Chmod(path, 0))

	file, err := mediameta.Parse(path)
	require.Nil(t, file)
	require.True(t, mediameta.IsReadError(err))
	require.True(t, errors.Is(err, os.ErrPermission))
}

func TestParse_HeaderGuard(t *testing.T) {
	require := require.New(t)

	core, logs := observer.New(zapcore.WarnLevel)
	scope := tally.NewTestScope("", nil)
	data := testutil.Concat(testutil.ID3v2Header(3, 0, 1<<20), testutil.MP3Frames(10))
	path := testutil.WriteFile(t, "big-tag.mp3", data)

	file, err := mediameta.Parse(path,
		mediameta.WithHeaderGuard(64*datasize.KB),
		mediameta.WithLogger(zap.New(core).Sugar()),
		mediameta.WithMetrics(scope),
	)
	require.NoError(err)
	require.Nil(file)
	require.Equal(1, logs.Len())
	require.EqualValues(1, scope.Snapshot().Counters()["absorbed+reason=resource_limit"].Value())

	_, err = mediameta.Open(path, mediameta.WithHeaderGuard(64*datasize.KB))
	var rl *mediameta.ResourceLimitError
	require.True(errors.As(err, &rl))
	require.EqualValues(64<<10, rl.Limit)
}

func TestOpen_Unsupported(t *testing.T) {
	tests := []struct {
		desc   string
		name   string
		data   []byte
		reason string
	}{
		{"unknown extension", "notes.txt", []byte("x"), "unknown file extension"},
		{"audio without reader", "take.wav", []byte("RIFF"), "no audio reader matched"},
		{"video without signature", "clip.webm", []byte{0x1A, 0x45, 0xDF, 0xA3}, "no video reader matched"},
		{"asf without streams", "bare.asf", testutil.ASF(testutil.ASFFileProperties(1, 0, 0)), "no audio or video stream"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := mediameta.Open(testutil.WriteFile(t, tt.name, tt.data))
			var uf *mediameta.UnsupportedFormatError
			require.True(t, errors.As(err, &uf), "got %v", err)
			assert.Contains(t, uf.Reason, tt.reason)
		})
	}
}

func TestOpen_Malformed(t *testing.T) {
	_, err := mediameta.Open(testutil.WriteFile(t, "broken.flac", []byte("fLaX and more")))
	var cf *mediameta.CorruptedFileError
	require.True(t, errors.As(err, &cf), "got %v", err)
}

// mp3WithWarning has an ID3v2 header of an unknown version, which costs
// the tag but not the file.
func mp3WithWarning() []byte {
	return testutil.Concat(
		testutil.ID3v2Header(9, 0, 0),
		testutil.MP3Frames(20),
		testutil.ID3v1("Fallback", "Artist", "Album", "2001", "", 1, 17),
	)
}

func TestOpen_StrictParsing(t *testing.T) {
	require := require.New(t)
	path := testutil.WriteFile(t, "warn.mp3", mp3WithWarning())

	file, err := mediameta.Open(path)
	require.NoError(err)
	require.NotEmpty(file.Warnings)
	require.Equal("Fallback", file.Tags.Title)

	_, err = mediameta.Open(path, mediameta.WithStrictParsing())
	require.True(errors.Is(err, mediameta.ErrStrictParsing))

	// Parse does not know strict mode.
	file, err = mediameta.Parse(path, mediameta.WithStrictParsing())
	require.NoError(err)
	require.NotNil(file)
}

func TestWithIgnoreWarnings(t *testing.T) {
	path := testutil.WriteFile(t, "warn.mp3", mp3WithWarning())

	file, err := mediameta.Parse(path, mediameta.WithIgnoreWarnings())
	require.NoError(t, err)
	require.NotNil(t, file)
	require.Empty(t, file.Warnings)
}
