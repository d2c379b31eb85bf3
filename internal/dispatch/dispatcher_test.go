package dispatch

import (
	"io/fs"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/testutil"
	"github.com/simonhull/mediameta/internal/types"

	_ "github.com/simonhull/mediameta/internal/asf"
	_ "github.com/simonhull/mediameta/internal/flac"
	_ "github.com/simonhull/mediameta/internal/mp3"
	_ "github.com/simonhull/mediameta/internal/mpeg"
	_ "github.com/simonhull/mediameta/internal/ogg"
	_ "github.com/simonhull/mediameta/internal/quicktime"
	_ "github.com/simonhull/mediameta/internal/riff"
)

type fixture struct {
	d     *Dispatcher
	logs  *observer.ObservedLogs
	scope tally.TestScope
}

func newFixture(opts ...Option) fixture {
	core, logs := observer.New(zapcore.DebugLevel)
	scope := tally.NewTestScope("", nil)
	opts = append([]Option{WithLogger(zap.New(core).Sugar()), WithScope(scope)}, opts...)
	return fixture{d: New(opts...), logs: logs, scope: scope}
}

func (f fixture) counter(name string) int64 {
	c, ok := f.scope.Snapshot().Counters()[name]
	if !ok {
		return 0
	}
	return c.Value()
}

// failOpener fails the test when the dispatcher tries to open a file.
func failOpener(t *testing.T) Opener {
	return func(path string) (Source, error) {
		t.Errorf("unexpected open of %s", path)
		return nil, errors.New("unexpected open")
	}
}

func TestParseAudioByExtension(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format types.Format
	}{
		{"song.mp3", testutil.MP3Frames(50), types.FormatMP3},
		{"song.ogg", testutil.OggVorbis(44100, 44100*3), types.FormatOgg},
		{"song.FLAC", testutil.FLAC(44100, 44100*2), types.FormatFLAC},
		{"song.m4a", testutil.M4A(180, 4500), types.FormatM4A},
		{"song.wma", testutil.WMA("Title", "Artist"), types.FormatWMA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			f := newFixture()

			path := testutil.WriteFile(t, tt.name, tt.data)
			file, err := f.d.Parse(path)
			require.NoError(err)
			require.NotNil(file)
			require.Equal(tt.format, file.Format)
			require.Equal(types.FamilyAudio, file.Family)
			require.Nil(file.Video)
			require.Equal(path, file.Path)
			require.EqualValues(1, f.counter("parse+format="+tt.format.String()+",outcome=found"))
		})
	}
}

func TestParseVideoBySignature(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format types.Format
	}{
		{"clip.avi", testutil.AVI(250, 1000), types.FormatAVI},
		{"clip.ogm", testutil.OGM(250), types.FormatOGM},
		{"clip.wmv", testutil.WMV("Clip"), types.FormatWMV},
		{"clip.mpg", testutil.MPEGProgram(12, false), types.FormatMPEG},
		{"clip.mov", testutil.MOV(10, 25, 1000), types.FormatMOV},
		// The signature decides, not the extension.
		{"mislabelled.mp4", testutil.AVI(250, 1000), types.FormatAVI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			f := newFixture()

			file, err := f.d.Parse(testutil.WriteFile(t, tt.name, tt.data))
			require.NoError(err)
			require.NotNil(file)
			require.Equal(tt.format, file.Format)
			require.Equal(types.FamilyVideo, file.Family)
		})
	}
}

func TestParseVideoWithoutSignatureIsAbsent(t *testing.T) {
	f := newFixture()
	file, err := f.d.Parse(testutil.WriteFile(t, "clip.mkv", []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0}))
	require.NoError(t, err)
	require.Nil(t, file)
	require.EqualValues(t, 1, f.counter("parse+format=none,outcome=absent"))
}

func TestParseMultiFormat(t *testing.T) {
	noStreams := testutil.ASF(testutil.ASFFileProperties(130_000_000, 3000, 128000))

	tests := []struct {
		desc   string
		data   []byte
		format types.Format
	}{
		{"video stream declared", testutil.WMV("Clip"), types.FormatWMV},
		{"audio stream only", testutil.WMA("Song", "Band"), types.FormatWMA},
		{"no streams", noStreams, types.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			require := require.New(t)
			f := newFixture()

			file, err := f.d.Parse(testutil.WriteFile(t, "stream.asf", tt.data))
			require.NoError(err)
			if tt.format == types.FormatUnknown {
				require.Nil(file)
				return
			}
			require.NotNil(file)
			require.Equal(tt.format, file.Format)
			require.Equal(tt.format.Family(), file.Family)
		})
	}
}

func TestParseUnknownExtensionNeverOpens(t *testing.T) {
	require := require.New(t)

	var lookups int
	f := newFixture(
		WithOpener(failOpener(t)),
		WithLookup(func(types.Format) registry.FormatParser {
			lookups++
			return nil
		}),
	)

	for _, path := range []string{"notes.txt", "archive.zip", "noext"} {
		file, err := f.d.Parse(path)
		require.NoError(err)
		require.Nil(file)
	}
	require.Zero(lookups)
	require.EqualValues(3, f.counter("parse+format=none,outcome=absent"))
}

func TestParseCoarseAudioWithoutReader(t *testing.T) {
	f := newFixture(WithOpener(failOpener(t)))

	for _, path := range []string{"take.wav", "take.aiff", "take.aac"} {
		file, err := f.d.Parse(path)
		require.NoError(t, err)
		require.Nil(t, file, path)
	}
}

func TestParseResourceExhaustionIsAbsent(t *testing.T) {
	require := require.New(t)

	exhausted := registry.ParserFunc(func(sr *binary.SafeReader) (*types.File, error) {
		return nil, &types.ResourceLimitError{Path: sr.Path(), What: "frame", Length: 1 << 30, Limit: sr.Guard()}
	})
	f := newFixture(WithLookup(func(types.Format) registry.FormatParser { return exhausted }))

	path := testutil.WriteFile(t, "song.mp3", testutil.MP3Frames(2))
	o, err := f.d.Dispatch(path)
	require.NoError(err)
	require.True(o.Absent())
	require.Equal(types.FormatMP3, o.Format)

	var rl *types.ResourceLimitError
	require.True(errors.As(o.Cause, &rl))

	warns := f.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(warns, 1)
	require.Equal(path, warns[0].ContextMap()["path"])
	require.EqualValues(1, f.counter("absorbed+reason=resource_limit"))
}

func TestParseDeclaredID3SizeOverGuard(t *testing.T) {
	require := require.New(t)
	f := newFixture(WithGuard(64 << 10))

	data := testutil.Concat(testutil.ID3v2Header(3, 0, 1<<20), testutil.MP3Frames(10))
	file, err := f.d.Parse(testutil.WriteFile(t, "big-tag.mp3", data))
	require.NoError(err)
	require.Nil(file)
	require.Equal(1, f.logs.FilterMessage("Header guard exceeded, skipping file").Len())
}

func TestParsePermissionDenied(t *testing.T) {
	require := require.New(t)

	f := newFixture(WithOpener(func(path string) (Source, error) {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}))

	file, err := f.d.Parse("/music/locked.flac")
	require.Nil(file)
	require.Error(err)

	var re *types.ReadError
	require.True(errors.As(err, &re))
	require.Equal("open", re.Op)
	require.True(errors.Is(err, fs.ErrPermission))
	require.EqualValues(1, f.counter("parse+format=none,outcome=failed"))
}

type failingSource struct {
	*os.File
}

var errDisk = errors.New("input/output error")

func (failingSource) ReadAt([]byte, int64) (int, error) {
	return 0, errDisk
}

func TestParseReadFailurePropagates(t *testing.T) {
	require := require.New(t)

	path := testutil.WriteFile(t, "song.mp3", testutil.MP3Frames(4))
	f := newFixture(WithOpener(func(path string) (Source, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return failingSource{file}, nil
	}))

	file, err := f.d.Parse(path)
	require.Nil(file)

	var re *types.ReadError
	require.True(errors.As(err, &re), "got %v", err)
	require.True(errors.Is(err, errDisk))
}

func TestParseMalformedIsAbsent(t *testing.T) {
	require := require.New(t)
	f := newFixture()

	o, err := f.d.Dispatch(testutil.WriteFile(t, "broken.flac", []byte("not a flac stream at all")))
	require.NoError(err)
	require.True(o.Absent())

	var cf *types.CorruptedFileError
	require.True(errors.As(o.Cause, &cf))
	require.Equal(1, f.logs.FilterMessage("Malformed file").Len())
	require.EqualValues(1, f.counter("absorbed+reason=malformed"))
}

func TestParseReaderPanicIsAbsent(t *testing.T) {
	require := require.New(t)

	f := newFixture(WithLookup(func(types.Format) registry.FormatParser {
		return registry.ParserFunc(func(*binary.SafeReader) (*types.File, error) {
			panic("index out of range")
		})
	}))

	file, err := f.d.Parse(testutil.WriteFile(t, "song.ogg", testutil.OggVorbis(44100, 44100)))
	require.NoError(err)
	require.Nil(file)

	errs := f.logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(errs, 1)
	require.Equal("Reader panicked", errs[0].Message)
}

func TestParseMissingReaderIsAbsent(t *testing.T) {
	f := newFixture(WithLookup(func(types.Format) registry.FormatParser { return nil }))

	o, err := f.d.Dispatch(testutil.WriteFile(t, "song.mp3", testutil.MP3Frames(2)))
	require.NoError(t, err)
	require.True(t, o.Absent())

	var uf *types.UnsupportedFormatError
	require.True(t, errors.As(o.Cause, &uf))
}

func TestParseReturnsFreshFiles(t *testing.T) {
	require := require.New(t)
	f := newFixture()

	path := testutil.WriteFile(t, "clip.wmv", testutil.WMV("Clip"))
	first, err := f.d.Parse(path)
	require.NoError(err)
	second, err := f.d.Parse(path)
	require.NoError(err)

	require.NotSame(first, second)
	first.Tags.Title = "changed"
	first.Warnings = append(first.Warnings, types.Warning{Stage: "test"})
	assert.Equal(t, "Clip", second.Tags.Title)
	assert.Empty(t, second.Warnings)
}

func TestParseFillsMIMEType(t *testing.T) {
	f := newFixture()

	file, err := f.d.Parse(testutil.WriteFile(t, "song.mp3", testutil.MP3Frames(20)))
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "audio/mpeg", file.MIMEType)
}

func TestParseRecordsLatency(t *testing.T) {
	f := newFixture()

	_, err := f.d.Parse("readme.md")
	require.NoError(t, err)
	_, ok := f.scope.Snapshot().Timers()["parse_latency+"]
	require.True(t, ok)
}

func TestParseHostileStructureIsAbsent(t *testing.T) {
	fp := testutil.ASFFileProperties(10_000_000, 0, 64000)
	trak := testutil.Trak("vide", 320, 240, 2500, 25000, 250, testutil.VideoEntry("avc1", 320, 240))

	tests := []struct {
		name string
		data []byte
	}{
		{"nested.avi", testutil.RIFFAVI(testutil.NestedLists("hdrl", 200_000, testutil.Avih(40000, 25, 640, 480)))},
		{"nested.mov", testutil.Concat(
			testutil.Ftyp("qt  ", "qt  "),
			testutil.Box("moov", testutil.Mvhd(600, 6000), testutil.NestedBoxes("trak", 50_000, trak)),
		)},
		{"nested.m4a", testutil.Concat(
			testutil.Ftyp("M4A ", "M4A "),
			testutil.Box("moov", testutil.Mvhd(600, 6000), testutil.NestedBoxes("udta", 50_000, nil)),
		)},
		{"huge.wma", testutil.ASF(testutil.ASFObjectSized(testutil.ASFContentDescriptionGUID, 0x7FFFFFFFFFFFFFF0), fp)},
		{"huge.asf", testutil.ASF(testutil.ASFObjectSized(testutil.ASFStreamPropertiesGUID, 0x7FFFFFFFFFFFFFF0), fp)},
		{"wrapped.wmv", testutil.ASFHeader(0xFFFFFFFFFFFFFFF0, 0xFFFFFFFF, fp)},
		{"countless.asf", testutil.ASFHeader(30, 0xFFFFFFFF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			file, err := f.d.Parse(testutil.WriteFile(t, tt.name, tt.data))
			require.NoError(t, err)
			require.Nil(t, file)
			require.EqualValues(t, 1, f.counter("absorbed+reason=malformed"))
		})
	}
}
