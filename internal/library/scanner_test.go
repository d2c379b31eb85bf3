package library

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simonhull/mediameta/internal/dispatch"
	"github.com/simonhull/mediameta/internal/testutil"
	"github.com/simonhull/mediameta/internal/types"

	_ "github.com/simonhull/mediameta/internal/flac"
	_ "github.com/simonhull/mediameta/internal/mp3"
	_ "github.com/simonhull/mediameta/internal/riff"
)

// ignoreStore skips the connection goroutine of a store closed by
// t.Cleanup, which runs after deferred leak checks.
var ignoreStore = goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener")

// tree writes files relative to a fresh root and returns the root.
func tree(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return root
}

func mediaTree(t *testing.T) string {
	return tree(t, map[string][]byte{
		"a.mp3":           testutil.MP3Frames(20),
		"albums/b.flac":   testutil.FLAC(44100, 44100, "TITLE=B"),
		"albums/clip.avi": testutil.AVI(100, 500, "INAM", "Clip"),
		"take.wav":        []byte("RIFF\x00\x00\x00\x00WAVE"),
		"broken.flac":     []byte("garbage"),
		"notes.txt":       []byte("not media"),
		".hidden/c.mp3":   testutil.MP3Frames(5),
		".d.mp3":          testutil.MP3Frames(5),
		"@eaDir/d.mp3":    testutil.MP3Frames(5),
	})
}

func TestScan(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	root := mediaTree(t)
	store := newTestStore(t)
	scope := tally.NewTestScope("", nil)
	var progress bytes.Buffer
	scanner := NewScanner(store, dispatch.New(), ScanConfig{Exclude: []string{"@eaDir"}, Concurrency: 2},
		WithProgress(&progress), WithScannerScope(scope))

	stats, err := scanner.Scan(ctx, root)
	require.NoError(err)
	require.Equal(Stats{Seen: 5, Indexed: 3, Absent: 2}, stats)
	require.EqualValues(3, scope.Snapshot().Counters()["scan_indexed+"].Value())

	entries, err := store.List(ctx, types.FamilyUnsupported)
	require.NoError(err)
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	require.Equal([]string{
		filepath.Join(root, "a.mp3"),
		filepath.Join(root, "albums/b.flac"),
		filepath.Join(root, "albums/clip.avi"),
	}, paths)

	clip, err := store.Get(ctx, filepath.Join(root, "albums/clip.avi"))
	require.NoError(err)
	require.Equal("Clip", clip.Title)
	require.Equal("video", clip.Family)
}

func TestScanSkipsUnchanged(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	root := mediaTree(t)
	store := newTestStore(t)
	scanner := NewScanner(store, dispatch.New(), ScanConfig{Exclude: []string{"@eaDir"}})

	_, err := scanner.Scan(ctx, root)
	require.NoError(err)

	stats, err := scanner.Scan(ctx, root)
	require.NoError(err)
	require.Equal(Stats{Seen: 5, Unchanged: 3, Absent: 2}, stats)

	forced := NewScanner(store, dispatch.New(), ScanConfig{Exclude: []string{"@eaDir"}, Force: true})
	stats, err = forced.Scan(ctx, root)
	require.NoError(err)
	require.Equal(3, stats.Indexed)
}

func TestScanDropsFilesThatBecameUnsupported(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	root := tree(t, map[string][]byte{"a.flac": testutil.FLAC(44100, 44100)})
	path := filepath.Join(root, "a.flac")
	store := newTestStore(t)
	scanner := NewScanner(store, dispatch.New(), ScanConfig{})

	_, err := scanner.Scan(ctx, root)
	require.NoError(err)

	require.NoError(os.WriteFile(path, []byte("truncated"), 0o644))
	stats, err := scanner.Scan(ctx, root)
	require.NoError(err)
	require.Equal(1, stats.Absent)

	_, err = store.Get(ctx, path)
	require.ErrorIs(err, ErrNotFound)
}

type failingParser struct {
	Parser
	fail string
}

func (p failingParser) Parse(path string) (*types.File, error) {
	if filepath.Base(path) == p.fail {
		return nil, &types.ReadError{Path: path, Op: "read", Err: os.ErrPermission}
	}
	return p.Parser.Parse(path)
}

func TestScanAggregatesReadErrors(t *testing.T) {
	require := require.New(t)
	defer goleak.VerifyNone(t, ignoreStore)

	root := tree(t, map[string][]byte{
		"a.mp3":  testutil.MP3Frames(10),
		"b.mp3":  testutil.MP3Frames(10),
		"c.flac": testutil.FLAC(44100, 44100),
	})
	store := newTestStore(t)
	scanner := NewScanner(store, failingParser{Parser: dispatch.New(), fail: "b.mp3"}, ScanConfig{})

	stats, err := scanner.Scan(context.Background(), root)
	require.Error(err)
	require.Equal(Stats{Seen: 3, Indexed: 2, Failed: 1}, stats)

	var merr *multierror.Error
	require.True(errors.As(err, &merr))
	require.Len(merr.Errors, 1)
	require.True(errors.Is(err, os.ErrPermission))
}

func TestScanMissingRoot(t *testing.T) {
	store := newTestStore(t)
	scanner := NewScanner(store, dispatch.New(), ScanConfig{})

	_, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	var re *types.ReadError
	require.True(t, errors.As(err, &re))
	require.Equal(t, "walk", re.Op)
}

func TestScanCancelled(t *testing.T) {
	store := newTestStore(t)
	scanner := NewScanner(store, dispatch.New(), ScanConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scanner.Scan(ctx, mediaTree(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanVisitSkipsUnreadableEntries(t *testing.T) {
	require := require.New(t)

	root := mediaTree(t)
	core, logs := observer.New(zapcore.WarnLevel)
	scanner := NewScanner(newTestStore(t), dispatch.New(), ScanConfig{},
		WithScannerLogger(zap.New(core).Sugar()))

	entry := func(path string) fs.DirEntry {
		info, err := os.Lstat(path)
		require.NoError(err)
		return fs.FileInfoToDirEntry(info)
	}

	albums := filepath.Join(root, "albums")
	j, err := scanner.visit(root, albums, entry(albums), fs.ErrPermission)
	require.ErrorIs(err, filepath.SkipDir)
	require.Nil(j)

	song := filepath.Join(root, "a.mp3")
	j, err = scanner.visit(root, song, entry(song), fs.ErrPermission)
	require.NoError(err)
	require.Nil(j)

	require.Equal(2, logs.FilterMessage("Skipping unreadable path").Len())

	// The root itself still fails.
	_, err = scanner.visit(root, root, nil, fs.ErrNotExist)
	require.ErrorIs(err, fs.ErrNotExist)

	j, err = scanner.visit(root, song, entry(song), nil)
	require.NoError(err)
	require.Equal(song, j.path)
}

func TestScanUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not apply to root")
	}
	require := require.New(t)

	root := mediaTree(t)
	locked := filepath.Join(root, "locked")
	require.NoError(os.Mkdir(locked, 0o755))
	require.NoError(os.WriteFile(filepath.Join(locked, "e.mp3"), testutil.MP3Frames(5), 0o644))
	require.NoError(os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	scanner := NewScanner(newTestStore(t), dispatch.New(), ScanConfig{Exclude: []string{"@eaDir"}})
	stats, err := scanner.Scan(context.Background(), root)
	require.NoError(err)
	require.Equal(Stats{Seen: 5, Indexed: 3, Absent: 2}, stats)
}
