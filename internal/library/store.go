// Package library keeps an sqlite index of the metadata of media files under
// a set of directories.
package library

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQL driver.
	"github.com/pressly/goose"

	_ "github.com/simonhull/mediameta/internal/library/migrations" // Add migrations.
	"github.com/simonhull/mediameta/internal/log"
	"github.com/simonhull/mediameta/internal/types"
)

// ErrNotFound is returned by Get for paths that are not indexed.
var ErrNotFound = errors.New("not indexed")

// Config defines the index database.
type Config struct {
	Source string `yaml:"source" validate:"nonzero"`
}

// Entry is one indexed file.
type Entry struct {
	Path       string    `db:"path"`
	Format     string    `db:"format"`
	Family     string    `db:"family"`
	MIMEType   string    `db:"mime"`
	Size       int64     `db:"size"`
	ModTime    int64     `db:"mod_time"` // unix nanoseconds
	Title      string    `db:"title"`
	Artist     string    `db:"artist"`
	Album      string    `db:"album"`
	Genre      string    `db:"genre"`
	Year       int       `db:"year"`
	DurationMS int64     `db:"duration_ms"`
	Bitrate    int       `db:"bitrate"`
	Width      int       `db:"width"`
	Height     int       `db:"height"`
	IndexedAt  time.Time `db:"indexed_at"`
}

// Duration returns the indexed play time.
func (e Entry) Duration() time.Duration {
	return time.Duration(e.DurationMS) * time.Millisecond
}

func newEntry(f *types.File, modTime time.Time) Entry {
	e := Entry{
		Path:       f.Path,
		Format:     f.Format.String(),
		Family:     f.Family.String(),
		MIMEType:   f.MIMEType,
		Size:       f.Size,
		ModTime:    modTime.UnixNano(),
		Title:      f.Tags.Title,
		Artist:     f.Tags.Artist,
		Album:      f.Tags.Album,
		Genre:      f.Tags.Genre(),
		Year:       f.Tags.Year,
		DurationMS: f.Audio.Duration.Milliseconds(),
		Bitrate:    f.Audio.Bitrate,
	}
	if v := f.Video; v != nil {
		e.Width, e.Height = v.Width, v.Height
		if v.Duration > 0 {
			e.DurationMS = v.Duration.Milliseconds()
		}
		if v.Bitrate > 0 {
			e.Bitrate = v.Bitrate
		}
	}
	return e
}

// Store is the index database.
type Store struct {
	db *sqlx.DB
}

// New opens the index at config.Source, creating it if needed, and brings
// its schema up to date.
func New(config Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(config.Source), 0o755); err != nil {
		return nil, errors.Wrap(err, "ensure db source present")
	}
	db, err := sqlx.Open("sqlite3", config.Source)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite3")
	}
	// SQLite has concurrency issues where queries result in error if more than
	// one connection is accessing a table.
	db.SetMaxOpenConns(1)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set dialect as sqlite3")
	}
	if err := goose.Up(db.DB, "."); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "perform db migration")
	}
	return &Store{db}, nil
}

// Close closes s.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put indexes f, replacing any previous entry for its path.
func (s *Store) Put(ctx context.Context, f *types.File, modTime time.Time) error {
	e := newEntry(f, modTime)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO media (
			path, format, family, mime, size, mod_time,
			title, artist, album, genre, year,
			duration_ms, bitrate, width, height, indexed_at
		) VALUES (
			:path, :format, :family, :mime, :size, :mod_time,
			:title, :artist, :album, :genre, :year,
			:duration_ms, :bitrate, :width, :height, CURRENT_TIMESTAMP
		)
	`, e)
	return errors.Wrapf(err, "put %s", f.Path)
}

// Get returns the entry for path, or ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	var e Entry
	err := s.db.GetContext(ctx, &e, `SELECT * FROM media WHERE path=?`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "get %s", path)
	}
	return &e, nil
}

// List returns the entries of family in path order. FamilyUnsupported lists
// every entry.
func (s *Store) List(ctx context.Context, family types.Family) ([]Entry, error) {
	var entries []Entry
	var err error
	if family == types.FamilyUnsupported {
		err = s.db.SelectContext(ctx, &entries, `SELECT * FROM media ORDER BY path`)
	} else {
		err = s.db.SelectContext(ctx, &entries,
			`SELECT * FROM media WHERE family=? ORDER BY path`, family.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	return entries, nil
}

// Delete drops path from the index. Deleting a path that is not indexed is
// not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE path=?`, path)
	return errors.Wrapf(err, "delete %s", path)
}

// DeleteTree drops path and every indexed file below it. It is used when
// a path disappears and it is no longer known whether it was a directory.
func (s *Store) DeleteTree(ctx context.Context, path string) error {
	path = strings.TrimRight(path, string(filepath.Separator))
	// Entries below path sort between "path/" and "path0" ('0' follows '/').
	lo := path + string(filepath.Separator)
	hi := path + string(filepath.Separator+1)
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM media WHERE path=? OR (path>=? AND path<?)`, path, lo, hi)
	return errors.Wrapf(err, "delete tree %s", path)
}

// Stale reports whether path needs to be parsed again: it is not indexed,
// or was indexed with a different modification time.
func (s *Store) Stale(ctx context.Context, path string, modTime time.Time) (bool, error) {
	var indexed int64
	err := s.db.GetContext(ctx, &indexed, `SELECT mod_time FROM media WHERE path=?`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	} else if err != nil {
		return false, errors.Wrapf(err, "stale %s", path)
	}
	return indexed != modTime.UnixNano(), nil
}

// gooseLogger sends migration output to the debug log.
type gooseLogger struct{}

func (gooseLogger) Fatal(v ...interface{})                 { log.Default().Fatal(v...) }
func (gooseLogger) Fatalf(format string, v ...interface{}) { log.Fatalf(format, v...) }
func (gooseLogger) Print(v ...interface{})                 { log.Default().Debug(v...) }
func (gooseLogger) Println(v ...interface{})               { log.Default().Debug(v...) }
func (gooseLogger) Printf(format string, v ...interface{}) { log.Default().Debugf(format, v...) }
