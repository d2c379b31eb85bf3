package library

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/simonhull/mediameta/internal/types"
)

// Parser turns a path into a metadata handle, or nil when the file is not
// supported. *dispatch.Dispatcher implements it.
type Parser interface {
	Parse(path string) (*types.File, error)
}

type result int

const (
	resultIndexed result = iota
	resultUnchanged
	resultAbsent
)

// index brings the entry for path up to date. Files that stopped being
// supported are dropped from the index.
func index(ctx context.Context, store *Store, parser Parser, path string, modTime time.Time, force bool) (result, error) {
	if !force {
		stale, err := store.Stale(ctx, path, modTime)
		if err != nil {
			return 0, err
		}
		if !stale {
			return resultUnchanged, nil
		}
	}

	file, err := parser.Parse(path)
	if err != nil {
		return 0, err
	}
	if file == nil {
		return resultAbsent, store.Delete(ctx, path)
	}
	return resultIndexed, store.Put(ctx, file, modTime)
}

// indexPath is index for a path whose modification time is not known yet.
// A path that no longer exists is removed from the index.
func indexPath(ctx context.Context, store *Store, parser Parser, path string) (result, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return resultAbsent, store.Delete(ctx, path)
	} else if err != nil {
		return 0, &types.ReadError{Path: path, Op: "stat", Err: err}
	}
	if info.IsDir() {
		return resultAbsent, nil
	}
	return index(ctx, store, parser, path, info.ModTime(), false)
}
