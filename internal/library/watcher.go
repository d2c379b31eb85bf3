package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/simonhull/mediameta/internal/classify"
	"github.com/simonhull/mediameta/internal/types"
)

// Watcher keeps the index in step with changes under a set of directories.
type Watcher struct {
	store   *Store
	parser  Parser
	scanner *Scanner
	watcher *fsnotify.Watcher
	logger  *zap.SugaredLogger
}

// NewWatcher creates a Watcher. scanner decides which directories are
// skipped.
func NewWatcher(store *Store, parser Parser, scanner *Scanner) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	return &Watcher{
		store:   store,
		parser:  parser,
		scanner: scanner,
		watcher: fw,
		logger:  scanner.logger,
	}, nil
}

// Add watches roots and every directory below them.
func (w *Watcher) Add(roots ...string) error {
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && w.scanner.skip(d) {
				return filepath.SkipDir
			}
			return errors.Wrapf(w.watcher.Add(path), "watch %s", path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Run handles events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	path := event.Name

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A renamed file shows up again as a Create under its new name. The
		// path may have been a directory, so its whole subtree goes.
		if err := w.store.DeleteTree(ctx, path); err != nil {
			w.logger.Warnw("Failed to drop file from index", "path", path, "error", err)
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if isDir(path) {
			if err := w.Add(path); err != nil {
				w.logger.Warnw("Failed to watch directory", "path", path, "error", err)
			}
			return
		}
		if classify.Classify(path).Family == types.FamilyUnsupported {
			return
		}
		res, err := indexPath(ctx, w.store, w.parser, path)
		if err != nil {
			w.logger.Warnw("Failed to index file", "path", path, "error", err)
			return
		}
		w.logger.Debugw("Indexed changed file", "path", path, "indexed", res == resultIndexed)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
