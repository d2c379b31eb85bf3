package library

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"github.com/uber-go/tally"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mediameta/internal/classify"
	"github.com/simonhull/mediameta/internal/log"
	"github.com/simonhull/mediameta/internal/types"
)

// ScanConfig defines how directories are walked.
type ScanConfig struct {
	// Exclude lists directory names that are never entered.
	Exclude []string `yaml:"exclude"`
	// Concurrency caps the number of files parsed at once. Zero means
	// runtime.NumCPU().
	Concurrency int `yaml:"concurrency" validate:"min=0"`
	// Force parses every file even when its modification time is unchanged.
	Force bool `yaml:"force"`
}

func (c ScanConfig) applyDefaults() ScanConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	return c
}

// Stats counts what a scan did.
type Stats struct {
	Seen      int // media files found by the walk
	Indexed   int
	Unchanged int
	Absent    int // recognized by extension, but no reader produced a handle
	Failed    int
}

// Scanner walks directories and indexes the media files in them.
type Scanner struct {
	store    *Store
	parser   Parser
	config   ScanConfig
	logger   *zap.SugaredLogger
	scope    tally.Scope
	progress io.Writer
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithProgress draws a progress bar on w while files are parsed.
func WithProgress(w io.Writer) ScannerOption {
	return func(s *Scanner) { s.progress = w }
}

// WithScannerLogger sets the logger. Without it the global logger is used.
func WithScannerLogger(l *zap.SugaredLogger) ScannerOption {
	return func(s *Scanner) { s.logger = l }
}

// WithScannerScope sets the metrics scope.
func WithScannerScope(scope tally.Scope) ScannerOption {
	return func(s *Scanner) { s.scope = scope }
}

// NewScanner creates a new Scanner.
func NewScanner(store *Store, parser Parser, config ScanConfig, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		store:  store,
		parser: parser,
		config: config.applyDefaults(),
		scope:  tally.NoopScope,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

type job struct {
	path    string
	modTime time.Time
}

// Scan indexes every media file under roots. Files that fail to read are
// counted and their errors returned together once the scan is complete;
// only context cancellation stops a scan early.
func (s *Scanner) Scan(ctx context.Context, roots ...string) (Stats, error) {
	var stats Stats
	jobs, err := s.walk(ctx, roots)
	if err != nil {
		return stats, err
	}
	stats.Seen = len(jobs)

	bar := s.bar(len(jobs))
	defer bar.Close()

	var (
		mu   sync.Mutex
		merr *multierror.Error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := index(ctx, s.store, s.parser, j.path, j.modTime, s.config.Force)

			mu.Lock()
			defer mu.Unlock()
			bar.Add(1)
			if err != nil {
				stats.Failed++
				merr = multierror.Append(merr, err)
				s.logger.Warnw("Failed to index file", "path", j.path, "error", err)
				return nil
			}
			switch res {
			case resultIndexed:
				stats.Indexed++
			case resultUnchanged:
				stats.Unchanged++
			case resultAbsent:
				stats.Absent++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	bar.Finish()

	s.scope.Counter("scan_indexed").Inc(int64(stats.Indexed))
	s.scope.Counter("scan_failed").Inc(int64(stats.Failed))
	s.logger.Infow("Scan complete", "roots", roots, "seen", stats.Seen,
		"indexed", stats.Indexed, "unchanged", stats.Unchanged, "absent", stats.Absent, "failed", stats.Failed)
	return stats, merr.ErrorOrNil()
}

// walk lists the files under roots whose extension belongs to a media
// family. Hidden entries and excluded directories are skipped, and so are
// directories that cannot be read. Only a root that cannot be walked at
// all fails the walk.
func (s *Scanner) walk(ctx context.Context, roots []string) ([]job, error) {
	var jobs []job
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			j, err := s.visit(root, path, d, err)
			if j != nil {
				jobs = append(jobs, *j)
			}
			return err
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			return nil, &types.ReadError{Path: root, Op: "walk", Err: err}
		}
	}
	return jobs, nil
}

// visit handles one WalkDir entry. It returns a job for a media file, and
// filepath.SkipDir for directories that are excluded or unreadable.
func (s *Scanner) visit(root, path string, d fs.DirEntry, err error) (*job, error) {
	if err != nil {
		if path == root {
			return nil, err
		}
		s.logger.Warnw("Skipping unreadable path", "path", path, "error", err)
		if d != nil && d.IsDir() {
			return nil, filepath.SkipDir
		}
		return nil, nil
	}
	if path != root && s.skip(d) {
		if d.IsDir() {
			return nil, filepath.SkipDir
		}
		return nil, nil
	}
	if d.IsDir() || classify.Classify(path).Family == types.FamilyUnsupported {
		return nil, nil
	}
	info, err := d.Info()
	if err != nil {
		// Removed since the directory was listed.
		s.logger.Debugw("Skipping vanished file", "path", path, "error", err)
		return nil, nil
	}
	return &job{path: path, modTime: info.ModTime()}, nil
}

func (s *Scanner) skip(d fs.DirEntry) bool {
	if strings.HasPrefix(d.Name(), ".") {
		return true
	}
	if !d.IsDir() {
		return false
	}
	for _, name := range s.config.Exclude {
		if d.Name() == name {
			return true
		}
	}
	return false
}

func (s *Scanner) bar(n int) *progressbar.ProgressBar {
	if s.progress == nil {
		return progressbar.DefaultSilent(int64(n))
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
