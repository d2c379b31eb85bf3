package mediameta

import (
	"runtime"

	"github.com/c2h5oh/datasize"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/dispatch"
)

// DefaultHeaderGuard is the largest single header read allowed unless
// WithHeaderGuard says otherwise.
const DefaultHeaderGuard = datasize.ByteSize(binary.DefaultGuard)

// Option configures Parse, Open and ParseMany.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := mediameta.Parse("clip.avi",
//	    mediameta.WithHeaderGuard(2*datasize.MB),
//	    mediameta.WithIgnoreWarnings(),
//	)
type Option func(*options)

type options struct {
	logger         *zap.SugaredLogger
	scope          tally.Scope
	guard          datasize.ByteSize
	concurrency    int
	strictParsing  bool // Fail on any warning (Open only)
	ignoreWarnings bool // Drop warnings from the result
}

func newOptions(opts []Option) *options {
	o := &options{
		guard:       DefaultHeaderGuard,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) dispatcher() *dispatch.Dispatcher {
	return dispatch.New(
		dispatch.WithLogger(o.logger),
		dispatch.WithScope(o.scope),
		dispatch.WithGuard(int64(o.guard.Bytes())),
	)
}

// finish applies the options that post-process a found file.
func (o *options) finish(f *File) {
	if o.ignoreWarnings {
		f.Warnings = nil
	}
}

// WithLogger sends dispatch logs to l instead of the package-wide logger,
// which discards everything by default.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics reports parse counters and latency to scope.
//
// The scope receives a "parse" counter tagged with outcome and format, an
// "absorbed" counter tagged with the reason a file became absent, and a
// "parse_latency" timer.
func WithMetrics(scope tally.Scope) Option {
	return func(o *options) {
		o.scope = scope
	}
}

// WithHeaderGuard limits how much a reader may buffer in a single read.
// Files whose headers declare more are treated as unsupported. Zero keeps
// DefaultHeaderGuard.
//
// Example:
//
//	file, err := mediameta.Parse("song.mp3", mediameta.WithHeaderGuard(512*datasize.KB))
func WithHeaderGuard(limit datasize.ByteSize) Option {
	return func(o *options) {
		if limit > 0 {
			o.guard = limit
		}
	}
}

// WithStrictParsing makes Open fail with ErrStrictParsing when the file
// parsed with warnings. Parse and ParseMany ignore it.
//
// Example:
//
//	file, err := mediameta.Open("song.flac", mediameta.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *options) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues (invalid encodings, truncated
// comment lists, etc.) are collected in File.Warnings. This option discards
// them.
func WithIgnoreWarnings() Option {
	return func(o *options) {
		o.ignoreWarnings = true
	}
}

// WithConcurrency caps the number of files ParseMany reads at once.
// Values below one keep the default of runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
