// Package dispatch turns a path into a metadata handle.
//
// A Dispatcher classifies the path into the audio, video or multi-format
// family, picks the reader for the concrete format and runs it against a
// guarded SafeReader. Malformed input and header guard violations are
// absorbed into an absent result; failures of the file itself are returned
// as *types.ReadError.
package dispatch

import (
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	gomime "github.com/cubewise-code/go-mime"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/simonhull/mediameta/internal/binary"
	"github.com/simonhull/mediameta/internal/classify"
	"github.com/simonhull/mediameta/internal/log"
	"github.com/simonhull/mediameta/internal/registry"
	"github.com/simonhull/mediameta/internal/types"
)

// Source is an opened media file.
type Source interface {
	io.ReaderAt
	io.Closer
	Stat() (fs.FileInfo, error)
}

// Opener opens path for reading.
type Opener func(path string) (Source, error)

// OpenFile opens path on the local file system.
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

var errReaderPanic = errors.New("reader panic")

// Outcome is everything a dispatch produced. File is nil for an absent
// result; Cause then holds the absorbed error, or nil when the path simply
// had no reader.
type Outcome struct {
	File   *types.File
	Format types.Format
	Cause  error
}

// Absent reports whether no handle was produced.
func (o Outcome) Absent() bool {
	return o.File == nil
}

// Dispatcher routes files to format readers. It keeps no per-call state
// and is safe for concurrent use.
type Dispatcher struct {
	lookup    func(types.Format) registry.FormatParser
	inspector func() registry.ContainerInspector
	open      Opener
	logger    *zap.SugaredLogger
	scope     tally.Scope
	guard     int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLookup replaces the registry lookup used to find readers.
func WithLookup(lookup func(types.Format) registry.FormatParser) Option {
	return func(d *Dispatcher) { d.lookup = lookup }
}

// WithInspector replaces the multi-format container inspector.
func WithInspector(in registry.ContainerInspector) Option {
	return func(d *Dispatcher) {
		d.inspector = func() registry.ContainerInspector { return in }
	}
}

// WithOpener replaces the function used to open files.
func WithOpener(open Opener) Option {
	return func(d *Dispatcher) { d.open = open }
}

// WithLogger sets the logger. Without it the global logger is used.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithScope sets the metrics scope.
func WithScope(s tally.Scope) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.scope = s
		}
	}
}

// WithGuard sets the largest single header read allowed. Non-positive
// values keep binary.DefaultGuard.
func WithGuard(limit int64) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.guard = limit
		}
	}
}

// New creates a Dispatcher backed by the global reader registry.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		lookup:    registry.Get,
		inspector: registry.Inspector,
		open:      OpenFile,
		scope:     tally.NoopScope,
		guard:     binary.DefaultGuard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse returns the metadata handle for path, or nil when the file is not
// supported, malformed, or would exceed the header guard. The only errors
// returned are *types.ReadError.
func (d *Dispatcher) Parse(path string) (*types.File, error) {
	o, err := d.Dispatch(path)
	return o.File, err
}

// Dispatch is Parse with the reason for an absent result kept.
func (d *Dispatcher) Dispatch(path string) (Outcome, error) {
	sw := d.scope.Timer("parse_latency").Start()
	defer sw.Stop()

	mf := classify.Classify(path)
	var format types.Format
	switch mf.Family {
	case types.FamilyUnsupported:
		return d.absent(Outcome{}), nil
	case types.FamilyAudio:
		var ok bool
		if format, ok = classify.AudioFormat(mf.Ext); !ok {
			d.log().Debugw("Audio extension has no reader", "path", path, "ext", mf.Ext)
			return d.absent(Outcome{}), nil
		}
	}

	src, err := d.open(path)
	if err != nil {
		return d.fail(&types.ReadError{Path: path, Op: "open", Err: err})
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return d.fail(&types.ReadError{Path: path, Op: "stat", Err: err})
	}
	sr := binary.NewSafeReader(src, info.Size(), path).WithGuard(d.guard)

	file, format, err := d.route(mf, format, sr)
	if err != nil {
		return d.absorb(path, Outcome{Format: format, Cause: err})
	}
	if file == nil {
		return d.absent(Outcome{Format: format}), nil
	}
	if file.MIMEType == "" {
		file.MIMEType = gomime.TypeByExtension(mf.Ext)
	}
	d.record("found", file.Format.String())
	return Outcome{File: file, Format: file.Format}, nil
}

// route runs the reader for mf. format is already known for audio files.
func (d *Dispatcher) route(mf types.MediaFile, format types.Format, sr *binary.SafeReader) (
	*types.File, types.Format, error) {
	switch mf.Family {
	case types.FamilyAudio:
		file, err := d.read(format, sr)
		return file, format, err
	case types.FamilyVideo:
		probe, err := classify.NewProbe(mf, sr)
		if err != nil {
			return nil, types.FormatUnknown, err
		}
		format, ok := probe.VideoFormat()
		if !ok {
			d.log().Debugw("No video signature matched", "path", mf.Path)
			return nil, types.FormatUnknown, nil
		}
		file, err := d.read(format, sr)
		return file, format, err
	case types.FamilyMultiFormat:
		return d.inspect(sr)
	default:
		return nil, types.FormatUnknown, nil
	}
}

func (d *Dispatcher) read(format types.Format, sr *binary.SafeReader) (file *types.File, err error) {
	defer recoverReader(&err)

	p := d.lookup(format)
	if p == nil {
		return nil, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: "no reader registered for " + format.String(),
		}
	}
	return p.Parse(sr)
}

// inspect parses a multi-format header once and builds the flavor its
// streams call for: video wins over audio, neither is absent.
func (d *Dispatcher) inspect(sr *binary.SafeReader) (file *types.File, format types.Format, err error) {
	defer recoverReader(&err)

	in := d.inspector()
	if in == nil {
		return nil, types.FormatUnknown, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: "no multi-format inspector registered",
		}
	}
	c, err := in.Inspect(sr)
	if err != nil {
		return nil, types.FormatUnknown, err
	}
	switch {
	case c.HasVideo():
		return c.Build(types.FormatWMV), types.FormatWMV, nil
	case c.HasAudio():
		return c.Build(types.FormatWMA), types.FormatWMA, nil
	default:
		d.log().Debugw("Container declares no audio or video stream", "path", sr.Path())
		return nil, types.FormatUnknown, nil
	}
}

// recoverReader turns a reader panic into an error. It must be deferred
// directly.
func recoverReader(err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errReaderPanic, "%v", r)
	}
}

// absorb decides between an absent result and a returned failure.
func (d *Dispatcher) absorb(path string, o Outcome) (Outcome, error) {
	var (
		readErr  *types.ReadError
		limitErr *types.ResourceLimitError
	)
	switch {
	case errors.As(o.Cause, &readErr):
		return d.fail(o.Cause)
	case errors.As(o.Cause, &limitErr):
		d.log().Warnw("Header guard exceeded, skipping file",
			"path", path, "what", limitErr.What, "length", limitErr.Length, "limit", limitErr.Limit)
		d.scope.Tagged(map[string]string{"reason": "resource_limit"}).Counter("absorbed").Inc(1)
	case errors.Is(o.Cause, errReaderPanic):
		d.log().Errorw("Reader panicked", "path", path, "format", o.Format.String(), "error", o.Cause)
		d.scope.Tagged(map[string]string{"reason": "malformed"}).Counter("absorbed").Inc(1)
	default:
		d.log().Debugw("Malformed file", "path", path, "format", o.Format.String(), "error", o.Cause)
		d.scope.Tagged(map[string]string{"reason": "malformed"}).Counter("absorbed").Inc(1)
	}
	return d.absent(o), nil
}

func (d *Dispatcher) absent(o Outcome) Outcome {
	d.record("absent", "none")
	o.File = nil
	return o
}

func (d *Dispatcher) fail(err error) (Outcome, error) {
	d.record("failed", "none")
	return Outcome{}, err
}

func (d *Dispatcher) record(outcome, format string) {
	d.scope.Tagged(map[string]string{
		"outcome": outcome,
		"format":  format,
	}).Counter("parse").Inc(1)
}

func (d *Dispatcher) log() *zap.SugaredLogger {
	if d.logger != nil {
		return d.logger
	}
	return log.Default()
}
