package mediameta

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mediameta/internal/types"
)

// File represents the metadata of one media file.
//
// File provides access to format-agnostic metadata (Tags), technical audio
// properties (Audio) and, for video formats, the primary video stream
// (Video). A File is built for every call and holds no open handle; there
// is nothing to close.
type File = types.File

// Parse reads the metadata of path.
//
// Parse returns (nil, nil) when the file is not supported: its extension is
// unknown, no reader matches its signature, it is malformed, or a header in
// it declares more data than the header guard allows. The only error Parse
// returns is a *ReadError, meaning the file itself could not be opened or
// read.
//
// Example:
//
//	file, err := mediameta.Parse("clip.avi")
//	if err != nil {
//		return err // permission denied, I/O failure
//	}
//	if file == nil {
//		return nil // not a media file we understand
//	}
//	fmt.Println(file.Format, file.Video)
func Parse(path string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	file, err := o.dispatcher().Parse(path)
	if err != nil || file == nil {
		return nil, err
	}
	o.finish(file)
	return file, nil
}

// ParseContext is Parse with a context check before the file is touched.
// A single parse is not interruptible.
func ParseContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(path, opts...)
}

// Open is the strict form of Parse: instead of an absent result it returns
// the reason. Unsupported paths yield *UnsupportedFormatError; malformed
// files and guard violations yield the reader's error unchanged.
//
// With WithStrictParsing, a file that parsed with warnings fails with
// ErrStrictParsing.
//
// Example:
//
//	file, err := mediameta.Open("song.flac", mediameta.WithStrictParsing())
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
func Open(path string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	out, err := o.dispatcher().Dispatch(path)
	if err != nil {
		return nil, err
	}
	if out.Absent() {
		if out.Cause != nil {
			return nil, out.Cause
		}
		return nil, &UnsupportedFormatError{Path: path, Reason: absentReason(path, out.Format)}
	}

	file := out.File
	if o.strictParsing && len(file.Warnings) > 0 {
		return nil, errors.Wrapf(ErrStrictParsing, "%s: %s", path, file.Warnings[0])
	}
	o.finish(file)
	return file, nil
}

func absentReason(path string, format Format) string {
	switch family := Classify(path); {
	case family == FamilyUnsupported:
		return "unknown file extension"
	case format != FormatUnknown:
		return fmt.Sprintf("no %s reader matched", format)
	case family == FamilyMultiFormat:
		return "container declares no audio or video stream"
	default:
		return fmt.Sprintf("no %s reader matched", family)
	}
}

// ParseMany parses multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines, or
// the limit set with WithConcurrency. Results are returned in the same
// order as the input paths; unsupported files leave a nil entry.
//
// The first *ReadError, or the cancellation of ctx, stops the remaining
// work and is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	files, err := mediameta.ParseMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for i, f := range files {
//		if f == nil {
//			fmt.Printf("%s: unsupported\n", paths[i])
//			continue
//		}
//		fmt.Printf("%s: %s\n", paths[i], f.Format)
//	}
func ParseMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	o := newOptions(opts)
	d := o.dispatcher()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	results := make([]*File, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, err := d.Parse(path)
			if err != nil {
				return err
			}
			if file != nil {
				o.finish(file)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
