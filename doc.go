// Package mediameta reads descriptive and technical metadata from audio and
// video files.
//
// A path is first placed into a family by its extension: audio, video, or
// multi-format (ASF containers that may hold either). Audio files go to the
// reader for their extension; video files to the reader whose signature
// matches the first bytes; multi-format files have their header inspected
// once and become WMV when a video stream is declared, WMA when only audio
// is.
//
// # Quick Start
//
//	file, err := mediameta.Parse("clip.avi")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if file == nil {
//		fmt.Println("unsupported")
//		return
//	}
//	fmt.Printf("%s %s\n", file.Format, file.Audio.Duration)
//	if file.Video != nil {
//		fmt.Println(file.Video.Resolution())
//	}
//
// # Supported Formats
//
//   - MP3: ID3v2.2-2.4 and ID3v1 tags, Xing/VBRI frame counts
//   - Ogg: Vorbis and Opus streams with Vorbis comments
//   - FLAC: STREAMINFO and Vorbis comments
//   - M4A: iTunes metadata items
//   - WMA, WMV and ASF: content description and WM/* attributes
//   - AVI: avih/strh headers and the RIFF INFO list
//   - OGM: Ogg Media video headers
//   - MPEG: program and elementary video streams
//   - MOV, MP4, M4V: QuickTime and ISO base media movies
//
// Files with a known extension but no reader (.wav, .aiff, .aac, .mkv,
// .webm) are recognized and reported as unsupported.
//
// # Error Handling
//
// Parse separates "this is not something we can read" from "the file could
// not be read":
//
//   - An unsupported, malformed or oversized file yields (nil, nil).
//   - A file that cannot be opened or read yields a *ReadError; errors.Is
//     reaches the underlying cause such as fs.ErrPermission.
//
// Open reports the first case as an error as well, for callers that want
// to know why a file was skipped.
//
// Non-fatal problems found while parsing are collected in File.Warnings:
//
//	for _, w := range file.Warnings {
//		log.Printf("Warning: %s", w)
//	}
//
// # Resource Limits
//
// Readers never allocate from a length read out of a file without checking
// it against the header guard (8MB by default, see WithHeaderGuard). A file
// that declares more is treated as unsupported.
//
// # Concurrency
//
// Parse keeps no shared state and is safe for concurrent use. ParseMany
// parses a batch in parallel and keeps the input order:
//
//	files, err := mediameta.ParseMany(ctx, paths, mediameta.WithConcurrency(4))
//
// # Observability
//
// Logging goes through zap and is silent unless WithLogger is given.
// WithMetrics reports counters and a latency timer to a tally scope.
package mediameta
