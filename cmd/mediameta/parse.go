package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/simonhull/mediameta"
)

func newParseCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse <files...>",
		Short: "Print the metadata of media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *multierror.Error
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")

			for _, path := range args {
				file, err := mediameta.ParseContext(cmd.Context(), path, a.options()...)
				if err != nil {
					result = multierror.Append(result, err)
					continue
				}
				if asJSON {
					if err := enc.Encode(newFileView(path, file)); err != nil {
						return err
					}
					continue
				}
				printFile(out, path, file)
			}
			return result.ErrorOrNil()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per file")
	return cmd
}

// fileView is the JSON shape of a parse result.
type fileView struct {
	Path      string     `json:"path"`
	Supported bool       `json:"supported"`
	Format    string     `json:"format,omitempty"`
	Family    string     `json:"family,omitempty"`
	MIMEType  string     `json:"mime_type,omitempty"`
	Size      int64      `json:"size,omitempty"`
	Tags      *tagsView  `json:"tags,omitempty"`
	Audio     *audioView `json:"audio,omitempty"`
	Video     *videoView `json:"video,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}

type tagsView struct {
	Title       string   `json:"title,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	Album       string   `json:"album,omitempty"`
	AlbumArtist string   `json:"album_artist,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Year        int      `json:"year,omitempty"`
	Track       int      `json:"track,omitempty"`
	Disc        int      `json:"disc,omitempty"`
	Comment     string   `json:"comment,omitempty"`
}

type audioView struct {
	Codec      string  `json:"codec,omitempty"`
	Duration   float64 `json:"duration_seconds"`
	SampleRate int     `json:"sample_rate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	Bitrate    int     `json:"bitrate,omitempty"`
	Lossless   bool    `json:"lossless,omitempty"`
}

type videoView struct {
	Codec     string  `json:"codec,omitempty"`
	Duration  float64 `json:"duration_seconds"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	FrameRate float64 `json:"frame_rate,omitempty"`
	Bitrate   int     `json:"bitrate,omitempty"`
}

func newFileView(path string, f *mediameta.File) fileView {
	if f == nil {
		return fileView{Path: path}
	}
	v := fileView{
		Path:      path,
		Supported: true,
		Format:    f.Format.String(),
		Family:    f.Family.String(),
		MIMEType:  f.MIMEType,
		Size:      f.Size,
	}
	if !f.Tags.IsEmpty() {
		v.Tags = &tagsView{
			Title:       f.Tags.Title,
			Artist:      f.Tags.Artist,
			Album:       f.Tags.Album,
			AlbumArtist: f.Tags.AlbumArtist,
			Genres:      f.Tags.Genres,
			Year:        f.Tags.Year,
			Track:       f.Tags.TrackNumber,
			Disc:        f.Tags.DiscNumber,
			Comment:     f.Tags.Comment,
		}
	}
	if !f.Audio.IsZero() {
		v.Audio = &audioView{
			Codec:      f.Audio.Codec,
			Duration:   f.Audio.Duration.Seconds(),
			SampleRate: f.Audio.SampleRate,
			Channels:   f.Audio.Channels,
			Bitrate:    f.Audio.Bitrate,
			Lossless:   f.Audio.Lossless,
		}
	}
	if f.Video != nil {
		v.Video = &videoView{
			Codec:     f.Video.Codec,
			Duration:  f.Video.Duration.Seconds(),
			Width:     f.Video.Width,
			Height:    f.Video.Height,
			FrameRate: f.Video.FrameRate,
			Bitrate:   f.Video.Bitrate,
		}
	}
	for _, w := range f.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}
	return v
}

func printFile(w io.Writer, path string, f *mediameta.File) {
	if f == nil {
		fmt.Fprintf(w, "%s: unsupported\n", path)
		return
	}
	fmt.Fprintln(w, path)
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-9s %s\n", name+":", value)
		}
	}
	field("format", fmt.Sprintf("%s (%s, %s)", f.Format, f.Family, f.MIMEType))
	field("title", f.Tags.Title)
	field("artist", f.Tags.Artist)
	field("album", f.Tags.Album)
	field("genre", strings.Join(f.Tags.Genres, ", "))
	if f.Tags.Year > 0 {
		field("year", fmt.Sprint(f.Tags.Year))
	}
	if !f.Audio.IsZero() {
		field("audio", f.Audio.String())
	}
	if f.Video != nil {
		field("video", f.Video.String())
	}
	if d := duration(f); d != "" {
		field("duration", d)
	}
	for _, warn := range f.Warnings {
		field("warning", warn.String())
	}
}

func duration(f *mediameta.File) string {
	d := f.Audio.Duration
	if f.Video != nil && f.Video.Duration > d {
		d = f.Video.Duration
	}
	if d <= 0 {
		return ""
	}
	return d.Round(1e6).String()
}
