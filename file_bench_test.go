package mediameta_test

import (
	"context"
	"testing"

	"github.com/simonhull/mediameta"
	"github.com/simonhull/mediameta/internal/testutil"
)

// BenchmarkParse measures a single parse per format.
func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		data []byte
	}{
		{"song.mp3", testutil.MP3Frames(200)},
		{"song.flac", testutil.FLAC(44100, 44100*60, "TITLE=Bench", "ARTIST=Bench")},
		{"song.m4a", testutil.M4A(180, 4500, testutil.ItunesText("\xa9nam", "Bench"))},
		{"clip.avi", testutil.AVI(250, 1000, "INAM", "Bench")},
		{"clip.wmv", testutil.WMV("Bench")},
		{"clip.mpg", testutil.MPEGProgram(12, true)},
	}

	for _, c := range cases {
		path := testutil.WriteFile(b, c.name, c.data)
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				file, err := mediameta.Parse(path)
				if err != nil || file == nil {
					b.Fatalf("Parse() = %v, %v", file, err)
				}
			}
		})
	}
}

// BenchmarkParse_Unsupported measures the path that never opens the file.
func BenchmarkParse_Unsupported(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		if _, err := mediameta.Parse("/nowhere/readme.txt"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseMany measures batch parsing of mixed files.
func BenchmarkParseMany(b *testing.B) {
	paths := []string{
		testutil.WriteFile(b, "a.mp3", testutil.MP3Frames(50)),
		testutil.WriteFile(b, "b.flac", testutil.FLAC(44100, 44100)),
		testutil.WriteFile(b, "c.ogg", testutil.OggVorbis(44100, 44100)),
		testutil.WriteFile(b, "d.avi", testutil.AVI(100, 500)),
		testutil.WriteFile(b, "e.wmv", testutil.WMV("x")),
		testutil.WriteFile(b, "f.mov", testutil.MOV(10, 25, 1000)),
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := mediameta.ParseMany(ctx, paths); err != nil {
			b.Fatal(err)
		}
	}
}
