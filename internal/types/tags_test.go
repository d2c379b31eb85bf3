package types

import (
	"slices"
	"testing"
)

func TestTags_All(t *testing.T) {
	tags := &Tags{}
	tags.Set("TITLE", "Test Song")
	tags.Set("ARTIST", "Test Artist")
	tags.Set("GENRE", "Rock", "Alternative")

	var keys []string
	for key, values := range tags.All() {
		keys = append(keys, key)
		if key == "GENRE" && !slices.Equal(values, []string{"Rock", "Alternative"}) {
			t.Errorf("GENRE values = %v, want [Rock Alternative]", values)
		}
	}

	want := []string{"ARTIST", "GENRE", "TITLE"}
	if !slices.Equal(keys, want) {
		t.Errorf("All() keys = %v, want %v", keys, want)
	}
}

func TestTags_GetReturnsCopy(t *testing.T) {
	tags := &Tags{}
	tags.Set("TITLE", "Original")

	got := tags.Get("TITLE")
	got[0] = "Mutated"

	if tags.GetFirst("TITLE") != "Original" {
		t.Errorf("Get() leaked internal slice")
	}
}

func TestTags_GetBest(t *testing.T) {
	tags := &Tags{}
	tags.Set("TPE1", "Id3 Artist")
	tags.Set("Author", "Asf Artist")

	if got := tags.GetBest("ARTIST", "TPE1", "Author"); got != "Id3 Artist" {
		t.Errorf("GetBest() = %q, want %q", got, "Id3 Artist")
	}
	if got := tags.GetBest("ARTIST", "©ART"); got != "" {
		t.Errorf("GetBest() = %q, want empty", got)
	}
}

func TestTags_SetEmptyRemoves(t *testing.T) {
	tags := &Tags{}
	tags.Set("TITLE", "x")
	tags.Set("TITLE")

	if tags.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tags.Len())
	}
}

func TestTags_AddGenreDeduplicates(t *testing.T) {
	tags := &Tags{}
	tags.AddGenre("Rock")
	tags.AddGenre(" Rock ")
	tags.AddGenre("")
	tags.AddGenre("Jazz")

	if !slices.Equal(tags.Genres, []string{"Rock", "Jazz"}) {
		t.Errorf("Genres = %v, want [Rock Jazz]", tags.Genres)
	}
	if tags.Genre() != "Rock" {
		t.Errorf("Genre() = %q, want Rock", tags.Genre())
	}
}

func TestTags_Merge(t *testing.T) {
	primary := &Tags{Title: "Primary", Year: 2001}
	primary.Set("TIT2", "Primary")

	fallback := &Tags{Title: "Fallback", Artist: "Fallback Artist", Year: 1999, TrackNumber: 4}
	fallback.Set("TIT2", "Fallback")
	fallback.Set("TPE1", "Fallback Artist")

	primary.Merge(fallback)

	if primary.Title != "Primary" {
		t.Errorf("Title = %q, want Primary", primary.Title)
	}
	if primary.Artist != "Fallback Artist" {
		t.Errorf("Artist = %q, want Fallback Artist", primary.Artist)
	}
	if primary.Year != 2001 || primary.TrackNumber != 4 {
		t.Errorf("Year/Track = %d/%d, want 2001/4", primary.Year, primary.TrackNumber)
	}
	if primary.GetFirst("TIT2") != "Primary" || primary.GetFirst("TPE1") != "Fallback Artist" {
		t.Errorf("raw merge wrong: %v", primary.Keys())
	}
}

func TestTags_IsEmpty(t *testing.T) {
	tags := &Tags{}
	if !tags.IsEmpty() {
		t.Error("zero Tags should be empty")
	}
	tags.Add("COMMENT", "x")
	if tags.IsEmpty() {
		t.Error("Tags with a raw value should not be empty")
	}
}

func TestParseNumberPair(t *testing.T) {
	tests := []struct {
		in       string
		n, total int
	}{
		{"3", 3, 0},
		{"3/12", 3, 12},
		{" 7 / 9 ", 7, 9},
		{"", 0, 0},
		{"x/5", 0, 5},
	}
	for _, tt := range tests {
		n, total := ParseNumberPair(tt.in)
		if n != tt.n || total != tt.total {
			t.Errorf("ParseNumberPair(%q) = %d, %d; want %d, %d", tt.in, n, total, tt.n, tt.total)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := map[string]int{
		"2004":                2004,
		"2004-05-17":          2004,
		"1999-01-01T00:00:00": 1999,
		"abc":                 0,
		"":                    0,
	}
	for in, want := range tests {
		if got := ParseYear(in); got != want {
			t.Errorf("ParseYear(%q) = %d, want %d", in, got, want)
		}
	}
}
