package types

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Tags represents format-agnostic descriptive metadata.
//
// Readers map their native fields (ID3 frames, Vorbis comments, iTunes
// atoms, ASF descriptors, RIFF INFO chunks) onto the standard fields below.
// The native key/value pairs are kept as well and can be reached with All,
// Get and GetFirst.
type Tags struct {
	raw         map[string][]string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Date        string
	Comment     string
	Copyright   string
	Publisher   string
	Language    string
	Description string
	Rating      string
	Encoder     string
	Genres      []string
	Composers   []string
	Year        int
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
}

// Genre returns the first genre, or "" when none is set.
func (t *Tags) Genre() string {
	if len(t.Genres) == 0 {
		return ""
	}
	return t.Genres[0]
}

// All returns an iterator over all raw tags in key order.
//
// The returned iterator is read-only. Do not modify the returned slices.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if t.raw == nil {
			return
		}
		for _, key := range slices.Sorted(maps.Keys(t.raw)) {
			if !yield(key, t.raw[key]) {
				return
			}
		}
	}
}

// Get retrieves all values for a raw tag key.
//
// Keys are format-specific ("TITLE", "TIT2", "©nam", "WM/AlbumTitle", "INAM").
func (t *Tags) Get(key string) []string {
	if t.raw == nil {
		return nil
	}
	values := t.raw[key]
	if values == nil {
		return nil
	}
	return slices.Clone(values)
}

// GetFirst retrieves the first value for a raw tag key.
func (t *Tags) GetFirst(key string) string {
	values := t.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// GetBest tries multiple raw tag keys and returns the first non-empty value.
//
//	artist := tags.GetBest("ARTIST", "TPE1", "©ART", "Author")
func (t *Tags) GetBest(candidates ...string) string {
	for _, key := range candidates {
		if value := t.GetFirst(key); value != "" {
			return value
		}
	}
	return ""
}

// Set replaces the raw values for key. Empty values remove the key.
func (t *Tags) Set(key string, values ...string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	if len(values) == 0 {
		delete(t.raw, key)
		return
	}
	t.raw[key] = slices.Clone(values)
}

// Add appends a raw value for key.
func (t *Tags) Add(key, value string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	t.raw[key] = append(t.raw[key], value)
}

// Len returns the number of distinct raw keys.
func (t *Tags) Len() int {
	return len(t.raw)
}

// IsEmpty reports whether no standard field and no raw tag is set.
func (t *Tags) IsEmpty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == "" &&
		t.Year == 0 && t.TrackNumber == 0 && len(t.Genres) == 0 &&
		t.Comment == "" && len(t.raw) == 0
}

// AddGenre appends a genre unless it is empty or already present.
func (t *Tags) AddGenre(genre string) {
	genre = strings.TrimSpace(genre)
	if genre == "" || slices.Contains(t.Genres, genre) {
		return
	}
	t.Genres = append(t.Genres, genre)
}

// Merge fills empty standard fields of t from other. Raw tags of other are
// added under keys t does not have yet.
func (t *Tags) Merge(other *Tags) {
	if other == nil {
		return
	}
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&t.Title, other.Title)
	fill(&t.Artist, other.Artist)
	fill(&t.Album, other.Album)
	fill(&t.AlbumArtist, other.AlbumArtist)
	fill(&t.Date, other.Date)
	fill(&t.Comment, other.Comment)
	fill(&t.Copyright, other.Copyright)
	fill(&t.Publisher, other.Publisher)
	fill(&t.Language, other.Language)
	fill(&t.Description, other.Description)
	fill(&t.Rating, other.Rating)
	fill(&t.Encoder, other.Encoder)
	if t.Year == 0 {
		t.Year = other.Year
	}
	if t.TrackNumber == 0 {
		t.TrackNumber = other.TrackNumber
	}
	if t.TrackTotal == 0 {
		t.TrackTotal = other.TrackTotal
	}
	if t.DiscNumber == 0 {
		t.DiscNumber = other.DiscNumber
	}
	if t.DiscTotal == 0 {
		t.DiscTotal = other.DiscTotal
	}
	if len(t.Genres) == 0 {
		t.Genres = slices.Clone(other.Genres)
	}
	if len(t.Composers) == 0 {
		t.Composers = slices.Clone(other.Composers)
	}
	for key, values := range other.raw {
		if _, ok := t.raw[key]; !ok {
			t.Set(key, values...)
		}
	}
}

// Keys returns the raw tag keys in sorted order.
func (t *Tags) Keys() []string {
	return slices.Sorted(maps.Keys(t.raw))
}
