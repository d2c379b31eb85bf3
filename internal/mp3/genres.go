package mp3

import (
	"strconv"
	"strings"
)

// id3Genres is the ID3v1 genre list including the Winamp extensions.
var id3Genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock", "Folk", "Folk-Rock", "National Folk", "Swing", "Fast Fusion",
	"Bebob", "Latin", "Revival", "Celtic", "Bluegrass", "Avantgarde",
	"Gothic Rock", "Progressive Rock", "Psychedelic Rock", "Symphonic Rock",
	"Slow Rock", "Big Band", "Chorus", "Easy Listening", "Acoustic", "Humour",
	"Speech", "Chanson", "Opera", "Chamber Music", "Sonata", "Symphony",
	"Booty Bass", "Primus", "Porn Groove", "Satire", "Slow Jam", "Club",
	"Tango", "Samba", "Folklore", "Ballad", "Power Ballad", "Rhythmic Soul",
	"Freestyle", "Duet", "Punk Rock", "Drum Solo", "A capella", "Euro-House",
	"Dance Hall", "Goa", "Drum & Bass", "Club-House", "Hardcore", "Terror",
	"Indie", "BritPop", "Negerpunk", "Polsk Punk", "Beat",
	"Christian Gangsta Rap", "Heavy Metal", "Black Metal", "Crossover",
	"Contemporary Christian", "Christian Rock", "Merengue", "Salsa",
	"Thrash Metal", "Anime", "JPop", "Synthpop",
}

// genreName returns the name for an ID3v1 genre index, or "".
func genreName(idx int) string {
	if idx < 0 || idx >= len(id3Genres) {
		return ""
	}
	return id3Genres[idx]
}

// parseGenres expands a TCON value. ID3v2.3 allows "(17)", "(17)(20)",
// "(17)Refinement" and bare "17"; "(RX)" and "(CR)" stand for Remix and
// Cover.
func parseGenres(s string) []string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if name := genreName(n); name != "" {
			return []string{name}
		}
		return nil
	}

	var out []string
	for strings.HasPrefix(s, "(") && !strings.HasPrefix(s, "((") {
		end := strings.IndexByte(s, ')')
		if end < 0 {
			break
		}
		ref := s[1:end]
		s = s[end+1:]
		switch ref {
		case "RX":
			out = append(out, "Remix")
		case "CR":
			out = append(out, "Cover")
		default:
			if n, err := strconv.Atoi(ref); err == nil {
				if name := genreName(n); name != "" {
					out = append(out, name)
				}
			}
		}
	}

	s = strings.TrimPrefix(strings.TrimSpace(s), "(")
	if s != "" {
		out = append(out, s)
	}
	return out
}
