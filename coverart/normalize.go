package coverart

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormKey reduces a name to a comparison key: compatibility decomposed,
// combining marks stripped, case folded, whitespace collapsed. "Rähinä"
// and "rahina" key the same.
func NormKey(s string) string {
	// chains carry internal buffers, so build one per call
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// base name delimiters, opening edition noise like "(Deluxe Edition)",
// "[2009 Remaster]", or "- Single"
var baseNameDelims = []string{" (", " [", " - "}

// BaseAlbumName cuts the album name before its first edition suffix.
// "In Rainbows (Disk 2)" becomes "In Rainbows".
func BaseAlbumName(album string) string {
	first := len(album)
	for _, delim := range baseNameDelims {
		if i := strings.Index(album, delim); i != -1 && i < first {
			first = i
		}
	}
	return strings.TrimSpace(album[:first])
}

// MatchAlbum reports whether a search result matches the album we asked
// for, exactly or after stripping the result's own edition suffix.
func MatchAlbum(query, result string) bool {
	q := NormKey(query)
	if q == "" {
		return false
	}
	if q == NormKey(result) {
		return true
	}
	return q == NormKey(BaseAlbumName(result))
}

// MatchArtist reports whether a search result artist matches the query.
func MatchArtist(query, result string) bool {
	q := NormKey(query)
	return q != "" && q == NormKey(result)
}
