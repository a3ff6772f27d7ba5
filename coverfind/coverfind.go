// Package coverfind locates existing cover art in album directories.
package coverfind

import (
	"cmp"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// IsImage reports whether path has a known image extension.
func IsImage(p string) bool {
	p = filepath.Ext(p)
	p = strings.ToLower(p)
	_, ok := filetypePriorities[p]
	return ok
}

// IsCoverName reports whether the base name marks an image as album art
// rather than a booklet scan or artist photo.
func IsCoverName(p string) bool {
	base := strings.ToLower(filepath.Base(p))
	for _, m := range artTypeExpr.FindAllString(base, -1) {
		if artTypePriorities[m] >= usableArtPriority {
			return true
		}
	}
	return false
}

// Compare ranks two potential cover paths, suitable for [slices.SortFunc].
func Compare(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return cmp.Or(
		slices.Compare(posArtTypes(a), posArtTypes(b)),
		slices.Compare(posNumbers(a), posNumbers(b)),
		cmp.Compare(posFiletype(a), posFiletype(b)),
	)
}

// BestBetween updates the current best candidate if the new path is better.
func BestBetween(best *string, other string) {
	if *best == "" {
		*best = other
		return
	}
	if Compare(*best, other) > 0 {
		*best = other
	}
}

// Best returns the highest ranked usable art file in dir, or "" when the
// directory holds none.
func Best(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var best string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsImage(name) || !IsCoverName(name) {
			continue
		}
		BestBetween(&best, name)
	}
	if best == "" {
		return "", nil
	}
	return filepath.Join(dir, best), nil
}

// names scoring below this are ranked but never returned by [Best]
const usableArtPriority = 2

var artTypePriorities = map[string]int{
	"front":    3,
	"cover":    3,
	"album":    3,
	"folder":   2,
	"albumart": 2,
	"scan":     1,
	"back":     0, // ignore
	"artist":   0, // ignore
}

var artTypeExpr *regexp.Regexp

func init() {
	keywords := slices.Sorted(maps.Keys(artTypePriorities))
	// longest first so that "albumart" matches before "album"
	slices.SortStableFunc(keywords, func(a, b string) int { return len(b) - len(a) })
	for i, k := range keywords {
		keywords[i] = regexp.QuoteMeta(k)
	}
	artTypeExpr = regexp.MustCompile(strings.Join(keywords, "|"))
}

func posArtTypes(path string) []int {
	matches := artTypeExpr.FindAllString(path, -1)
	r := make([]int, len(matches))
	for i, m := range matches {
		r[i] = -artTypePriorities[m]
	}
	return r
}

var numbersExpr = regexp.MustCompile(`\d+`)

func posNumbers(path string) []int {
	matches := numbersExpr.FindAllString(path, -1)
	r := make([]int, len(matches))
	for i, m := range matches {
		r[i], _ = strconv.Atoi(m)
	}
	return r
}

var filetypePriorities = map[string]int{
	".png":  2,
	".jpg":  1,
	".jpeg": 1,
	".bmp":  1,
	".gif":  1,
	".webp": 1,
}

func posFiletype(path string) int {
	return -filetypePriorities[filepath.Ext(path)]
}
