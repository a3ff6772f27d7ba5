// Package tags reads the embedded metadata of audio files.
package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// File is the parsed metadata of one audio file. Fields are empty when the
// corresponding tag is missing.
type File struct {
	Path        string
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Track       int
}

// AnyArtist returns the album artist if tagged, the track artist otherwise.
func (f *File) AnyArtist() string {
	if f.AlbumArtist != "" {
		return f.AlbumArtist
	}
	return f.Artist
}

// CanRead reports whether path looks like an audio file we can parse.
func CanRead(absPath string) bool {
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".mp3", ".flac", ".m4a", ".m4b", ".m4p", ".ogg", ".opus":
		return true
	}
	return false
}

// Read parses the embedded tags of the audio file at path. A file whose tags
// are missing or unparseable is not an error, the returned File just has
// only Path set.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// unidentifiable or junk data, treat it as an untagged file
		return &File{Path: path}, nil
	}

	track, _ := m.Track()
	return &File{
		Path:        path,
		Artist:      strings.TrimSpace(m.Artist()),
		AlbumArtist: strings.TrimSpace(m.AlbumArtist()),
		Album:       strings.TrimSpace(m.Album()),
		Title:       strings.TrimSpace(m.Title()),
		Track:       track,
	}, nil
}
