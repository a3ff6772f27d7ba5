// Package pathformat renders track destination paths, relative to the music
// root, from a user template.
package pathformat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/jevonlipsey/albumfixer/fileutil"
)

var (
	ErrInvalidFormat   = errors.New("invalid format")
	ErrAmbiguousFormat = errors.New("ambiguous format")
	ErrBadData         = errors.New("bad data")
)

// DefaultFormat lays albums out as Artist/Album/NN - Title.ext, the layout
// portable players expect.
const DefaultFormat = `{{ .Artist | safepath }}/{{ .Album | safepath }}/{{ pad0 2 .Track }} - {{ .Title | safepath }}{{ .Ext }}`

type Data struct {
	Artist string
	Album  string
	Title  string
	Track  int
	Ext    string
}

type Format struct {
	tmpl *texttemplate.Template
}

func (pf *Format) Defined() bool {
	return pf.tmpl != nil
}

// Parse parses and validates the format. The format must be relative and
// produce an Artist/Album/Track hierarchy which differs for different tracks.
func (pf *Format) Parse(str string) error {
	tmpl, err := texttemplate.New("template").Funcs(funcMap).Parse(str)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	next := Format{tmpl: tmpl}

	probeA, err := next.Execute(Data{Artist: "Artist", Album: "Album", Title: "Track A", Track: 1, Ext: ".flac"})
	if err != nil {
		return fmt.Errorf("execute check data: %w", err)
	}
	probeB, err := next.Execute(Data{Artist: "Artist", Album: "Album", Title: "Track B", Track: 2, Ext: ".flac"})
	if err != nil {
		return fmt.Errorf("execute check data: %w", err)
	}
	if probeA == probeB {
		return fmt.Errorf("%w: the format must produce different paths for different tracks", ErrAmbiguousFormat)
	}

	*pf = next
	return nil
}

// Execute renders the path for data, slash separated and relative to the
// music root.
func (pf *Format) Execute(data Data) (string, error) {
	if pf.tmpl == nil {
		return "", fmt.Errorf("path format not initialised")
	}

	var buff strings.Builder
	if err := pf.tmpl.Execute(&buff, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	path := buff.String()

	if strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: the format must be relative to the music root", ErrInvalidFormat)
	}
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: expected at least artist/album/track elements", ErrInvalidFormat)
	}
	for i, part := range parts {
		switch strings.TrimSpace(part) {
		case "":
			return "", fmt.Errorf("%w: empty path element %d", ErrBadData, i)
		case ".", "..":
			return "", fmt.Errorf("%w: relative path element %d", ErrBadData, i)
		}
	}
	return filepath.Join(parts...), nil
}

var funcMap = texttemplate.FuncMap{
	"join":     func(delim string, items []string) string { return strings.Join(items, delim) },
	"pad0":     func(amount, n int) string { return fmt.Sprintf("%0*d", amount, n) },
	"safepath": fileutil.SafePath,
}
