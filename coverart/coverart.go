// Package coverart finds, fetches and converts album cover art.
//
// The resolver works through an ordered lookup list: art already in the
// album directory, then each remote source queried with the album's base
// name, then again with the full name, and finally one more pass with an
// operator supplied correction.
package coverart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jevonlipsey/albumfixer/musicbrainz"
)

var ErrCoverNotFound = errors.New("cover not found")

// Source searches one provider for the front cover of an album and returns
// the raw image bytes.
type Source interface {
	Search(ctx context.Context, artist, album string) ([]byte, error)
}

// MusicBrainz resolves the query to a release group, then pulls its front
// cover from the Cover Art Archive. The artist constrains the fielded
// search, so results only need their titles checked.
type MusicBrainz struct {
	MB  *musicbrainz.MBClient
	CAA *musicbrainz.CAAClient
}

func (s *MusicBrainz) Search(ctx context.Context, artist, album string) ([]byte, error) {
	groups, err := s.MB.SearchReleaseGroup(ctx, artist, album)
	if errors.Is(err, musicbrainz.ErrNoResults) {
		return nil, ErrCoverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("search release group: %w", err)
	}

	for _, rg := range groups {
		if !MatchAlbum(album, rg.Title) {
			continue
		}
		cover, err := s.CAA.GetReleaseGroupFront(ctx, rg.ID)
		if se := musicbrainz.StatusError(0); errors.As(err, &se) && se == http.StatusNotFound {
			// the group matched but has no art, maybe the next one has
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get front cover: %w", err)
		}
		return cover, nil
	}
	return nil, ErrCoverNotFound
}

func (s *MusicBrainz) String() string { return "musicbrainz" }
