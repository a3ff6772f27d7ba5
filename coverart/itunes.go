package coverart

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jevonlipsey/albumfixer/clientutil"
)

var itunesBaseURL = `https://itunes.apple.com`

// artwork urls point at a 100px thumb, the size segment in the path can be
// swapped for a bigger render
const (
	itunesThumbSize = "100x100bb"
	itunesFullSize  = "1200x1200bb"
)

// ITunes searches the iTunes store catalogue. The search endpoint matches
// loosely, so both artist and album of a result are checked before its
// artwork counts.
type ITunes struct {
	BaseURL   string
	RateLimit time.Duration
	UserAgent string
	Logger    *slog.Logger

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (s *ITunes) Search(ctx context.Context, artist, album string) ([]byte, error) {
	s.initOnce.Do(func() {
		s.HTTPClient = clientutil.Wrap(s.HTTPClient, clientutil.Chain(
			clientutil.WithCache(),
			clientutil.WithUserAgent(s.UserAgent),
			clientutil.WithRateLimit(s.RateLimit),
			clientutil.WithLogging(s.Logger),
		))
	})

	// https://developer.apple.com/library/archive/documentation/AudioVideo/Conceptual/iTuneSearchAPI/Searching.html
	urlV := url.Values{}
	urlV.Set("term", album)
	urlV.Set("artistTerm", artist)
	urlV.Set("entity", "album")
	urlV.Set("attribute", "albumTerm")
	urlV.Set("limit", "5")

	url, _ := url.Parse(cmp.Or(s.BaseURL, itunesBaseURL))
	url = url.JoinPath("search")
	url.RawQuery = urlV.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search albums: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("itunes returned non 2xx: %d", resp.StatusCode)
	}

	var sr struct {
		Results []struct {
			ArtistName     string `json:"artistName"`
			CollectionName string `json:"collectionName"`
			ArtworkURL100  string `json:"artworkUrl100"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	for _, result := range sr.Results {
		if result.ArtworkURL100 == "" {
			continue
		}
		if !MatchArtist(artist, result.ArtistName) || !MatchAlbum(album, result.CollectionName) {
			continue
		}
		return s.download(ctx, strings.Replace(result.ArtworkURL100, itunesThumbSize, itunesFullSize, 1))
	}
	return nil, ErrCoverNotFound
}

func (s *ITunes) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download artwork: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("artwork returned non 2xx: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *ITunes) String() string { return "itunes" }
