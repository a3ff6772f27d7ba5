// Package lyrics searches the configured providers for track lyrics.
package lyrics

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/jevonlipsey/albumfixer/clientutil"
)

var ErrLyricsNotFound = errors.New("lyrics not found")

// Lyrics is one search result. Synced holds LRC timestamped lines when the
// provider has them, Plain the bare text. Either may be empty.
type Lyrics struct {
	Synced string
	Plain  string
}

func (l Lyrics) Empty() bool {
	return l.Synced == "" && l.Plain == ""
}

// Ext returns the conventional file extension for the best variant we have.
func (l Lyrics) Ext() string {
	if l.Synced != "" {
		return ".lrc"
	}
	return ".txt"
}

// Text returns the best variant, preferring synced.
func (l Lyrics) Text() string {
	if l.Synced != "" {
		return l.Synced
	}
	return l.Plain
}

type Source interface {
	Search(ctx context.Context, artist, song string) (Lyrics, error)
}

// ChainSource tries each source in order and returns the first hit. Sources
// which fail, with not found or otherwise, just pass the search along, a
// provider being down shouldn't starve the rest of the chain.
type ChainSource []Source

func (cs ChainSource) Search(ctx context.Context, artist, song string) (Lyrics, error) {
	var errs []error
	for _, src := range cs {
		lyricData, err := src.Search(ctx, artist, song)
		if err != nil {
			if !errors.Is(err, ErrLyricsNotFound) {
				errs = append(errs, err)
			}
			continue
		}
		if !lyricData.Empty() {
			return lyricData, nil
		}
	}
	if len(errs) > 0 {
		return Lyrics{}, errors.Join(errs...)
	}
	return Lyrics{}, ErrLyricsNotFound
}

var lrclibBaseURL = `https://lrclib.net`

// LRCLib queries the lrclib.net get endpoint, which matches by exact artist
// and track name.
type LRCLib struct {
	BaseURL   string
	RateLimit time.Duration
	UserAgent string
	Logger    *slog.Logger

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (l *LRCLib) Search(ctx context.Context, artist, song string) (Lyrics, error) {
	l.initOnce.Do(func() {
		l.HTTPClient = clientutil.Wrap(l.HTTPClient, clientutil.Chain(
			clientutil.WithCache(),
			clientutil.WithUserAgent(l.UserAgent),
			clientutil.WithRateLimit(l.RateLimit),
			clientutil.WithLogging(l.Logger),
		))
	})

	urlV := url.Values{}
	urlV.Set("artist_name", artist)
	urlV.Set("track_name", song)

	url, _ := url.Parse(cmp.Or(l.BaseURL, lrclibBaseURL))
	url = url.JoinPath("api", "get")
	url.RawQuery = urlV.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return Lyrics{}, fmt.Errorf("req lyrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Lyrics{}, ErrLyricsNotFound
	}
	if resp.StatusCode/100 != 2 {
		return Lyrics{}, fmt.Errorf("lrclib returned non 2xx: %d", resp.StatusCode)
	}

	var lr struct {
		PlainLyrics  string `json:"plainLyrics"`
		SyncedLyrics string `json:"syncedLyrics"`
		Instrumental bool   `json:"instrumental"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return Lyrics{}, fmt.Errorf("decode response: %w", err)
	}
	if lr.Instrumental {
		return Lyrics{}, ErrLyricsNotFound
	}

	lyricData := Lyrics{Synced: lr.SyncedLyrics, Plain: lr.PlainLyrics}
	if lyricData.Empty() {
		return Lyrics{}, ErrLyricsNotFound
	}
	return lyricData, nil
}

var geniusBaseURL = `https://genius.com`
var geniusSelectContent = cascadia.MustCompile(`div[class^="Lyrics__Container-"]`)
var geniusEsc = strings.NewReplacer(
	" ", "-",
	"(", "",
	")", "",
	"[", "",
	"]", "",
)

// Genius scrapes lyric pages, plain text only.
type Genius struct {
	BaseURL   string
	RateLimit time.Duration
	UserAgent string
	Logger    *slog.Logger

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (g *Genius) Search(ctx context.Context, artist, song string) (Lyrics, error) {
	g.initOnce.Do(func() {
		g.HTTPClient = clientutil.Wrap(g.HTTPClient, clientutil.Chain(
			clientutil.WithCache(),
			clientutil.WithUserAgent(g.UserAgent),
			clientutil.WithRateLimit(g.RateLimit),
			clientutil.WithLogging(g.Logger),
		))
	})

	// use genius case rules to keep redirects down
	page := fmt.Sprintf("%s-%s-lyrics", artist, song)
	page = strings.ToUpper(string(page[0])) + strings.ToLower(page[1:])

	url, _ := url.Parse(cmp.Or(g.BaseURL, geniusBaseURL))
	url = url.JoinPath(geniusEsc.Replace(page))

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return Lyrics{}, fmt.Errorf("req page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return Lyrics{}, ErrLyricsNotFound
	}

	node, err := html.Parse(resp.Body)
	if err != nil {
		return Lyrics{}, fmt.Errorf("parse page: %w", err)
	}

	var out strings.Builder
	iterText(cascadia.Query(node, geniusSelectContent), func(s string) {
		out.WriteString(s + "\n")
	})
	text := strings.TrimSpace(out.String())
	if text == "" {
		return Lyrics{}, ErrLyricsNotFound
	}
	return Lyrics{Plain: text}, nil
}

func iterText(n *html.Node, f func(string)) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		f(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		iterText(c, f)
	}
}
