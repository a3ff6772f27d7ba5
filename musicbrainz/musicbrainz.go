// Package musicbrainz talks to the MusicBrainz and Cover Art Archive web
// services.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"

	"github.com/jevonlipsey/albumfixer/clientutil"
)

var ErrNoResults = fmt.Errorf("no results")

type MBClient struct {
	BaseURL   string
	RateLimit time.Duration
	UserAgent string
	Logger    *slog.Logger

	initOnce   sync.Once
	HTTPClient *http.Client
}

func (c *MBClient) request(ctx context.Context, r *http.Request, dest any) error {
	c.initOnce.Do(func() {
		c.HTTPClient = clientutil.Wrap(c.HTTPClient, clientutil.Chain(
			clientutil.WithCache(),
			clientutil.WithUserAgent(c.UserAgent),
			clientutil.WithRateLimit(c.RateLimit),
			clientutil.WithLogging(c.Logger),
		))
	})

	r = r.WithContext(ctx)
	resp, err := c.HTTPClient.Do(r)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("musicbrainz returned non 2xx: %w", StatusError(resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

const searchLimit = 5

// SearchReleaseGroup queries the release group index by artist and album
// name. Results come back in score order, unfiltered, for the caller to
// match against what it actually asked for.
func (c *MBClient) SearchReleaseGroup(ctx context.Context, artist, album string) ([]ReleaseGroup, error) {
	// https://musicbrainz.org/doc/MusicBrainz_API/Search#Release_Group

	var params []string
	if artist != "" {
		params = append(params, field("artist", strings.ToLower(artist)))
	}
	if album != "" {
		params = append(params, field("releasegroup", strings.ToLower(album)))
	}
	if len(params) == 0 {
		return nil, ErrNoResults
	}

	urlV := url.Values{}
	urlV.Set("fmt", "json")
	urlV.Set("limit", strconv.Itoa(searchLimit))
	urlV.Set("query", strings.Join(params, " "))

	url, _ := url.Parse(joinPath(c.BaseURL, "release-group"))
	url.RawQuery = urlV.Encode()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)

	var sr struct {
		ReleaseGroups []ReleaseGroup `json:"release-groups"`
	}
	if err := c.request(ctx, req, &sr); err != nil {
		return nil, fmt.Errorf("request release group: %w", err)
	}
	if len(sr.ReleaseGroups) == 0 {
		return nil, ErrNoResults
	}
	return sr.ReleaseGroups, nil
}

type ReleaseGroup struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Score            int            `json:"score"`
	PrimaryType      string         `json:"primary-type"`
	FirstReleaseDate AnyTime        `json:"first-release-date"`
	Artists          []ArtistCredit `json:"artist-credit"`
}

type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     Artist `json:"artist"`
}

type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort-name"`
}

func ArtistsCreditString(credits []ArtistCredit) string {
	var sb strings.Builder
	for _, c := range credits {
		fmt.Fprintf(&sb, "%s%s", c.Name, c.JoinPhrase)
	}
	return sb.String()
}

type AnyTime struct {
	time.Time
}

func (at *AnyTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		return nil
	}
	var err error
	at.Time, err = dateparse.ParseAny(str)
	if err != nil {
		return fmt.Errorf("parse any: %w", err)
	}
	return nil
}

// https://lucene.apache.org/core/7_7_2/queryparser/org/apache/lucene/queryparser/classic/package-summary.html#Escaping_Special_Characters
var escapeLucene *strings.Replacer

func init() {
	var pairs []string
	for _, c := range []string{`&&`, `||`, `+`, `-`, `!`, `(`, `)`, `{`, `}`, `[`, `]`, `^`, `"`, `~`, `*`, `?`, `:`, `\`, `/`} {
		pairs = append(pairs, c, `\`+c)
	}
	escapeLucene = strings.NewReplacer(pairs...)
}

func field(k string, v any) string {
	vstr := fmt.Sprint(v)
	vstr = escapeLucene.Replace(vstr)
	return fmt.Sprintf("%s:(%v)", k, vstr)
}
