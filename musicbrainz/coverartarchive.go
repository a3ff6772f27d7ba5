package musicbrainz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jevonlipsey/albumfixer/clientutil"
)

// CAAClient fetches cover images from the Cover Art Archive.
type CAAClient struct {
	BaseURL   string
	RateLimit time.Duration
	UserAgent string
	Logger    *slog.Logger

	initOnce   sync.Once
	HTTPClient *http.Client
}

// GetReleaseGroupFront fetches the 500px front cover for a release group.
// A release group without art surfaces as a [StatusError] of 404.
func (c *CAAClient) GetReleaseGroupFront(ctx context.Context, releaseGroupID string) ([]byte, error) {
	c.initOnce.Do(func() {
		c.HTTPClient = clientutil.Wrap(c.HTTPClient, clientutil.Chain(
			clientutil.WithCache(),
			clientutil.WithUserAgent(c.UserAgent),
			clientutil.WithRateLimit(c.RateLimit),
			clientutil.WithLogging(c.Logger),
		))
	})

	// https://musicbrainz.org/doc/Cover_Art_Archive/API
	url := joinPath(c.BaseURL, "release-group", releaseGroupID, "front-500")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("make caa request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("caa returned non 2xx: %w", StatusError(resp.StatusCode))
	}

	cover, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return cover, nil
}
