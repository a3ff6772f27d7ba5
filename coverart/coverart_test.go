package coverart_test

import (
	"context"
	"embed"
	"testing"

	"github.com/jevonlipsey/albumfixer/clientutil"
	"github.com/jevonlipsey/albumfixer/coverart"
	"github.com/jevonlipsey/albumfixer/musicbrainz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata
var responses embed.FS

func TestMusicBrainzSource(t *testing.T) {
	t.Parallel()

	src := mbSource(t, "file:///mb/found")
	cover, err := src.Search(context.Background(), "Weezer", "Pinkerton")
	require.NoError(t, err)

	want, err := responses.ReadFile("testdata/caa/release-group/f8d14241-7d33-3e84-91a6-ca8a09e7b1b7/front-500")
	require.NoError(t, err)
	assert.Equal(t, want, cover)
}

func TestMusicBrainzSourceSkipsArtless(t *testing.T) {
	t.Parallel()

	// the first matching group has nothing in the archive, the next one does
	src := mbSource(t, "file:///mb/noart")
	cover, err := src.Search(context.Background(), "Weezer", "Maladroit")
	require.NoError(t, err)

	want, err := responses.ReadFile("testdata/caa/release-group/2c8b2a30-4f61-32a4-8ac2-d0d599e34c25/front-500")
	require.NoError(t, err)
	assert.Equal(t, want, cover)
}

func TestMusicBrainzSourceNoMatch(t *testing.T) {
	t.Parallel()

	src := mbSource(t, "file:///mb/nomatch")
	_, err := src.Search(context.Background(), "Weezer", "Pinkerton")
	require.ErrorIs(t, err, coverart.ErrCoverNotFound)

	_, err = src.Search(context.Background(), "", "")
	require.ErrorIs(t, err, coverart.ErrCoverNotFound)
}

func mbSource(t *testing.T, baseURL string) *coverart.MusicBrainz {
	t.Helper()
	return &coverart.MusicBrainz{
		MB:  &musicbrainz.MBClient{BaseURL: baseURL, HTTPClient: clientutil.FSClient(responses, "testdata")},
		CAA: &musicbrainz.CAAClient{BaseURL: "file:///caa", HTTPClient: clientutil.FSClient(responses, "testdata")},
	}
}
