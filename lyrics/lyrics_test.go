package lyrics_test

import (
	"context"
	"embed"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jevonlipsey/albumfixer/clientutil"
	"github.com/jevonlipsey/albumfixer/lyrics"
)

//go:embed testdata
var responses embed.FS

func TestLRCLib(t *testing.T) {
	t.Parallel()

	var src lyrics.LRCLib
	src.HTTPClient = clientutil.FSClient(responses, "testdata/lrclib")
	src.BaseURL = "file:///found"

	resp, err := src.Search(context.Background(), "Stereolab", "French Disko")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Synced, "[00:22.31]"))
	assert.True(t, strings.Contains(resp.Plain, "An absurd place to be living in"))
	assert.Equal(t, ".lrc", resp.Ext())
	assert.Equal(t, resp.Synced, resp.Text())
}

func TestLRCLibPlainOnly(t *testing.T) {
	t.Parallel()

	var src lyrics.LRCLib
	src.HTTPClient = clientutil.FSClient(responses, "testdata/lrclib")
	src.BaseURL = "file:///plain"

	resp, err := src.Search(context.Background(), "Stereolab", "Blue Milk")
	require.NoError(t, err)
	assert.Empty(t, resp.Synced)
	assert.True(t, strings.Contains(resp.Plain, "In the morning light"))
	assert.Equal(t, ".txt", resp.Ext())
	assert.Equal(t, resp.Plain, resp.Text())
}

func TestLRCLibInstrumental(t *testing.T) {
	t.Parallel()

	var src lyrics.LRCLib
	src.HTTPClient = clientutil.FSClient(responses, "testdata/lrclib")
	src.BaseURL = "file:///instrumental"

	_, err := src.Search(context.Background(), "Stereolab", "Off-On")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)
}

func TestLRCLibMiss(t *testing.T) {
	t.Parallel()

	var src lyrics.LRCLib
	src.HTTPClient = clientutil.FSClient(responses, "testdata/lrclib")
	src.BaseURL = "file:///nothing"

	_, err := src.Search(context.Background(), "Stereolab", "Uhh Not a Song")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)
}

func TestGenius(t *testing.T) {
	t.Parallel()

	var src lyrics.Genius
	src.HTTPClient = clientutil.FSClient(responses, "testdata/genius")

	resp, err := src.Search(context.Background(), "Stereolab", "French Disko")
	require.NoError(t, err)
	assert.True(t, strings.Contains(resp.Plain, "Though this world's essentially"))
	assert.True(t, strings.Contains(resp.Plain, "It doesn't call for total withdrawal"))
	assert.True(t, strings.Contains(resp.Plain, "I've been told it's a fact of life"))
	assert.Empty(t, resp.Synced)
	assert.Equal(t, ".txt", resp.Ext())

	_, err = src.Search(context.Background(), "Stereolab", "Uhh Not a Song")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)
}

type sourceFunc func(ctx context.Context, artist, song string) (lyrics.Lyrics, error)

func (f sourceFunc) Search(ctx context.Context, artist, song string) (lyrics.Lyrics, error) {
	return f(ctx, artist, song)
}

func TestChainSource(t *testing.T) {
	t.Parallel()

	miss := sourceFunc(func(context.Context, string, string) (lyrics.Lyrics, error) {
		return lyrics.Lyrics{}, lyrics.ErrLyricsNotFound
	})
	hit := sourceFunc(func(context.Context, string, string) (lyrics.Lyrics, error) {
		return lyrics.Lyrics{Plain: "la la"}, nil
	})
	broken := sourceFunc(func(context.Context, string, string) (lyrics.Lyrics, error) {
		return lyrics.Lyrics{}, errors.New("tls handshake went sideways")
	})

	var calls int
	counting := sourceFunc(func(context.Context, string, string) (lyrics.Lyrics, error) {
		calls++
		return lyrics.Lyrics{Plain: "never"}, nil
	})

	// first hit wins, later sources untouched
	got, err := lyrics.ChainSource{hit, counting}.Search(context.Background(), "a", "s")
	require.NoError(t, err)
	assert.Equal(t, "la la", got.Plain)
	assert.Zero(t, calls)

	// misses fall through
	got, err = lyrics.ChainSource{miss, hit}.Search(context.Background(), "a", "s")
	require.NoError(t, err)
	assert.Equal(t, "la la", got.Plain)

	// a broken source doesn't starve the chain
	got, err = lyrics.ChainSource{broken, hit}.Search(context.Background(), "a", "s")
	require.NoError(t, err)
	assert.Equal(t, "la la", got.Plain)

	// nothing found anywhere
	_, err = lyrics.ChainSource{miss, miss}.Search(context.Background(), "a", "s")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)

	_, err = lyrics.ChainSource{}.Search(context.Background(), "a", "s")
	require.ErrorIs(t, err, lyrics.ErrLyricsNotFound)

	// breakage surfaces when nothing else matched
	_, err = lyrics.ChainSource{broken, miss}.Search(context.Background(), "a", "s")
	require.Error(t, err)
	assert.ErrorContains(t, err, "tls handshake went sideways")
	assert.NotErrorIs(t, err, lyrics.ErrLyricsNotFound)
}
