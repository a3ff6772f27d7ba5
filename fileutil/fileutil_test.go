package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jevonlipsey/albumfixer/fileutil"
)

func TestSafePath(t *testing.T) {
	assert.Equal(t, "hello", fileutil.SafePath("hello"))
	assert.Equal(t, "hello", fileutil.SafePath("hello/"))
	assert.Equal(t, "hello a", fileutil.SafePath("hello/a"))
	assert.Equal(t, "hello a", fileutil.SafePath("hello / a"))
	assert.Equal(t, "hello", fileutil.SafePath("hel\x00lo"))
	assert.Equal(t, "a b", fileutil.SafePath("a  b"))
	assert.Equal(t, "(2004) Kesto (234.484)", fileutil.SafePath("(2004) Kesto (234.48:4)"))
	assert.Equal(t, "01.33 Rahina I Mayhem I", fileutil.SafePath("01.33 Rähinä I Mayhem I"))
	assert.Equal(t, "What Is Love", fileutil.SafePath(`What Is "Love?"`))
	assert.Equal(t, "Mr", fileutil.SafePath("Mr."))
	assert.Equal(t, "AMSP", fileutil.SafePath("A<M>S|P"))
}

func TestGlobEscape(t *testing.T) {
	assert.Equal(t, "a[*]b", fileutil.GlobEscape("a*b"))
	assert.Equal(t, "What[?] Ep[[]live]", fileutil.GlobEscape("What? Ep[live]"))
	assert.Equal(t, "plain", fileutil.GlobEscape("plain"))
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a", "track.mp3")
	dest := filepath.Join(dir, "b", "track.mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0o644))
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	require.NoError(t, fileutil.Move(src, dest))

	_, err := os.Stat(src)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))

	require.Error(t, fileutil.Move(filepath.Join(dir, "missing"), dest))
}
