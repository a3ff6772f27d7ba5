package pathformat_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jevonlipsey/albumfixer/pathformat"
)

func TestValidation(t *testing.T) {
	var pf pathformat.Format
	_, err := pf.Execute(pathformat.Data{})
	assert.Error(t, err) // we didn't initialise with Parse() yet

	// bad/ambiguous format
	assert.ErrorIs(t, pf.Parse(""), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse(" "), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse("🤤"), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}/{{ .Album }}`), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse(`/music/{{ .Artist }}/{{ .Album }}/{{ .Title }}`), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}/{{ .Album }}/{{ .Album }}`), pathformat.ErrAmbiguousFormat)
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}/static/static`), pathformat.ErrAmbiguousFormat)

	// bad data
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}//{{ .Title }}`), pathformat.ErrBadData)
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}/../{{ .Title }}/{{ .Track }}`), pathformat.ErrBadData)

	// good
	assert.NoError(t, pf.Parse(pathformat.DefaultFormat))
	assert.True(t, pf.Defined())
}

func TestExecute(t *testing.T) {
	var pf pathformat.Format
	require.NoError(t, pf.Parse(pathformat.DefaultFormat))

	path, err := pf.Execute(pathformat.Data{Artist: "Jay Rock", Album: "Redemption", Title: "Wow Freestyle", Track: 3, Ext: ".mp3"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("Jay Rock", "Redemption", "03 - Wow Freestyle.mp3"), path)

	// separators in tag data stay inside one path element
	path, err = pf.Execute(pathformat.Data{Artist: "AC/DC", Album: "Back in Black", Title: "Shoot to Thrill", Track: 2, Ext: ".flac"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("AC DC", "Back in Black", "02 - Shoot to Thrill.flac"), path)

	// unknown track numbers render as 00, like the two digit padding implies
	path, err = pf.Execute(pathformat.Data{Artist: "a", Album: "b", Title: "c", Track: 0, Ext: ".ogg"})
	require.NoError(t, err)
	assert.Equal(t, "00 - c.ogg", filepath.Base(path))

	_, err = pf.Execute(pathformat.Data{Artist: "", Album: "b", Title: "c", Track: 1, Ext: ".ogg"})
	assert.ErrorIs(t, err, pathformat.ErrBadData)
}

func TestZeroPadding(t *testing.T) {
	var pf pathformat.Format
	require.NoError(t, pf.Parse(pathformat.DefaultFormat))

	for n := 1; n <= 99; n++ {
		path, err := pf.Execute(pathformat.Data{Artist: "a", Album: "b", Title: "c", Track: n, Ext: ".mp3"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filepath.Base(path), fmt.Sprintf("%02d - ", n)), "track %d", n)
	}
}
