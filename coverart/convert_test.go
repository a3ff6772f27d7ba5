package coverart_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/jevonlipsey/albumfixer/coverart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertDownscales(t *testing.T) {
	t.Parallel()

	out, err := coverart.Convert(encodePNG(t, 1000, 600), 500)
	require.NoError(t, err)

	format, width, height := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 500, width)
	assert.Equal(t, 300, height)

	// portrait scales on its long side too
	out, err = coverart.Convert(encodePNG(t, 300, 800), 400)
	require.NoError(t, err)

	_, width, height = decodeConfig(t, out)
	assert.Equal(t, 150, width)
	assert.Equal(t, 400, height)
}

func TestConvertKeepsSmall(t *testing.T) {
	t.Parallel()

	out, err := coverart.Convert(encodePNG(t, 300, 200), 500)
	require.NoError(t, err)

	format, width, height := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, width)
	assert.Equal(t, 200, height)

	out, err = coverart.Convert(encodePNG(t, 500, 500), 500)
	require.NoError(t, err)

	_, width, height = decodeConfig(t, out)
	assert.Equal(t, 500, width)
	assert.Equal(t, 500, height)
}

func TestConvertGarbage(t *testing.T) {
	t.Parallel()

	_, err := coverart.Convert([]byte("no image here"), 500)
	require.Error(t, err)
}

func TestConvertIdempotent(t *testing.T) {
	t.Parallel()

	out, err := coverart.Convert(encodePNG(t, 1000, 600), 500)
	require.NoError(t, err)
	assert.False(t, coverart.NeedsConvert(out, 500))

	again, err := coverart.Convert(out, 500)
	require.NoError(t, err)

	_, width, height := decodeConfig(t, again)
	assert.Equal(t, 500, width)
	assert.Equal(t, 300, height)
}

func TestNeedsConvert(t *testing.T) {
	t.Parallel()

	assert.True(t, coverart.NeedsConvert(encodePNG(t, 100, 100), 500), "wrong format")
	assert.True(t, coverart.NeedsConvert([]byte("no image here"), 500), "undecodable")

	big, err := coverart.Convert(encodePNG(t, 600, 600), 600)
	require.NoError(t, err)
	assert.True(t, coverart.NeedsConvert(big, 500), "jpeg but outside the box")
	assert.False(t, coverart.NeedsConvert(big, 600))

	small, err := coverart.Convert(encodePNG(t, 100, 100), 500)
	require.NoError(t, err)
	assert.False(t, coverart.NeedsConvert(small, 500))
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) (format string, width, height int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return format, cfg.Width, cfg.Height
}
