package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/enrollhq/enroll/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	return buf.Bytes()
}

func TestNormalizeSquareOutput(t *testing.T) {
	p := New(240, 240)

	for _, dims := range [][2]int{{240, 240}, {640, 480}, {300, 900}, {241, 240}} {
		out, err := p.Normalize(context.Background(), encodePNG(t, dims[0], dims[1]))
		require.NoError(t, err, "input %dx%d", dims[0], dims[1])

		img, err := imaging.Decode(bytes.NewReader(out))
		require.NoError(t, err)

		assert.Equal(t, 240, img.Bounds().Dx())
		assert.Equal(t, 240, img.Bounds().Dy())
	}
}

func TestNormalizeOutputIsJPEG(t *testing.T) {
	p := New(240, 240)

	out, err := p.Normalize(context.Background(), encodePNG(t, 400, 400))
	require.NoError(t, err)

	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalizeBelowMinimumDimensions(t *testing.T) {
	p := New(240, 240)

	for _, dims := range [][2]int{{239, 240}, {240, 239}, {100, 100}} {
		_, err := p.Normalize(context.Background(), encodePNG(t, dims[0], dims[1]))
		require.Error(t, err, "input %dx%d", dims[0], dims[1])
		assert.ErrorIs(t, err, errs.ErrValidation)
	}
}

func TestNormalizeUndecodable(t *testing.T) {
	p := New(240, 240)

	_, err := p.Normalize(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)
}
