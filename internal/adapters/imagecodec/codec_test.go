package imagecodec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 200, A: uint8(128 + x)})
		}
	}
	return img
}

func TestCodec_EncodeIsDeterministic(t *testing.T) {
	c := New(png.DefaultCompression)
	img := gradient(32, 16)

	var a, b bytes.Buffer
	require.NoError(t, c.Encode(&a, img))
	require.NoError(t, c.Encode(&b, img))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestCodec_RoundTripKeepsPixels(t *testing.T) {
	c := New(png.BestCompression)
	img := gradient(8, 8)

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, img))

	got, err := c.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())
	assert.Equal(t, img.At(3, 5), color.NRGBAModel.Convert(got.At(3, 5)))
}

func TestCodec_DecodesBMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}
	src.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	got, err := New(png.DefaultCompression).Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Bounds().Dx())
	assert.Equal(t, 3, got.Bounds().Dy())
	r, _, _, a := got.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	_, err := New(png.DefaultCompression).Decode(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)

	// A truncated PNG is an error, not a partial image.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(16, 16)))
	_, err = New(png.DefaultCompression).Decode(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	assert.Contains(t, Formats(), "png")
	assert.Contains(t, Formats(), "webp")
}
