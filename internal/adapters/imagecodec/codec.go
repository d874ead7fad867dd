// Package imagecodec implements ports.ImageCodec on top of
// github.com/disintegration/imaging, with golang.org/x/image registering
// BMP, TIFF and WebP sources. Atlases are always written as PNG.
package imagecodec

import (
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"

	// Registered source formats beyond imaging's own.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Codec implements ports.ImageCodec.
type Codec struct {
	level png.CompressionLevel
}

// New returns a Codec writing PNGs at the given compression level.
func New(level png.CompressionLevel) *Codec {
	return &Codec{level: level}
}

// Decode reads one image in any registered format. EXIF orientation is
// ignored so pixels are used exactly as stored.
func (c *Codec) Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(false))
}

// Encode writes img as PNG. The encoder is deterministic, so equal pixels
// give equal bytes.
func (c *Codec) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(c.level))
}

// Formats lists the registered source formats.
func Formats() []string {
	return []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}
}
