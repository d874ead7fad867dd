package ports

import (
	"image"
	"io"
)

// ImageCodec decodes atlas source images and encodes finished atlases.
// The concrete implementation lives in internal/adapters/imagecodec.
type ImageCodec interface {
	// Decode reads one image. Returns an error for unknown formats and
	// truncated or corrupt data.
	Decode(r io.Reader) (image.Image, error)

	// Encode writes img as PNG. Identical pixels must produce identical bytes.
	Encode(w io.Writer, img image.Image) error
}

// Reporter receives progress and diagnostics. OK marks a finished atlas,
// Info is plain progress, warnings are non-fatal (a slot left transparent)
// and errors describe a failed atlas.
type Reporter interface {
	OK(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) OK(string)    {}
func (NopReporter) Info(string)  {}
func (NopReporter) Warn(string)  {}
func (NopReporter) Error(string) {}
