// Package compose paints atlas canvases from a validated layout.
//
// Slots are painted in ascending index order. Each slot takes its pixels
// from its own source file when present, otherwise from the folder's
// placeholder, otherwise it stays transparent. Images are fitted with
// resize-to-cover and a centered crop, then drawn source-over onto the
// canvas so transparent source pixels leave earlier content visible. A
// partially transparent pixel keeps its own alpha over an empty canvas.
package compose

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/corey/atlaspack/internal/domain/layout"
	"github.com/corey/atlaspack/internal/ports"
)

// PlaceholderFile is the optional per-folder fallback image.
const PlaceholderFile = "placeholder.png"

// ErrAsset means a source or placeholder file exists but cannot be decoded.
var ErrAsset = errors.New("asset error")

// Origin says which of the three possible sources painted a slot.
type Origin int

const (
	OriginNone Origin = iota
	OriginFile
	OriginPlaceholder
)

// ResolvedSlot records where a slot's pixels came from. Source is the
// slot's filename, PlaceholderFile, or nil for a transparent slot.
type ResolvedSlot struct {
	Index  int     `json:"-"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	W      int     `json:"w"`
	H      int     `json:"h"`
	Source *string `json:"source"`
	Origin Origin  `json:"-"`
}

// Compositor paints atlases. Codec decodes source files; Filter is the
// resampling filter used when fitting images to slots.
type Compositor struct {
	Codec    ports.ImageCodec
	Filter   imaging.ResampleFilter
	Reporter ports.Reporter
}

// NewCompositor returns a Compositor. A nil reporter discards warnings.
func NewCompositor(codec ports.ImageCodec, filter imaging.ResampleFilter, reporter ports.Reporter) *Compositor {
	if reporter == nil {
		reporter = ports.NopReporter{}
	}
	return &Compositor{Codec: codec, Filter: filter, Reporter: reporter}
}

// LoadPlaceholder decodes dir/placeholder.png. Returns nil, nil when the
// folder has none. A placeholder that exists but cannot be decoded is an
// ErrAsset error.
func (c *Compositor) LoadPlaceholder(dir string) (image.Image, error) {
	path := filepath.Join(dir, PlaceholderFile)
	ok, err := isFile(path)
	if err != nil || !ok {
		return nil, err
	}
	img, err := c.decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("placeholder.png present but could not be opened: %w", err)
	}
	return img, nil
}

// Composite paints cfg onto a new transparent canvas, taking source files
// from dir. placeholder may be nil. cfg must already have passed
// layout.Validate; it is not modified.
func (c *Compositor) Composite(cfg *layout.AtlasConfig, dir string, placeholder image.Image) (*image.NRGBA, []ResolvedSlot, error) {
	atlas := filepath.Base(dir)
	canvas := imaging.New(cfg.CanvasWidth, cfg.CanvasHeight, color.NRGBA{})

	slots := slices.Clone(cfg.Slots)
	slices.SortStableFunc(slots, func(a, b layout.SlotSpec) int { return cmp.Compare(a.Index, b.Index) })

	resolved := make([]ResolvedSlot, 0, len(slots))
	for _, s := range slots {
		// Joined onto dir below; checked again whatever Validate said.
		if !layout.IsSafeFilename(s.Filename) {
			return nil, nil, fmt.Errorf("%w: unsafe filename '%s' in atlas '%s' slot %d",
				layout.ErrConfigValidation, s.Filename, atlas, s.Index)
		}

		img, source, origin, err := c.resolveSource(dir, s.Filename, placeholder)
		if err != nil {
			return nil, nil, fmt.Errorf("slot %d: %w", s.Index, err)
		}

		if img != nil {
			fitted := Fit(img, s.W, s.H, c.Filter)
			xdraw.Draw(canvas, image.Rect(s.X, s.Y, s.X+s.W, s.Y+s.H), fitted, image.Point{}, xdraw.Over)
		} else {
			c.Reporter.Warn(fmt.Sprintf("Atlas '%s': missing '%s' and no placeholder -> leaving transparent slot %d.",
				atlas, s.Filename, s.Index))
		}

		resolved = append(resolved, ResolvedSlot{
			Index:  s.Index,
			X:      s.X,
			Y:      s.Y,
			W:      s.W,
			H:      s.H,
			Source: source,
			Origin: origin,
		})
	}
	return canvas, resolved, nil
}

// resolveSource picks the image for one slot: its own file, then a copy
// of the placeholder, then nothing.
func (c *Compositor) resolveSource(dir, filename string, placeholder image.Image) (image.Image, *string, Origin, error) {
	path := filepath.Join(dir, filename)
	ok, err := isFile(path)
	if err != nil {
		return nil, nil, OriginNone, err
	}
	if ok {
		img, err := c.decodeFile(path)
		if err != nil {
			return nil, nil, OriginNone, err
		}
		return img, &filename, OriginFile, nil
	}

	if placeholder != nil {
		name := PlaceholderFile
		return imaging.Clone(placeholder), &name, OriginPlaceholder, nil
	}
	return nil, nil, OriginNone, nil
}

func (c *Compositor) decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed opening '%s': %v", ErrAsset, path, err)
	}
	defer f.Close()

	img, err := c.Codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed opening '%s': %v", ErrAsset, path, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image '%s' has no pixels", ErrAsset, path)
	}
	return img, nil
}

// isFile reports whether path names a regular file (following symlinks).
// A missing path is not an error; any other stat failure is, so an
// unreadable asset is never mistaken for an absent one.
func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat '%s': %v", ErrAsset, path, err)
	}
	return info.Mode().IsRegular(), nil
}
