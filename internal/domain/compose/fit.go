package compose

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// filters maps --filter names to resampling filters.
var filters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// DefaultFilter is the resampling filter used when none is configured.
const DefaultFilter = "lanczos"

// ParseFilter resolves a filter name (case-insensitive).
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	if f, ok := filters[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	names := make([]string, 0, len(filters))
	for n := range filters {
		names = append(names, n)
	}
	sort.Strings(names)
	return imaging.ResampleFilter{}, fmt.Errorf("unknown filter %q (want one of %s)", name, strings.Join(names, ", "))
}

// CoverSize returns the size img must be resized to so that it covers a
// w x h slot while keeping its aspect ratio. Both results are at least
// w and h respectively. Halves round to even.
func CoverSize(imgW, imgH, w, h int) (int, int) {
	scale := math.Max(float64(w)/float64(imgW), float64(h)/float64(imgH))
	nw := int(math.RoundToEven(float64(imgW) * scale))
	nh := int(math.RoundToEven(float64(imgH) * scale))
	return max(nw, w), max(nh, h)
}

// Fit scales img to cover a w x h slot and crops the centered w x h window.
// The crop offset uses floor division, so odd excess leaves the extra pixel
// on the right and bottom. img is not modified.
func Fit(img image.Image, w, h int, filter imaging.ResampleFilter) *image.NRGBA {
	b := img.Bounds()
	nw, nh := CoverSize(b.Dx(), b.Dy(), w, h)

	resized := imaging.Resize(img, nw, nh, filter)
	left := (nw - w) / 2
	top := (nh - h) / 2
	return imaging.Crop(resized, image.Rect(left, top, left+w, top+h))
}
