// Package layout resolves and validates atlas slot layouts.
//
// A layout comes from an atlas folder's config.json in one of two shapes
// (an explicit slot list, or a cols/rows grid description) or, when the
// document is absent, from the default 4x4 grid. Every shape is resolved
// once into an AtlasConfig with all defaults filled in; Validate then checks
// it exhaustively before anything is composited.
package layout

import "fmt"

// Process-wide layout limits and defaults.
const (
	MaxCanvas     = 2048
	DefaultCanvas = 2048
	DefaultSlot   = 512
	DefaultCols   = 4
	DefaultRows   = 4

	// ConfigFile is the per-folder layout document.
	ConfigFile = "config.json"
)

// AtlasConfig is the canonical layout of one atlas.
type AtlasConfig struct {
	CanvasWidth  int
	CanvasHeight int
	Slots        []SlotSpec
}

// SlotSpec is one target region of the canvas. Index defines paint order,
// not position. Filename is always populated by the normalizer.
type SlotSpec struct {
	Index    int
	X        int
	Y        int
	W        int
	H        int
	Filename string
}

// DefaultFilename returns the source name a slot uses when its config
// does not name one.
func DefaultFilename(index int) string {
	return fmt.Sprintf("%d.png", index)
}

// DefaultGrid returns the layout used when a folder has no config.json:
// a 2048x2048 canvas split into 16 slots of 512x512.
func DefaultGrid() *AtlasConfig {
	return &AtlasConfig{
		CanvasWidth:  DefaultCanvas,
		CanvasHeight: DefaultCanvas,
		Slots:        gridSlots(DefaultCols, DefaultRows, DefaultSlot, DefaultSlot),
	}
}

// gridSlots generates rows*cols slots in row-major order: index 1 is the
// top-left cell, indices run left to right then top to bottom.
func gridSlots(cols, rows, slotW, slotH int) []SlotSpec {
	slots := make([]SlotSpec, 0, cols*rows)
	for i := 0; i < cols*rows; i++ {
		col := i % cols
		row := i / cols
		slots = append(slots, SlotSpec{
			Index:    i + 1,
			X:        col * slotW,
			Y:        row * slotH,
			W:        slotW,
			H:        slotH,
			Filename: DefaultFilename(i + 1),
		})
	}
	return slots
}
