package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(body), 0644))
}

func TestLoad_NoConfigUsesDefaultGrid(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.CanvasWidth)
	assert.Equal(t, 2048, cfg.CanvasHeight)
	require.Len(t, cfg.Slots, 16)

	for i, s := range cfg.Slots {
		assert.Equal(t, i+1, s.Index)
		assert.Equal(t, 512, s.W)
		assert.Equal(t, 512, s.H)
		assert.Equal(t, DefaultFilename(i+1), s.Filename)
	}

	assert.Equal(t, SlotSpec{Index: 1, X: 0, Y: 0, W: 512, H: 512, Filename: "1.png"}, cfg.Slots[0])
	assert.Equal(t, SlotSpec{Index: 2, X: 512, Y: 0, W: 512, H: 512, Filename: "2.png"}, cfg.Slots[1])
	assert.Equal(t, SlotSpec{Index: 5, X: 0, Y: 512, W: 512, H: 512, Filename: "5.png"}, cfg.Slots[4])
	assert.Equal(t, SlotSpec{Index: 16, X: 1536, Y: 1536, W: 512, H: 512, Filename: "16.png"}, cfg.Slots[15])
	assert.NoError(t, Validate(cfg))
}

func TestLoad_ConfigDirectoryIsIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ConfigFile), 0755))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, cfg.Slots, 16)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"cols": 2, "rows": 1, "slot_width": 64, "slot_height": 32}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.CanvasWidth)
	assert.Equal(t, 32, cfg.CanvasHeight)
	require.Len(t, cfg.Slots, 2)
	assert.Equal(t, SlotSpec{Index: 2, X: 64, Y: 0, W: 64, H: 32, Filename: "2.png"}, cfg.Slots[1])
}

func TestParse_ExplicitMode(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"canvas_width": 300,
		"canvas_height": 200,
		"extra": "ignored",
		"slots": [
			{"index": 2, "x": 100, "y": 0, "w": 100, "h": 100, "filename": "hero.png"},
			{"index": 1, "x": 0, "y": 0, "w": 100, "h": 100}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.CanvasWidth)
	assert.Equal(t, 200, cfg.CanvasHeight)
	require.Len(t, cfg.Slots, 2)

	// Listed order is kept; sorting by index is the compositor's job.
	assert.Equal(t, SlotSpec{Index: 2, X: 100, Y: 0, W: 100, H: 100, Filename: "hero.png"}, cfg.Slots[0])
	assert.Equal(t, SlotSpec{Index: 1, X: 0, Y: 0, W: 100, H: 100, Filename: "1.png"}, cfg.Slots[1])
}

func TestParse_ExplicitModeDefaultsCanvas(t *testing.T) {
	cfg, err := Parse([]byte(`{"slots": [{"index": 1, "x": 0, "y": 0, "w": 10, "h": 10, "filename": null}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultCanvas, cfg.CanvasWidth)
	assert.Equal(t, DefaultCanvas, cfg.CanvasHeight)
	assert.Equal(t, "1.png", cfg.Slots[0].Filename)
}

func TestParse_ExplicitModeCoercesNumbers(t *testing.T) {
	cfg, err := Parse([]byte(`{"canvas_width": "64", "canvas_height": 64.9,
		"slots": [{"index": "3", "x": 1.7, "y": " 2 ", "w": 10, "h": 10.0}]}`))
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.CanvasWidth)
	assert.Equal(t, 64, cfg.CanvasHeight)
	assert.Equal(t, SlotSpec{Index: 3, X: 1, Y: 2, W: 10, H: 10, Filename: "3.png"}, cfg.Slots[0])
}

func TestParse_ExplicitModeEmptyListFailsValidation(t *testing.T) {
	cfg, err := Parse([]byte(`{"slots": []}`))
	require.NoError(t, err)

	var ve *ValidationError
	require.True(t, errors.As(Validate(cfg), &ve))
	assert.Equal(t, ClauseSlotsEmpty, ve.Clause)
}

func TestParse_ExplicitModeUnsafeFilenamePassesThrough(t *testing.T) {
	cfg, err := Parse([]byte(`{"slots": [{"index": 1, "x": 0, "y": 0, "w": 8, "h": 8, "filename": "../../etc/passwd"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "../../etc/passwd", cfg.Slots[0].Filename)

	var ve *ValidationError
	require.True(t, errors.As(Validate(cfg), &ve))
	assert.Equal(t, ClauseFilename, ve.Clause)
}

func TestParse_TypeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"missing index", `{"slots": [{"x": 0, "y": 0, "w": 1, "h": 1}]}`, "slot entry #1 is missing 'index'"},
		{"missing h", `{"slots": [{"index": 1, "x": 0, "y": 0, "w": 1}]}`, "slot entry #1 is missing 'h'"},
		{"non-numeric w", `{"slots": [{"index": 1, "x": 0, "y": 0, "w": "wide", "h": 1}]}`, "slot entry #1 property 'w' must be an integer"},
		{"boolean x", `{"slots": [{"index": 1, "x": true, "y": 0, "w": 1, "h": 1}]}`, "slot entry #1 property 'x' must be an integer"},
		{"null y", `{"slots": [{"index": 1, "x": 0, "y": null, "w": 1, "h": 1}]}`, "slot entry #1 property 'y' must be an integer"},
		{"entry not an object", `{"slots": [{"index": 1, "x": 0, "y": 0, "w": 1, "h": 1}, 7]}`, "slot entry #2 must be an object"},
		{"filename not a string", `{"slots": [{"index": 4, "x": 0, "y": 0, "w": 1, "h": 1, "filename": 12}]}`, "slot 4 property 'filename' must be a string"},
		{"canvas not numeric", `{"canvas_width": [1], "slots": []}`, "'canvas_width' must be an integer"},
		{"grid cols not numeric", `{"cols": "four"}`, "'cols' must be an integer"},
		{"out of range", `{"slots": [{"index": 1, "x": 1e12, "y": 0, "w": 1, "h": 1}]}`, "slot entry #1 property 'x' must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = Parse([]byte(tt.doc)) })
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigType), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParse_ParseErrors(t *testing.T) {
	for _, doc := range []string{
		``,
		`{not json`,
		`[1, 2, 3]`,
		`"slots"`,
		`null`,
		`{"cols": 2} {"cols": 3}`,
	} {
		_, err := Parse([]byte(doc))
		require.Error(t, err, "doc %q", doc)
		assert.True(t, errors.Is(err, ErrConfigParse), "doc %q: got %v", doc, err)
	}
}

func TestParse_AcceptsCommentsAndTrailingCommas(t *testing.T) {
	cfg, err := Parse([]byte(`{
		// two columns of icons
		"cols": 2,
		"rows": 2,
		/* small slots */
		"slot_width": 16,
		"slot_height": 16,
	}`))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.CanvasWidth)
	assert.Len(t, cfg.Slots, 4)
}

func TestParse_GridModeDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultGrid(), cfg)
}

func TestParse_GridModeIgnoresNonListSlots(t *testing.T) {
	cfg, err := Parse([]byte(`{"slots": {"index": 1}, "cols": 1, "rows": 1, "slot_width": 8, "slot_height": 8}`))
	require.NoError(t, err)
	require.Len(t, cfg.Slots, 1)
	assert.Equal(t, SlotSpec{Index: 1, X: 0, Y: 0, W: 8, H: 8, Filename: "1.png"}, cfg.Slots[0])
}

func TestParse_GridModeExplicitCanvas(t *testing.T) {
	cfg, err := Parse([]byte(`{"cols": 3, "rows": 2, "slot_width": 100, "slot_height": 50,
		"canvas_width": 512, "canvas_height": 256}`))
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.CanvasWidth)
	assert.Equal(t, 256, cfg.CanvasHeight)
	require.Len(t, cfg.Slots, 6)
	assert.Equal(t, SlotSpec{Index: 3, X: 200, Y: 0, W: 100, H: 50, Filename: "3.png"}, cfg.Slots[2])
	assert.Equal(t, SlotSpec{Index: 4, X: 0, Y: 50, W: 100, H: 50, Filename: "4.png"}, cfg.Slots[3])
	assert.Equal(t, SlotSpec{Index: 6, X: 200, Y: 50, W: 100, H: 50, Filename: "6.png"}, cfg.Slots[5])
	assert.NoError(t, Validate(cfg))
}

func TestParse_GridModeBounds(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"generated canvas too wide", `{"cols": 5, "slot_width": 512}`, "generated canvas (2560x2048) exceeds max canvas 2048"},
		{"explicit canvas too tall", `{"canvas_height": 4096}`, "generated canvas (2048x4096) exceeds max canvas 2048"},
		{"zero columns", `{"cols": 0}`, "at least one column and one row"},
		{"negative rows", `{"rows": -2, "canvas_height": 64}`, "at least one column and one row"},
		{"zero slot width", `{"slot_width": 0, "canvas_width": 64}`, "slot_width and slot_height must be positive"},
		{"grid past canvas", `{"cols": 4, "slot_width": 100, "canvas_width": 300}`, "exceeds canvas 300x2048"},
		{"hostile slot count", `{"cols": 100000000, "rows": 100000000, "slot_width": 0, "slot_height": 0, "canvas_width": 16, "canvas_height": 16}`, "must be positive"},
		{"huge grid on zero canvas", `{"cols": 100000000, "rows": 100000000, "slot_width": 1, "slot_height": 1, "canvas_width": 0, "canvas_height": 0}`, "exceeds max canvas 2048"},
		{"huge grid on negative canvas", `{"cols": 3000, "rows": 1, "slot_width": 1, "slot_height": 1, "canvas_width": -1, "canvas_height": -1}`, "grid of 3000x1 slots sized 1x1 exceeds max canvas 2048"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = Parse([]byte(tt.doc)) })
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigBounds), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParse_GridModeZeroCanvasLeftToValidate(t *testing.T) {
	cfg, err := Parse([]byte(`{"cols": 1, "rows": 1, "canvas_width": 0}`))
	require.NoError(t, err)

	var ve *ValidationError
	require.True(t, errors.As(Validate(cfg), &ve))
	assert.Equal(t, ClauseCanvas, ve.Clause)
}
