package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Load resolves the layout of the atlas folder at dir. A folder without a
// regular config.json file gets DefaultGrid. The result is not validated;
// callers pass it to Validate.
func Load(dir string) (*AtlasConfig, error) {
	path := filepath.Join(dir, ConfigFile)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return DefaultGrid(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", ConfigFile, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}
	return Parse(data)
}

// Parse resolves a config.json document into an AtlasConfig. The document
// may contain comments and trailing commas. A list-typed "slots" field
// selects explicit mode; anything else is read as a grid description.
func Parse(data []byte) (*AtlasConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrConfigParse, ConfigFile, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: failed to parse %s: unexpected data after document", ErrConfigParse, ConfigFile)
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must contain a JSON object", ErrConfigParse, ConfigFile)
	}

	if list, ok := doc["slots"].([]any); ok {
		return explicitConfig(doc, list)
	}
	return gridConfig(doc)
}

func explicitConfig(doc map[string]any, list []any) (*AtlasConfig, error) {
	cw, err := docInt(doc, "canvas_width", DefaultCanvas)
	if err != nil {
		return nil, err
	}
	ch, err := docInt(doc, "canvas_height", DefaultCanvas)
	if err != nil {
		return nil, err
	}

	slots := make([]SlotSpec, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: slot entry #%d must be an object", ErrConfigType, i+1)
		}

		var vals [5]int
		for j, name := range [5]string{"index", "x", "y", "w", "h"} {
			v, present := m[name]
			if !present {
				return nil, fmt.Errorf("%w: slot entry #%d is missing '%s'", ErrConfigType, i+1, name)
			}
			n, ok := toInt(v)
			if !ok {
				return nil, fmt.Errorf("%w: slot entry #%d property '%s' must be an integer", ErrConfigType, i+1, name)
			}
			vals[j] = n
		}

		s := SlotSpec{Index: vals[0], X: vals[1], Y: vals[2], W: vals[3], H: vals[4]}
		switch fn := m["filename"].(type) {
		case nil:
			s.Filename = DefaultFilename(s.Index)
		case string:
			s.Filename = fn
		default:
			return nil, fmt.Errorf("%w: slot %d property 'filename' must be a string", ErrConfigType, s.Index)
		}
		slots = append(slots, s)
	}

	return &AtlasConfig{CanvasWidth: cw, CanvasHeight: ch, Slots: slots}, nil
}

func gridConfig(doc map[string]any) (*AtlasConfig, error) {
	var cols, rows, slotW, slotH int
	for _, f := range []struct {
		key string
		def int
		dst *int
	}{
		{"cols", DefaultCols, &cols},
		{"rows", DefaultRows, &rows},
		{"slot_width", DefaultSlot, &slotW},
		{"slot_height", DefaultSlot, &slotH},
	} {
		n, err := docInt(doc, f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = n
	}

	cw, err := docInt(doc, "canvas_width", cols*slotW)
	if err != nil {
		return nil, err
	}
	ch, err := docInt(doc, "canvas_height", rows*slotH)
	if err != nil {
		return nil, err
	}

	// Checked before generation so a hostile grid cannot allocate
	// millions of slots only to be rejected afterwards.
	if cw > MaxCanvas || ch > MaxCanvas {
		return nil, fmt.Errorf("%w: generated canvas (%dx%d) exceeds max canvas %d", ErrConfigBounds, cw, ch, MaxCanvas)
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: grid must have at least one column and one row, got %dx%d", ErrConfigBounds, cols, rows)
	}
	if slotW <= 0 || slotH <= 0 {
		return nil, fmt.Errorf("%w: slot_width and slot_height must be positive, got %dx%d", ErrConfigBounds, slotW, slotH)
	}
	// The grid must fit the largest canvas on its own, whatever the
	// canvas fields say; a non-positive canvas is left to Validate.
	if cols*slotW > MaxCanvas || rows*slotH > MaxCanvas {
		return nil, fmt.Errorf("%w: grid of %dx%d slots sized %dx%d exceeds max canvas %d",
			ErrConfigBounds, cols, rows, slotW, slotH, MaxCanvas)
	}
	if cw > 0 && ch > 0 && (cols*slotW > cw || rows*slotH > ch) {
		return nil, fmt.Errorf("%w: grid of %dx%d slots sized %dx%d exceeds canvas %dx%d",
			ErrConfigBounds, cols, rows, slotW, slotH, cw, ch)
	}

	return &AtlasConfig{
		CanvasWidth:  cw,
		CanvasHeight: ch,
		Slots:        gridSlots(cols, rows, slotW, slotH),
	}, nil
}

// docInt reads an optional integer field, returning def when it is absent.
func docInt(doc map[string]any, key string, def int) (int, error) {
	v, ok := doc[key]
	if !ok {
		return def, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: '%s' must be an integer", ErrConfigType, key)
	}
	return n, nil
}

// toInt coerces a decoded JSON value to an int. Integers pass through,
// fractional numbers truncate toward zero and numeric strings are parsed.
// Values outside the 32-bit range are refused so later arithmetic on
// coordinates cannot overflow.
func toInt(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return 0, false
			}
			return int(n), true
		}
		var err error
		if f, err = t.Float64(); err != nil {
			return 0, false
		}
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}

	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
