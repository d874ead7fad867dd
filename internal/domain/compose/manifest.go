package compose

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Manifest is the slot mapping written next to each atlas image.
type Manifest struct {
	Name   string
	Width  int
	Height int
	Slots  []ResolvedSlot
}

type manifestJSON struct {
	Name   string       `json:"name"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Slots  orderedSlots `json:"slots"`
}

// orderedSlots encodes as an object keyed by slot index, in slice order.
// encoding/json would sort map keys as strings ("1", "10", "2").
type orderedSlots []ResolvedSlot

func (o orderedSlots) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(s.Index)))
		buf.WriteByte(':')
		b, err := encodeJSON(s, "")
		if err != nil {
			return nil, err
		}
		buf.Write(bytes.TrimSuffix(b, []byte("\n")))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the manifest as 2-space indented JSON with a trailing
// newline. Output depends only on the manifest's contents.
func (m *Manifest) Encode() ([]byte, error) {
	return encodeJSON(manifestJSON{
		Name:   m.Name,
		Width:  m.Width,
		Height: m.Height,
		Slots:  orderedSlots(m.Slots),
	}, "  ")
}

// encodeJSON marshals v without HTML escaping, so names containing
// '<', '>' or '&' are written as-is.
func encodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Counts returns how many slots were filled from their own file and how
// many from the placeholder.
func (m *Manifest) Counts() (filled, placeholders int) {
	for _, s := range m.Slots {
		switch s.Origin {
		case OriginFile:
			filled++
		case OriginPlaceholder:
			placeholders++
		}
	}
	return filled, placeholders
}
