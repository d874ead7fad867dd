package layout

import "fmt"

// Validate checks cfg and returns a *ValidationError describing the first
// violated rule. Rules are applied in a fixed order so the same bad config
// always yields the same message: canvas size, slot list, then each slot in
// listed order (index, uniqueness, size, bounds, filename). cfg is not
// modified.
func Validate(cfg *AtlasConfig) error {
	if cfg == nil {
		return invalid(ClauseSlotsEmpty, "config is empty")
	}

	cw, ch := cfg.CanvasWidth, cfg.CanvasHeight
	if cw <= 0 || ch <= 0 {
		return invalid(ClauseCanvas, "canvas dimensions must be positive")
	}
	if cw > MaxCanvas || ch > MaxCanvas {
		return invalid(ClauseCanvas, fmt.Sprintf("canvas dimensions must be <= %d", MaxCanvas))
	}

	if len(cfg.Slots) == 0 {
		return invalid(ClauseSlotsEmpty, "slots must be a non-empty list after config processing")
	}

	seen := make(map[int]struct{}, len(cfg.Slots))
	for _, s := range cfg.Slots {
		if s.Index < 1 {
			return invalid(ClauseIndex, fmt.Sprintf("slot index must be integer >= 1, got %d", s.Index))
		}
		if _, dup := seen[s.Index]; dup {
			return invalid(ClauseDuplicateIndex, fmt.Sprintf("duplicate slot index detected: %d", s.Index))
		}
		seen[s.Index] = struct{}{}

		if s.W <= 0 || s.H <= 0 {
			return invalid(ClauseSize, fmt.Sprintf("slot %d must have positive width/height", s.Index))
		}
		// Written as w > cw-x so huge coordinates cannot overflow the sum.
		if s.X < 0 || s.Y < 0 || s.X > cw || s.Y > ch || s.W > cw-s.X || s.H > ch-s.Y {
			return invalid(ClauseBounds, fmt.Sprintf(
				"slot %d bounds exceed canvas: x=%d,y=%d,w=%d,h=%d, canvas=%dx%d",
				s.Index, s.X, s.Y, s.W, s.H, cw, ch))
		}

		if !IsSafeFilename(s.Filename) {
			return invalid(ClauseFilename, fmt.Sprintf("slot %d filename is unsafe: '%s'", s.Index, s.Filename))
		}
	}
	return nil
}

func invalid(c Clause, reason string) *ValidationError {
	return &ValidationError{Clause: c, Reason: reason}
}
