package layout

import "errors"

// Sentinel errors. Every error returned by this package wraps one of them.
var (
	// ErrConfigParse means config.json exists but is not a JSON object.
	ErrConfigParse = errors.New("config parse error")

	// ErrConfigType means a field has the wrong type or a required slot
	// field is missing.
	ErrConfigType = errors.New("config type error")

	// ErrConfigBounds means a grid description generates a canvas or grid
	// that cannot fit the limits. Raised before any slot is generated.
	ErrConfigBounds = errors.New("config bounds error")

	// ErrConfigValidation means a resolved config was rejected by Validate.
	ErrConfigValidation = errors.New("config validation error")
)

// Clause identifies which validation rule rejected a config.
type Clause int

const (
	ClauseCanvas Clause = iota
	ClauseSlotsEmpty
	ClauseIndex
	ClauseDuplicateIndex
	ClauseSize
	ClauseBounds
	ClauseFilename
)

// String returns the clause name.
func (c Clause) String() string {
	switch c {
	case ClauseCanvas:
		return "canvas"
	case ClauseSlotsEmpty:
		return "slots_empty"
	case ClauseIndex:
		return "index"
	case ClauseDuplicateIndex:
		return "duplicate_index"
	case ClauseSize:
		return "size"
	case ClauseBounds:
		return "bounds"
	case ClauseFilename:
		return "filename"
	default:
		return "unknown"
	}
}

// ValidationError is returned by Validate. Reason is the human-readable
// message shown to the user.
type ValidationError struct {
	Clause Clause
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Unwrap lets errors.Is match ErrConfigValidation.
func (e *ValidationError) Unwrap() error { return ErrConfigValidation }
