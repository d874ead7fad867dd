// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "time"

// Ledger persists one record per atlas describing its most recent successful
// build. The backing store (bbolt) keeps records keyed by atlas name.
//
// Crash safety: Record must be transactional. A crash mid-write must not
// corrupt previously committed records.
type Ledger interface {
	// Record stores rec, replacing any earlier record for rec.Name.
	Record(rec *AtlasRecord) error

	// Lookup returns the record for an atlas.
	// Returns nil, nil if the atlas has never been recorded.
	Lookup(name string) (*AtlasRecord, error)

	// List returns every record ordered by atlas name (byte order).
	List() ([]*AtlasRecord, error)

	// Forget removes the record for an atlas.
	// Idempotent: forgetting an unknown atlas is not an error.
	Forget(name string) error
}

// AtlasRecord describes the outputs of one successful atlas build.
// Digests are hex-encoded BLAKE3-256 sums of the written files. Filled
// counts slots painted from their own file, Placeholders those painted
// from placeholder.png.
type AtlasRecord struct {
	Name           string    `json:"name"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Slots          int       `json:"slots"`
	Filled         int       `json:"filled"`
	Placeholders   int       `json:"placeholders"`
	ImageDigest    string    `json:"image_digest"`
	ManifestDigest string    `json:"manifest_digest"`
	BuiltAt        time.Time `json:"built_at"`
}

// SameOutput reports whether two records describe byte-identical outputs.
func (r *AtlasRecord) SameOutput(other *AtlasRecord) bool {
	if r == nil || other == nil {
		return false
	}
	return r.ImageDigest == other.ImageDigest && r.ManifestDigest == other.ManifestDigest
}
