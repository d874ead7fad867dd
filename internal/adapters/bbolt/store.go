// Package bbolt implements the ports.Ledger interface using bbolt (embedded B+ tree).
// All records live in one "atlases" bucket keyed by atlas name, JSON-serialized.
// Writes are transactional: a crash mid-write cannot corrupt previously
// committed records.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/atlaspack/internal/ports"
)

// Bucket keys
var bucketAtlases = []byte("atlases")

// Store implements ports.Ledger backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores rec, replacing any earlier record for the same atlas.
func (s *Store) Record(rec *ports.AtlasRecord) error {
	if rec == nil {
		return fmt.Errorf("nil atlas record")
	}
	if rec.Name == "" {
		return fmt.Errorf("atlas record has no name")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal atlas record: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketAtlases)
		if err != nil {
			return err
		}
		return b.Put([]byte(rec.Name), data)
	})
}

// Lookup returns the record for an atlas.
// Returns nil, nil if the atlas has never been recorded.
func (s *Store) Lookup(name string) (*ports.AtlasRecord, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAtlases)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var rec ports.AtlasRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal atlas record %q: %w", name, err)
	}
	return &rec, nil
}

// List returns every record. bbolt iterates keys in byte order, which is
// the same order atlases are built in.
func (s *Store) List() ([]*ports.AtlasRecord, error) {
	var recs []*ports.AtlasRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAtlases)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec ports.AtlasRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal atlas record %q: %w", k, err)
			}
			recs = append(recs, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Forget removes the record for an atlas.
// Idempotent: forgetting an unknown atlas is not an error.
func (s *Store) Forget(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAtlases)
		if b == nil {
			return nil // idempotent
		}
		return b.Delete([]byte(name))
	})
}
