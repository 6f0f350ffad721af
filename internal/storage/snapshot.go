// ABOUTME: Keyed snapshot storage interface for serialized travel plans
// ABOUTME: Every backend stores opaque bytes under a plan key

package storage

import (
	"context"
	"fmt"
	"regexp"
)

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "travelPlan"

// SnapshotStore persists serialized plans under string keys.
type SnapshotStore interface {
	// Load returns the bytes stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the bytes stored under key.
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateKey rejects keys that cannot be used as file names on every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid plan key %q (letters, digits, '.', '_' and '-' only)", key)
	}
	return nil
}
