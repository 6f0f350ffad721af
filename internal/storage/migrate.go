// ABOUTME: Data migration between snapshot backends
// ABOUTME: Copies every stored plan from a source store to a destination store

package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrDestinationNotEmpty is returned by Copy when the destination already
// holds one of the source keys and overwrite is false.
var ErrDestinationNotEmpty = errors.New("destination already has data")

// MigrateSummary holds counts of migrated snapshots.
type MigrateSummary struct {
	Copied  int
	Skipped int
	Keys    []string
}

// Copy copies all snapshots from src to dst. Unless overwrite is set, it
// checks every key first and copies nothing if any already exists in dst.
func Copy(ctx context.Context, src, dst SnapshotStore, overwrite bool) (*MigrateSummary, error) {
	keys, err := src.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source keys: %w", err)
	}

	if !overwrite {
		for _, key := range keys {
			_, err := dst.Load(ctx, key)
			if err == nil {
				return nil, fmt.Errorf("%w: key %q", ErrDestinationNotEmpty, key)
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("check destination key %q: %w", key, err)
			}
		}
	}

	summary := &MigrateSummary{}
	for _, key := range keys {
		data, err := src.Load(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Deleted between listing and loading.
			summary.Skipped++
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("load %q: %w", key, err)
		}
		if err := dst.Save(ctx, key, data); err != nil {
			return summary, fmt.Errorf("save %q: %w", key, err)
		}
		summary.Copied++
		summary.Keys = append(summary.Keys, key)
	}

	return summary, nil
}
