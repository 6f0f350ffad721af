// ABOUTME: Snapshot storage operations on Charm KV
// ABOUTME: Implements storage.SnapshotStore with prefixed keys

package charm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/itinerary/internal/storage"
)

var _ storage.SnapshotStore = (*Client)(nil)

func planKey(key string) []byte {
	return []byte(PlanPrefix + key)
}

// Load returns the snapshot stored under key.
func (c *Client) Load(_ context.Context, key string) ([]byte, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	var data []byte
	err := c.read(func(k *kv.KV) error {
		var err error
		data, err = k.Get(planKey(key))
		return err
	})
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

// Save replaces the snapshot for key.
func (c *Client) Save(_ context.Context, key string, data []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if err := c.write(func(k *kv.KV) error { return k.Set(planKey(key), data) }); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for key.
func (c *Client) Delete(_ context.Context, key string) error {
	if err := c.write(func(k *kv.KV) error { return k.Delete(planKey(key)) }); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Keys lists snapshot keys in ascending order.
func (c *Client) Keys(_ context.Context) ([]string, error) {
	prefix := []byte(PlanPrefix)
	keys := []string{}

	err := c.read(func(k *kv.KV) error {
		all, err := k.Keys()
		if err != nil {
			return fmt.Errorf("list keys: %w", err)
		}
		for _, key := range all {
			if bytes.HasPrefix(key, prefix) {
				keys = append(keys, string(bytes.TrimPrefix(key, prefix)))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}
