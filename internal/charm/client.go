// ABOUTME: Charm KV backed plan storage
// ABOUTME: Opens the KV database per operation so other processes can share it

package charm

import (
	"fmt"
	"os"

	"github.com/charmbracelet/charm/kv"
	"github.com/rs/zerolog/log"
)

const (
	// DBName is the Charm KV database holding itinerary snapshots.
	DBName = "itinerary"

	// DefaultCharmHost is used when neither config nor CHARM_HOST names a server.
	DefaultCharmHost = "charm.2389.dev"

	// PlanPrefix namespaces snapshot keys inside the database.
	PlanPrefix = "plan:"
)

// Config selects the Charm server and database.
type Config struct {
	CharmHost string
	DBName    string
	// AutoSync pushes to the server after every write.
	AutoSync bool
}

// DefaultConfig reads CHARM_HOST, falling back to DefaultCharmHost.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		CharmHost: host,
		DBName:    DBName,
		AutoSync:  true,
	}
}

// Client is a storage.SnapshotStore on Charm KV. It holds no open handle;
// each call opens the database, runs, and closes it again.
type Client struct {
	dbName   string
	autoSync bool
}

// NewClient points the Charm libraries at cfg.CharmHost and returns a client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.CharmHost != "" {
		// The kv package reads the host from the environment.
		if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}
	name := cfg.DBName
	if name == "" {
		name = DBName
	}
	log.Debug().Str("host", cfg.CharmHost).Str("db", name).Msg("charm storage ready")
	return &Client{dbName: name, autoSync: cfg.AutoSync}, nil
}

// NewTestClient returns a client on a local database that never syncs.
func NewTestClient(dbName string) (*Client, error) {
	return &Client{dbName: dbName}, nil
}

func (c *Client) read(fn func(k *kv.KV) error) error {
	return kv.DoReadOnly(c.dbName, fn)
}

// write runs fn with write access and syncs afterwards when AutoSync is on.
func (c *Client) write(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if !c.autoSync {
			return nil
		}
		if err := k.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		return nil
	})
}

// Sync pulls and pushes pending changes with the Charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error { return k.Sync() })
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}
