// ABOUTME: Itinerary configuration management with backend selection
// ABOUTME: Handles settings, .env and environment overrides, and the storage backend factory

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/itinerary/internal/charm"
	"github.com/harper/itinerary/internal/geocode"
	"github.com/harper/itinerary/internal/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Backend names accepted in the backend field.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported backend name.
var Backends = []string{BackendFile, BackendSQLite, BackendBadger, BackendCharm, BackendRedis, BackendMongo}

const sqliteFilename = "itinerary.db"

// Config stores itinerary configuration.
type Config struct {
	// Backend selects where plan snapshots live. Defaults to "file".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local backends. Supports ~ expansion.
	// Defaults to ~/.local/share/itinerary.
	DataDir string `json:"data_dir,omitempty"`

	// PlanKey names the snapshot the editor works on.
	PlanKey string `json:"plan_key,omitempty"`

	RedisURL      string `json:"redis_url,omitempty"`
	MongoURI      string `json:"mongo_uri,omitempty"`
	MongoDatabase string `json:"mongo_database,omitempty"`
	CharmHost     string `json:"charm_host,omitempty"`

	GeocoderAPIKey  string `json:"geocoder_api_key,omitempty"`
	GeocoderBaseURL string `json:"geocoder_base_url,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "file".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendFile
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetPlanKey returns the snapshot key, defaulting to storage.DefaultKey.
func (c *Config) GetPlanKey() string {
	if c.PlanKey == "" {
		return storage.DefaultKey
	}
	return c.PlanKey
}

// GetMongoDatabase returns the database name for the mongo backend.
func (c *Config) GetMongoDatabase() string {
	if c.MongoDatabase == "" {
		return storage.DefaultMongoDatabase
	}
	return c.MongoDatabase
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// Geocoder returns a Google geocoding client, or nil when no API key is set.
func (c *Config) Geocoder() geocode.Geocoder {
	if c.GeocoderAPIKey == "" {
		return nil
	}
	return geocode.NewGoogleClient(c.GeocoderAPIKey, geocode.WithBaseURL(c.GeocoderBaseURL))
}

// defaultDataDir returns the default XDG data directory for itinerary.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "itinerary")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a SnapshotStore for the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.SnapshotStore, error) {
	return c.OpenBackend(ctx, c.GetBackend())
}

// OpenBackend creates a SnapshotStore for the named backend using this
// config's connection settings.
func (c *Config) OpenBackend(ctx context.Context, backend string) (storage.SnapshotStore, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendFile:
		return storage.NewFileStore(filepath.Join(dataDir, "plans"))
	case BackendSQLite:
		return storage.NewSQLiteStore(filepath.Join(dataDir, sqliteFilename))
	case BackendBadger:
		return storage.NewBadgerStore(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		cfg := charm.DefaultConfig()
		if c.CharmHost != "" {
			cfg.CharmHost = c.CharmHost
		}
		return charm.NewClient(cfg)
	case BackendRedis:
		if c.RedisURL == "" {
			return nil, errors.New("redis backend requires redis_url or REDIS_URL")
		}
		return storage.NewRedisStore(ctx, c.RedisURL)
	case BackendMongo:
		if c.MongoURI == "" {
			return nil, errors.New("mongo backend requires mongo_uri or MONGO_URI")
		}
		return storage.NewMongoStore(ctx, c.MongoURI, c.GetMongoDatabase())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "itinerary", "config.json")
}

// Load reads config from disk, writing a default file on first run, then
// applies .env and environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	cfg.applyEnv()
	return cfg, nil
}

func loadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{Backend: BackendFile}
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env   string
		field *string
	}{
		{"GOOGLE_MAPS_API_KEY", &c.GeocoderAPIKey},
		{"ITINERARY_BACKEND", &c.Backend},
		{"ITINERARY_DATA_DIR", &c.DataDir},
		{"ITINERARY_LOG_LEVEL", &c.LogLevel},
		{"REDIS_URL", &c.RedisURL},
		{"MONGO_URI", &c.MongoURI},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWriteFile(path, data)
}
