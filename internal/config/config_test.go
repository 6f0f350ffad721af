// ABOUTME: Tests for itinerary config functionality
// ABOUTME: Verifies config load, save, env overrides, defaults, and the backend factory

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/itinerary/internal/storage"
)

// isolate points config and data lookups at a temp dir and clears the
// environment overrides so the host environment cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)
	for _, env := range []string{"GOOGLE_MAPS_API_KEY", "ITINERARY_BACKEND", "ITINERARY_DATA_DIR", "ITINERARY_LOG_LEVEL", "REDIS_URL", "MONGO_URI"} {
		t.Setenv(env, "")
	}
	return tmpDir
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath returned non-absolute path: %s", path)
	}
}

func TestGetConfigPathWithXDGConfigHome(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	path := GetConfigPath()
	want := filepath.Join(tmpDir, "itinerary", "config.json")
	if path != want {
		t.Errorf("GetConfigPath = %s, want %s", path, want)
	}
}

func TestLoadNonExistentWritesDefault(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetBackend() != BackendFile {
		t.Errorf("expected default backend %q, got %q", BackendFile, cfg.GetBackend())
	}

	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		t.Fatalf("failed to read auto-created config: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("auto-created config is not valid JSON: %v", err)
	}
	if raw["backend"] != "file" {
		t.Errorf("expected auto-created backend 'file', got %v", raw["backend"])
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "itinerary")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json {{{"), 0600); err != nil {
		t.Fatalf("failed to write invalid config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:        BackendSQLite,
		DataDir:        "~/my-data",
		PlanKey:        "japan-2025",
		GeocoderAPIKey: "k",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Backend != BackendSQLite {
		t.Errorf("expected backend 'sqlite', got %q", loaded.Backend)
	}
	if loaded.DataDir != "~/my-data" {
		t.Errorf("expected data_dir '~/my-data', got %q", loaded.DataDir)
	}
	if loaded.GetPlanKey() != "japan-2025" {
		t.Errorf("expected plan key 'japan-2025', got %q", loaded.GetPlanKey())
	}
}

func TestSaveUsesSnakeCaseKeys(t *testing.T) {
	isolate(t)

	cfg := &Config{Backend: BackendRedis, RedisURL: "redis://localhost:6379/0"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw JSON: %v", err)
	}
	if raw["redis_url"] != "redis://localhost:6379/0" {
		t.Errorf("expected redis_url key, got %v", raw)
	}
	if _, ok := raw["mongo_uri"]; ok {
		t.Error("empty fields should be omitted")
	}
}

func TestLoadDropsRetiredKeys(t *testing.T) {
	isolate(t)

	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"backend":"badger","debounce_ms":250}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetBackend() != BackendBadger {
		t.Errorf("expected backend 'badger', got %q", cfg.GetBackend())
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	if strings.Contains(string(data), "debounce_ms") {
		t.Errorf("retired debounce_ms key should not be written back: %s", data)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := &Config{Backend: BackendSQLite, GeocoderAPIKey: "from-file", LogLevel: "warn"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ITINERARY_BACKEND", "badger")
	t.Setenv("GOOGLE_MAPS_API_KEY", "from-env")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.GetBackend() != BackendBadger {
		t.Errorf("expected env backend 'badger', got %q", loaded.GetBackend())
	}
	if loaded.GeocoderAPIKey != "from-env" {
		t.Errorf("expected env API key, got %q", loaded.GeocoderAPIKey)
	}
	if loaded.GetLogLevel() != "warn" {
		t.Errorf("unset env must keep file value, got %q", loaded.GetLogLevel())
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	cfg := &Config{}

	if cfg.GetBackend() != BackendFile {
		t.Errorf("expected default backend 'file', got %q", cfg.GetBackend())
	}
	if cfg.GetPlanKey() != storage.DefaultKey {
		t.Errorf("expected default key %q, got %q", storage.DefaultKey, cfg.GetPlanKey())
	}
	if cfg.GetMongoDatabase() != "itinerary" {
		t.Errorf("expected default mongo database 'itinerary', got %q", cfg.GetMongoDatabase())
	}
	if cfg.GetLogLevel() != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.GetLogLevel())
	}
	if cfg.Geocoder() != nil {
		t.Error("expected nil geocoder without an API key")
	}

	dataDir := cfg.GetDataDir()
	if !filepath.IsAbs(dataDir) {
		t.Errorf("GetDataDir returned non-absolute path: %s", dataDir)
	}
	if filepath.Base(dataDir) != "itinerary" {
		t.Errorf("GetDataDir should end with 'itinerary', got %s", dataDir)
	}
}

func TestGeocoderWithKey(t *testing.T) {
	cfg := &Config{GeocoderAPIKey: "abc"}
	if cfg.Geocoder() == nil {
		t.Error("expected a geocoder when an API key is set")
	}
}

func TestExplicitDataDir(t *testing.T) {
	cfg := &Config{DataDir: "/custom/data/path"}
	if got := cfg.GetDataDir(); got != "/custom/data/path" {
		t.Errorf("expected '/custom/data/path', got %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("cannot get home dir: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		result := ExpandPath(tt.input)
		if result != tt.expected {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestOpenStorageLocalBackends(t *testing.T) {
	tests := []struct {
		backend string
		created string
	}{
		{BackendFile, "plans"},
		{BackendSQLite, "itinerary.db"},
		{BackendBadger, "badger"},
		{"", "plans"},
	}

	for _, tt := range tests {
		t.Run("backend_"+tt.backend, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfg := &Config{Backend: tt.backend, DataDir: tmpDir}

			store, err := cfg.OpenStorage(context.Background())
			if err != nil {
				t.Fatalf("OpenStorage failed: %v", err)
			}
			defer store.Close()

			if _, err := os.Stat(filepath.Join(tmpDir, tt.created)); err != nil {
				t.Errorf("expected %s in data dir: %v", tt.created, err)
			}

			ctx := context.Background()
			if err := store.Save(ctx, "travelPlan", []byte(`{"days":[]}`)); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			data, err := store.Load(ctx, "travelPlan")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if string(data) != `{"days":[]}` {
				t.Errorf("unexpected snapshot %q", data)
			}
		})
	}
}

func TestOpenStorageNetworkBackendsNeedURL(t *testing.T) {
	for _, backend := range []string{BackendRedis, BackendMongo} {
		cfg := &Config{Backend: backend}
		_, err := cfg.OpenStorage(context.Background())
		if err == nil {
			t.Errorf("%s: expected error without connection string", backend)
			continue
		}
		if !strings.Contains(err.Error(), "requires") {
			t.Errorf("%s: unexpected error %v", backend, err)
		}
	}
}

func TestOpenStorageUnknownBackend(t *testing.T) {
	cfg := &Config{Backend: "postgres", DataDir: t.TempDir()}

	_, err := cfg.OpenStorage(context.Background())
	if err == nil {
		t.Fatal("expected error for unknown backend, got nil")
	}
	if !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected 'unknown backend' error, got: %v", err)
	}
}
