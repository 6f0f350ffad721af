// ABOUTME: Tests for snapshot storage on Charm KV
// ABOUTME: Runs against a local KV database in a temp data dir

package charm

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/harper/itinerary/internal/storage"
)

func testClient(t *testing.T, name string) *Client {
	t.Helper()
	t.Setenv("CHARM_DATA_DIR", t.TempDir())

	client, err := NewTestClient(name)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClient_LoadMissing(t *testing.T) {
	client := testClient(t, "test-missing")

	_, err := client.Load(context.Background(), "travelPlan")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected storage.ErrNotFound, got %v", err)
	}
}

func TestClient_SaveLoadDelete(t *testing.T) {
	client := testClient(t, "test-snapshots")
	ctx := context.Background()

	if err := client.Save(ctx, "travelPlan", []byte(`{"days":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := client.Load(ctx, "travelPlan")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"days":[]}` {
		t.Errorf("unexpected data %q", got)
	}

	if err := client.Delete(ctx, "travelPlan"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Load(ctx, "travelPlan"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestClient_KeysStripPrefix(t *testing.T) {
	client := testClient(t, "test-keys")
	ctx := context.Background()

	for _, key := range []string{"weekend", "travelPlan"} {
		if err := client.Save(ctx, key, []byte("x")); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	keys, err := client.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "travelPlan" || keys[1] != "weekend" {
		t.Errorf("expected [travelPlan weekend], got %v", keys)
	}
}

func TestClient_RejectsInvalidKey(t *testing.T) {
	client := testClient(t, "test-invalid")

	if err := client.Save(context.Background(), "../escape", []byte("x")); err == nil {
		t.Error("expected invalid key to be rejected on save")
	}
	if _, err := client.Load(context.Background(), "a b"); err == nil {
		t.Error("expected invalid key to be rejected on load")
	}
}

func TestNewClientConfiguresHost(t *testing.T) {
	t.Setenv("CHARM_HOST", "")

	cfg := DefaultConfig()
	if cfg.CharmHost != DefaultCharmHost || cfg.DBName != DBName || !cfg.AutoSync {
		t.Errorf("unexpected default config %+v", cfg)
	}

	client, err := NewClient(&Config{CharmHost: "charm.example.com"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.dbName != DBName {
		t.Errorf("expected default db name, got %q", client.dbName)
	}
	if got := os.Getenv("CHARM_HOST"); got != "charm.example.com" {
		t.Errorf("expected CHARM_HOST to be set, got %q", got)
	}
}
