// ABOUTME: Tests for snapshot migration between backends
// ABOUTME: Covers file-to-sqlite, sqlite-to-badger, and the overwrite guard

package storage

import (
	"context"
	"errors"
	"testing"
)

func seed(t *testing.T, s SnapshotStore) map[string]string {
	t.Helper()
	data := map[string]string{
		"travelPlan": `{"title":"Main","days":[]}`,
		"weekend":    `{"title":"Weekend","days":[]}`,
	}
	for k, v := range data {
		mustNoError(t, s.Save(context.Background(), k, []byte(v)))
	}
	return data
}

func verifyCopied(t *testing.T, dst SnapshotStore, want map[string]string) {
	t.Helper()
	for k, v := range want {
		got, err := dst.Load(context.Background(), k)
		if err != nil {
			t.Fatalf("load %q from destination: %v", k, err)
		}
		if string(got) != v {
			t.Errorf("key %q: expected %q, got %q", k, v, got)
		}
	}
}

func TestCopy_FileToSQLite(t *testing.T) {
	src := newFileStore(t)
	dst := newSQLiteStore(t)
	want := seed(t, src)

	summary, err := Copy(context.Background(), src, dst, false)
	mustNoError(t, err)
	if summary.Copied != 2 {
		t.Errorf("expected 2 copied, got %d", summary.Copied)
	}
	verifyCopied(t, dst, want)
}

func TestCopy_SQLiteToBadger(t *testing.T) {
	src := newSQLiteStore(t)
	dst := newBadgerStore(t)
	want := seed(t, src)

	_, err := Copy(context.Background(), src, dst, false)
	mustNoError(t, err)
	verifyCopied(t, dst, want)
}

func TestCopy_EmptySource(t *testing.T) {
	summary, err := Copy(context.Background(), newFileStore(t), newFileStore(t), false)
	mustNoError(t, err)
	if summary.Copied != 0 {
		t.Errorf("expected nothing copied, got %d", summary.Copied)
	}
}

func TestCopy_RefusesToOverwrite(t *testing.T) {
	ctx := context.Background()
	src := newFileStore(t)
	dst := newFileStore(t)
	seed(t, src)
	mustNoError(t, dst.Save(ctx, "weekend", []byte("existing")))

	_, err := Copy(ctx, src, dst, false)
	if !errors.Is(err, ErrDestinationNotEmpty) {
		t.Fatalf("expected ErrDestinationNotEmpty, got %v", err)
	}

	// Nothing may have been copied.
	if _, err := dst.Load(ctx, "travelPlan"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected no partial copy, got %v", err)
	}

	want := seed(t, src)
	_, err = Copy(ctx, src, dst, true)
	mustNoError(t, err)
	verifyCopied(t, dst, want)
}
