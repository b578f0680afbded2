package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	good := []string{
		writePNG(t, dir, "a.png", 8, 8),
		writePNG(t, dir, "b.png", 16, 4),
	}
	bad := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(bad, []byte("plain text, not pixels"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.png")

	var reported []string
	failed := map[string]bool{}
	err := Verify(context.Background(), append(good, bad, missing), 2, func(path string, err error) {
		reported = append(reported, path)
		if err != nil {
			failed[path] = true
		}
	})

	if err == nil {
		t.Fatal("Expected an error for the broken files")
	}
	if !errors.Is(err, ErrNotImage) {
		t.Errorf("Expected ErrNotImage in %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a not-exist error in %v", err)
	}
	sort.Strings(reported)
	if len(reported) != 4 {
		t.Errorf("Expected 4 reports, got %v", reported)
	}
	if len(failed) != 2 || !failed[bad] || !failed[missing] {
		t.Errorf("Unexpected failures %v", failed)
	}
}

func TestVerifyAllGood(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writePNG(t, dir, "a.png", 4, 4)}
	if err := Verify(context.Background(), paths, 0, nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestVerifyCancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writePNG(t, dir, "a.png", 4, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Verify(ctx, paths, 1, func(string, error) { calls++ })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no work after cancel, got %d reports", calls)
	}
}
