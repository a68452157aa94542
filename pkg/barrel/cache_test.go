package barrel

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/albertocavalcante/barrelle/pkg/extract"
)

func newTestCache(t *testing.T, maxSize int) *Cache {
	t.Helper()
	extractor, err := extract.NewExtractor(extract.BackendHeuristic)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	t.Cleanup(extractor.Close)
	return NewCache(extractor, maxSize)
}

func TestCacheExportsByModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(path, []byte("export const a = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	mtime := info.ModTime()

	cache := newTestCache(t, 0)
	ctx := context.Background()

	got, err := cache.Exports(ctx, path)
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	want := []extract.Record{{Name: "a"}}
	if !slices.Equal(got, want) {
		t.Fatalf("Exports() = %v, want %v", got, want)
	}

	// Rewrite the file but pin the original mtime: the stale cached
	// entry must be served without re-reading.
	if err := os.WriteFile(path, []byte("export const b = 2;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	got, err = cache.Exports(ctx, path)
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("Exports() after same-mtime rewrite = %v, want cached %v", got, want)
	}

	// Bumping the mtime invalidates the entry.
	later := mtime.Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	got, err = cache.Exports(ctx, path)
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	want = []extract.Record{{Name: "b"}}
	if !slices.Equal(got, want) {
		t.Errorf("Exports() after mtime bump = %v, want %v", got, want)
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	cache := newTestCache(t, 2)
	ctx := context.Background()

	paths := make([]string, 3)
	for i, name := range []string{"a.ts", "b.ts", "c.ts"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("export const x = 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths[i] = p
	}

	for _, p := range paths {
		if _, err := cache.Exports(ctx, p); err != nil {
			t.Fatalf("Exports(%s) error = %v", p, err)
		}
	}
	if got := cache.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	// The evicted oldest entry is simply recomputed on demand.
	got, err := cache.Exports(ctx, paths[0])
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	if want := []extract.Record{{Name: "x"}}; !slices.Equal(got, want) {
		t.Errorf("Exports() = %v, want %v", got, want)
	}
}

func TestCacheMissingFile(t *testing.T) {
	cache := newTestCache(t, 0)
	if _, err := cache.Exports(context.Background(), filepath.Join(t.TempDir(), "nope.ts")); err == nil {
		t.Error("Exports() on a missing file expected error")
	}
}
