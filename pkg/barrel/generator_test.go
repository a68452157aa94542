package barrel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/albertocavalcante/barrelle/pkg/extract"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	extractor, err := extract.NewExtractor(extract.BackendHeuristic)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	t.Cleanup(extractor.Close)
	return NewGenerator(cfg, extractor)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readBarrelFile(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, DefaultBarrelName))
	if err != nil {
		t.Fatalf("read barrel: %v", err)
	}
	return string(data)
}

func TestGenerateSimpleFile(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), dir, Options{Mode: ModeCreateOrUpdate})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stats.Written != 1 {
		t.Errorf("Written = %d, want 1", stats.Written)
	}
	if got, want := readBarrelFile(t, dir), "export { alpha } from './alpha';\n"; got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGenerateMixedKinds(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bravo.ts"),
		"export interface Bravo {}\nexport default function bravo() {}")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := "export type { Bravo } from './bravo';\nexport { default } from './bravo';\n"
	if got := readBarrelFile(t, dir); got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGenerateEmptyLeafNonRecursive(t *testing.T) {
	g := newTestGenerator(t, Config{})
	_, err := g.Generate(context.Background(), t.TempDir(), Options{Mode: ModeCreateOrUpdate})
	if !errors.Is(err, ErrNoSourceFiles) {
		t.Fatalf("Generate() error = %v, want ErrNoSourceFiles", err)
	}
	if got, want := err.Error(), "No TypeScript files found in the selected directory"; got != want {
		t.Errorf("error message = %q, want %q", got, want)
	}
}

func TestGenerateRecursive(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "alpha.ts"), "export const alpha = 1;")
	write(t, filepath.Join(root, "sub", "beta.ts"), "export const beta = 2;")

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), root, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stats.Written != 2 {
		t.Errorf("Written = %d, want 2", stats.Written)
	}
	if got, want := readBarrelFile(t, filepath.Join(root, "sub")), "export { beta } from './beta';\n"; got != want {
		t.Errorf("child barrel = %q, want %q", got, want)
	}
	// The child's fresh barrel counts as a directory entry; keys are
	// emitted in lexicographic order.
	want := "export { alpha } from './alpha';\nexport * from './sub/index.js';\n"
	if got := readBarrelFile(t, root); got != want {
		t.Errorf("root barrel = %q, want %q", got, want)
	}
}

func TestGenerateRecursiveEmptyLeaf(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "alpha.ts"), "export const alpha = 1;")
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), root, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if _, err := os.Stat(filepath.Join(root, "empty", DefaultBarrelName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("empty leaf must not get a barrel")
	}
	if got, want := readBarrelFile(t, root), "export { alpha } from './alpha';\n"; got != want {
		t.Errorf("root barrel = %q, want %q", got, want)
	}
}

func TestGenerateUpdateNeverCreates(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultBarrelName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("update mode must not create a barrel")
	}
}

func TestGenerateUpdateIdempotent(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{}); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	first := readBarrelFile(t, dir)

	stats, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting})
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if stats.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", stats.Unchanged)
	}
	if second := readBarrelFile(t, dir); second != first {
		t.Errorf("second run changed content:\nfirst  = %q\nsecond = %q", first, second)
	}
}

func TestGeneratePreservesDirectCode(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")
	write(t, filepath.Join(dir, DefaultBarrelName),
		"export const VERSION = '1.0.0';\nexport { alpha } from './alpha';\n")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := "export const VERSION = '1.0.0';\nexport { alpha } from './alpha';\n"
	if got := readBarrelFile(t, dir); got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGenerateStripsExternalReexport(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")
	write(t, filepath.Join(dir, DefaultBarrelName),
		"export * from '../outside';\nexport { alpha } from './alpha';\n")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got, want := readBarrelFile(t, dir), "export { alpha } from './alpha';\n"; got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGeneratePreservesUnmanagedReexport(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")
	write(t, filepath.Join(dir, DefaultBarrelName),
		"export { deep } from './nested/deep';\n")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := "export { deep } from './nested/deep';\nexport { alpha } from './alpha';\n"
	if got := readBarrelFile(t, dir); got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGenerateDeduplicatesNormalizedPaths(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")
	// Same logical target under two spellings; both must yield to the
	// freshly generated line.
	write(t, filepath.Join(dir, DefaultBarrelName),
		"export { alpha } from './alpha.js';\nexport { alpha } from './alpha/index.js';\n")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got, want := readBarrelFile(t, dir), "export { alpha } from './alpha';\n"; got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGenerateSniffsExtensionConvention(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "sub", "beta.ts"), "export const beta = 2;")
	write(t, filepath.Join(root, "sub", DefaultBarrelName), "export { beta } from './beta';\n")
	// The existing root barrel uses the extensionless convention; the
	// regenerated directory entry follows it instead of the default.
	write(t, filepath.Join(root, DefaultBarrelName), "export * from './sub';\n")

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), root, Options{Recursive: true, Mode: ModeUpdateExisting})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got, want := readBarrelFile(t, root), "export * from './sub';\n"; got != want {
		t.Errorf("root barrel = %q, want %q", got, want)
	}
	if stats.Unchanged != 2 {
		t.Errorf("Unchanged = %d, want 2", stats.Unchanged)
	}
}

func TestGenerateZeroExportFileOmitted(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")
	write(t, filepath.Join(dir, "noop.ts"), "const internal = 1;")

	g := newTestGenerator(t, Config{})
	if _, err := g.Generate(context.Background(), dir, Options{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got, want := readBarrelFile(t, dir), "export { alpha } from './alpha';\n"; got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}

func TestGenerateCheckMode(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "alpha.ts"), "export const alpha = 1;")

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), dir, Options{Check: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stats.Written != 1 {
		t.Errorf("Written = %d, want 1", stats.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultBarrelName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("check mode must not write")
	}
}

func TestGenerateDepthCeiling(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "alpha.ts"), "export const alpha = 1;")
	write(t, filepath.Join(root, "a", "b", "deep.ts"), "export const deep = 1;")

	g := newTestGenerator(t, Config{MaxDepth: 1})
	if _, err := g.Generate(context.Background(), root, Options{Recursive: true}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Descent stops at the ceiling; the deep directory is untouched and
	// the run still completes.
	if _, err := os.Stat(filepath.Join(root, "a", "b", DefaultBarrelName)); !errors.Is(err, os.ErrNotExist) {
		t.Error("barrel written beyond the depth ceiling")
	}
	if got, want := readBarrelFile(t, root), "export { alpha } from './alpha';\n"; got != want {
		t.Errorf("root barrel = %q, want %q", got, want)
	}
}

func TestGenerateEmptyDirWithExistingBarrel(t *testing.T) {
	dir := t.TempDir()
	// Only a barrel with a hand-written line remains; it is preserved.
	write(t, filepath.Join(dir, DefaultBarrelName), "export const VERSION = '2';\n")

	g := newTestGenerator(t, Config{})
	stats, err := g.Generate(context.Background(), dir, Options{Mode: ModeUpdateExisting})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stats.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", stats.Unchanged)
	}
	if got, want := readBarrelFile(t, dir), "export const VERSION = '2';\n"; got != want {
		t.Errorf("barrel = %q, want %q", got, want)
	}
}
