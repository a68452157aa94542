package barrel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/albertocavalcante/barrelle/internal/log"
	"github.com/albertocavalcante/barrelle/pkg/extract"
)

const (
	// DefaultDirExtension is the module extension convention used for
	// directory entries when no existing barrel reveals one.
	DefaultDirExtension = ".js"
	// DefaultMaxDepth is the recursion ceiling.
	DefaultMaxDepth = 20
	// DefaultBatchSize bounds how many files one fan-out batch holds.
	DefaultBatchSize = 50
	// DefaultMaxConcurrent bounds in-flight file extractions per batch.
	DefaultMaxConcurrent = 10
)

// ErrNoSourceFiles is returned when a non-recursive create run finds
// nothing to put in the barrel. The message is user-facing.
var ErrNoSourceFiles = errors.New("No TypeScript files found in the selected directory")

// Config holds the tunables of a Generator. Zero values select defaults.
type Config struct {
	BarrelName    string
	DirExtension  string
	MaxDepth      int
	BatchSize     int
	MaxConcurrent int64
	CacheSize     int
	Exclude       []string
}

func (c Config) withDefaults() Config {
	if c.BarrelName == "" {
		c.BarrelName = DefaultBarrelName
	}
	if c.DirExtension == "" {
		c.DirExtension = DefaultDirExtension
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	return c
}

// Generator walks a directory tree and writes barrel files. One instance
// owns one export cache; construct per run or share across runs to keep
// the cache warm.
type Generator struct {
	cfg     Config
	scanner *Scanner
	cache   *Cache
	logger  *slog.Logger
}

// NewGenerator creates a generator over the given extractor.
func NewGenerator(cfg Config, extractor *extract.Extractor) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		cfg:     cfg,
		scanner: &Scanner{BarrelName: cfg.BarrelName, Exclude: cfg.Exclude},
		cache:   NewCache(extractor, cfg.CacheSize),
		logger:  log.Component("generator"),
	}
}

// Generate produces the barrel for dir, and recursively for its
// subdirectories when opts.Recursive is set. Children are finalized
// before their parent so a just-created child barrel counts as a
// directory entry.
func (g *Generator) Generate(ctx context.Context, dir string, opts Options) (Stats, error) {
	if opts.Mode == "" {
		opts.Mode = ModeCreateOrUpdate
	}
	var stats Stats
	err := g.generateDir(ctx, dir, opts, 0, &stats)
	return stats, err
}

func (g *Generator) generateDir(ctx context.Context, dir string, opts Options, depth int, stats *Stats) error {
	files, subdirs, err := g.scanner.Scan(dir)
	if err != nil {
		return err
	}

	if opts.Recursive {
		if depth >= g.cfg.MaxDepth {
			g.logger.Warn("recursion depth ceiling reached, not descending",
				"dir", dir, "depth", depth)
		} else {
			for _, sub := range subdirs {
				if err := g.generateDir(ctx, filepath.Join(dir, sub), opts, depth+1, stats); err != nil {
					return err
				}
			}
		}
	}

	entries := make(map[string]Entry)
	for _, sub := range subdirs {
		if fileExists(filepath.Join(dir, sub, g.cfg.BarrelName)) {
			entries[sub] = Entry{Kind: EntryDirectory}
		}
	}
	if err := g.collectFileEntries(ctx, dir, files, entries); err != nil {
		return err
	}

	barrelPath := filepath.Join(dir, g.cfg.BarrelName)
	existing, hasBarrel, err := readBarrel(barrelPath)
	if err != nil {
		return err
	}

	if opts.Mode == ModeUpdateExisting && !hasBarrel {
		g.logger.Debug("no existing barrel, skipping", "dir", dir)
		stats.Skipped++
		return nil
	}
	if len(entries) == 0 {
		if opts.Mode == ModeCreateOrUpdate && !opts.Recursive {
			return ErrNoSourceFiles
		}
		if !hasBarrel {
			stats.Skipped++
			return nil
		}
		// An existing barrel with nothing to regenerate is still
		// rewritten so stale re-exports get sanitized away.
	}

	dirExt := g.cfg.DirExtension
	if hasBarrel {
		if ext, ok := sniffDirExtension(existing); ok {
			dirExt = ext
		}
	}

	builder := &Builder{DirExtension: dirExt}
	final := builder.Build(entries)
	if hasBarrel {
		preserved := sanitizeContent(existing, freshPathSet(entries))
		final = mergeContent(preserved, final)
	}

	if hasBarrel && xxhash.Sum64String(existing) == xxhash.Sum64String(final) {
		g.logger.Debug("barrel unchanged", "path", barrelPath)
		stats.Unchanged++
		return nil
	}
	stats.Written++
	if opts.Check {
		g.logger.Info("barrel out of date", "path", barrelPath)
		return nil
	}
	if err := os.WriteFile(barrelPath, []byte(final), 0o644); err != nil {
		return fmt.Errorf("write barrel %s: %w", barrelPath, err)
	}
	g.logger.Info("barrel written", "path", barrelPath, "entries", len(entries))
	return nil
}

// collectFileEntries extracts exports for the directory's files in
// bounded batches and fills the entry map. A single file's failure is
// logged and the file omitted; it never fails the directory.
func (g *Generator) collectFileEntries(ctx context.Context, dir string, files []string, entries map[string]Entry) error {
	var mu sync.Mutex
	sem := semaphore.NewWeighted(g.cfg.MaxConcurrent)

	for start := 0; start < len(files); start += g.cfg.BatchSize {
		batch := files[start:min(start+g.cfg.BatchSize, len(files))]
		eg, egCtx := errgroup.WithContext(ctx)
		for _, name := range batch {
			name := name
			eg.Go(func() error {
				if err := sem.Acquire(egCtx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				path := filepath.Join(dir, name)
				exports, err := g.cache.Exports(egCtx, path)
				if err != nil {
					g.logger.Warn("skipping file, extraction failed", "path", path, "error", err)
					return nil
				}
				if len(exports) == 0 {
					return nil
				}
				mu.Lock()
				entries[modulePath(name)] = Entry{Kind: EntryFile, Exports: exports}
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// freshPathSet returns the normalized module paths the builder will emit
// for entries, for deduplication against an existing barrel.
func freshPathSet(entries map[string]Entry) map[string]bool {
	fresh := make(map[string]bool, len(entries))
	for key := range entries {
		module := modulePath(key)
		if strings.HasPrefix(module, "..") {
			continue
		}
		fresh[normalizeModulePath("./"+module)] = true
	}
	return fresh
}

var fromPathRe = regexp.MustCompile(`from\s*['"]([^'"]+)['"]`)

// sniffDirExtension inspects an existing barrel's re-export paths and
// reports the module extension convention in use. The second result is
// false when the text carries no relative re-export to learn from.
func sniffDirExtension(content string) (string, bool) {
	found := false
	for _, m := range fromPathRe.FindAllStringSubmatch(content, -1) {
		p := m[1]
		if !strings.HasPrefix(p, ".") {
			continue
		}
		switch {
		case strings.HasSuffix(p, ".mjs"):
			return ".mjs", true
		case strings.HasSuffix(p, ".js"):
			return ".js", true
		}
		found = true
	}
	if found {
		return "", true // extensionless convention
	}
	return "", false
}

// mergeContent joins preserved lines and freshly built content, dropping
// empty lines, with exactly one trailing newline.
func mergeContent(preserved []string, fresh string) string {
	var lines []string
	for _, l := range preserved {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	for _, l := range strings.Split(strings.TrimSuffix(fresh, "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return "\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

func readBarrel(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read barrel %s: %w", path, err)
	}
	return string(data), true, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
