package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/barrelle/pkg/barrel"
	"github.com/albertocavalcante/barrelle/pkg/config"
	"github.com/albertocavalcante/barrelle/pkg/extract"
)

// generatorFlags are the flags shared by the commands that run generation.
// They overlay the loaded configuration with highest precedence.
type generatorFlags struct {
	barrelName   string
	dirExtension string
	backend      string
	exclude      []string
}

func addGeneratorFlags(cmd *cobra.Command, f *generatorFlags) {
	cmd.Flags().StringVar(&f.barrelName, "barrel-name", "",
		"Barrel file name (default index.ts)")
	cmd.Flags().StringVar(&f.dirExtension, "dir-extension", "",
		"Extension for directory re-exports (default .js)")
	cmd.Flags().StringVar(&f.backend, "backend", "",
		"Export extraction backend (heuristic, treesitter, hybrid)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil,
		"Glob patterns of files and directories to skip")
}

// overlay converts the flags into a config layer for merging.
func (f *generatorFlags) overlay() *config.Config {
	return &config.Config{
		Generator: config.GeneratorConfig{
			BarrelName:   f.barrelName,
			DirExtension: f.dirExtension,
		},
		Extractor: config.ExtractorConfig{
			Backend: f.backend,
		},
		Scanner: config.ScannerConfig{
			Exclude: f.exclude,
		},
	}
}

// resolveTargetDir turns the optional positional argument into the directory
// to generate in. A file argument resolves to its parent directory; no
// argument means the current working directory.
func resolveTargetDir(args []string) (string, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		return wd, nil
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", path, err)
	}
	if !info.IsDir() {
		return filepath.Dir(path), nil
	}
	return path, nil
}

// buildGenerator loads the layered configuration for dir, applies the flag
// overlay, and constructs the generator. The caller owns closing the
// returned extractor. The merged configuration is returned for commands
// that need settings beyond generation itself.
func buildGenerator(dir string, f *generatorFlags) (*barrel.Generator, *extract.Extractor, *config.Config, error) {
	cfg := config.LoadFrom(dir)
	cfg.Merge(f.overlay())

	extractor, err := extract.NewExtractor(extract.BackendType(cfg.Extractor.Backend))
	if err != nil {
		return nil, nil, nil, err
	}

	gen := barrel.NewGenerator(barrel.Config{
		BarrelName:    cfg.Generator.BarrelName,
		DirExtension:  cfg.Generator.DirExtension,
		MaxDepth:      cfg.Generator.MaxDepth,
		BatchSize:     cfg.Generator.BatchSize,
		MaxConcurrent: int64(cfg.Generator.MaxConcurrent),
		CacheSize:     cfg.Extractor.CacheSize,
		Exclude:       cfg.Scanner.Exclude,
	}, extractor)

	return gen, extractor, cfg, nil
}
