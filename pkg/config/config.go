// Package config provides configuration management for Barrelle.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/barrelle/config.toml)
//  3. Project config (.barrelle/config.toml or barrelle.toml)
//  4. Environment variables (BARRELLE_*)
//  5. CLI flags (highest priority)
package config

// Config is the main configuration struct for Barrelle.
type Config struct {
	// Generator configures barrel generation.
	Generator GeneratorConfig `toml:"generator"`

	// Extractor configures export extraction.
	Extractor ExtractorConfig `toml:"extractor"`

	// Scanner configures directory scanning.
	Scanner ScannerConfig `toml:"scanner"`
}

// GeneratorConfig holds generation settings.
type GeneratorConfig struct {
	// BarrelName is the barrel file name written per directory.
	BarrelName string `toml:"barrel_name"`

	// DirExtension is the module extension appended to directory entries
	// (e.g. ".js" emits './sub/index.js'). An existing barrel's own
	// convention takes precedence when one can be detected.
	DirExtension string `toml:"dir_extension"`

	// MaxDepth is the recursion ceiling for recursive runs.
	MaxDepth int `toml:"max_depth"`

	// BatchSize bounds how many files one extraction batch holds.
	BatchSize int `toml:"batch_size"`

	// MaxConcurrent bounds in-flight file extractions per batch.
	MaxConcurrent int `toml:"max_concurrent"`
}

// ExtractorConfig holds extraction settings.
type ExtractorConfig struct {
	// Backend is the extraction strategy ("heuristic", "treesitter", "hybrid").
	Backend string `toml:"backend"`

	// CacheSize bounds the per-run export cache entry count.
	CacheSize int `toml:"cache_size"`
}

// ScannerConfig holds scanning settings.
type ScannerConfig struct {
	// Exclude is a list of glob patterns; matching files and directories
	// are skipped entirely.
	Exclude []string `toml:"exclude"`
}

// NewConfig creates a new Config with built-in defaults.
func NewConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			BarrelName:    "index.ts",
			DirExtension:  ".js",
			MaxDepth:      20,
			BatchSize:     50,
			MaxConcurrent: 10,
		},
		Extractor: ExtractorConfig{
			Backend:   "heuristic",
			CacheSize: 100,
		},
	}
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Generator.BarrelName != "" {
		c.Generator.BarrelName = other.Generator.BarrelName
	}
	if other.Generator.DirExtension != "" {
		c.Generator.DirExtension = other.Generator.DirExtension
	}
	if other.Generator.MaxDepth > 0 {
		c.Generator.MaxDepth = other.Generator.MaxDepth
	}
	if other.Generator.BatchSize > 0 {
		c.Generator.BatchSize = other.Generator.BatchSize
	}
	if other.Generator.MaxConcurrent > 0 {
		c.Generator.MaxConcurrent = other.Generator.MaxConcurrent
	}

	if other.Extractor.Backend != "" {
		c.Extractor.Backend = other.Extractor.Backend
	}
	if other.Extractor.CacheSize > 0 {
		c.Extractor.CacheSize = other.Extractor.CacheSize
	}

	if len(other.Scanner.Exclude) > 0 {
		c.Scanner.Exclude = append(c.Scanner.Exclude, other.Scanner.Exclude...)
	}
}
