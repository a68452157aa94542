package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "barrelle.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".barrelle"

// GlobalConfigDir is the name of the global config directory inside user's config.
const GlobalConfigDir = "barrelle"

// Load loads configuration from all layers in order of precedence:
//  1. Built-in defaults
//  2. Global user config (~/.config/barrelle/config.toml)
//  3. Project config (.barrelle/config.toml or barrelle.toml)
//  4. Environment variables (BARRELLE_*)
//
// CLI flags are applied separately after Load() returns.
func Load() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration with the project layer searched upward from
// a specific directory.
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}
	if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
		cfg.Merge(projectCfg)
	}
	applyEnvironmentVariables(cfg)

	return cfg
}

// loadGlobalConfig loads the global user configuration from ~/.config/barrelle/config.toml.
func loadGlobalConfig() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return loadConfigFile(filepath.Join(configDir, GlobalConfigDir, "config.toml"))
}

// loadProjectConfigFrom looks for project configuration starting from the
// given directory, walking parents up to the workspace root.
func loadProjectConfigFrom(dir string) *Config {
	current := dir
	for {
		if cfg := loadConfigFile(filepath.Join(current, ConfigDirName, "config.toml")); cfg != nil {
			return cfg
		}
		if cfg := loadConfigFile(filepath.Join(current, ConfigFileName)); cfg != nil {
			return cfg
		}

		if isWorkspaceRoot(current) {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return nil
}

// isWorkspaceRoot checks if the directory is a workspace root (has .git,
// package.json, or tsconfig.json).
func isWorkspaceRoot(dir string) bool {
	markers := []string{".git", "package.json", "tsconfig.json"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// loadConfigFile loads a configuration from a TOML file.
func loadConfigFile(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil
	}
	return &cfg
}

// applyEnvironmentVariables applies BARRELLE_* environment variables to the config.
func applyEnvironmentVariables(cfg *Config) {
	if v := os.Getenv("BARRELLE_BARREL_NAME"); v != "" {
		cfg.Generator.BarrelName = v
	}
	if v := os.Getenv("BARRELLE_DIR_EXTENSION"); v != "" {
		cfg.Generator.DirExtension = v
	}
	applyIntEnv("BARRELLE_MAX_DEPTH", &cfg.Generator.MaxDepth)
	applyIntEnv("BARRELLE_BATCH_SIZE", &cfg.Generator.BatchSize)
	applyIntEnv("BARRELLE_MAX_CONCURRENT", &cfg.Generator.MaxConcurrent)

	if v := os.Getenv("BARRELLE_EXTRACTOR_BACKEND"); v != "" {
		cfg.Extractor.Backend = v
	}
	applyIntEnv("BARRELLE_CACHE_SIZE", &cfg.Extractor.CacheSize)

	// BARRELLE_EXCLUDE: comma-separated glob patterns
	if v := os.Getenv("BARRELLE_EXCLUDE"); v != "" {
		cfg.Scanner.Exclude = splitAndTrim(v)
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// applyIntEnv applies a positive integer environment variable to a target.
func applyIntEnv(envVar string, target *int) {
	if v := os.Getenv(envVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*target = n
		}
	}
}

// GetGlobalConfigPath returns the path to the global config file.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}

// GetProjectConfigPaths returns potential project config paths for a given directory.
func GetProjectConfigPaths(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, "config.toml"),
		filepath.Join(dir, ConfigFileName),
	}
}
