// Package configfile reads and writes the workspace configuration stored
// at .kodebase/metadata.json.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kodebaseai/kodebase/internal/hygiene"
)

// WorkspaceDir is the directory a kodebase workspace keeps its state in.
const WorkspaceDir = ".kodebase"

// ConfigFileName is the config file inside WorkspaceDir.
const ConfigFileName = "metadata.json"

// Config is the persisted workspace configuration.
type Config struct {
	// ArtifactsDir is the artifact tree root, relative to WorkspaceDir.
	ArtifactsDir string `json:"artifacts_dir"`

	// Hygiene overrides for event cleanup. Zero values fall back to the
	// kernel defaults.
	HygieneToleranceSeconds int      `json:"hygiene_tolerance_seconds,omitempty"`
	HygieneKeepLast         bool     `json:"hygiene_keep_last,omitempty"`
	PreservePatterns        []string `json:"preserve_patterns,omitempty"`
}

// DefaultConfig returns the configuration a fresh workspace gets.
func DefaultConfig() *Config {
	return &Config{
		ArtifactsDir: "artifacts",
	}
}

// HygieneConfig materializes the kernel hygiene configuration from the
// workspace overrides.
func (c *Config) HygieneConfig() hygiene.Config {
	cfg := hygiene.DefaultConfig()
	if c.HygieneToleranceSeconds > 0 {
		cfg.Tolerance = time.Duration(c.HygieneToleranceSeconds) * time.Second
	}
	if c.HygieneKeepLast {
		cfg.Policy = hygiene.KeepLast
	}
	if len(c.PreservePatterns) > 0 {
		cfg.PreservePatterns = c.PreservePatterns
	}
	return cfg
}

// ConfigPath returns the config file path for a workspace directory.
func ConfigPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, ConfigFileName)
}

// Load reads the config from the workspace directory. A missing file is
// not an error: it yields the defaults, matching a workspace that was
// initialized before config options existed.
func Load(workspaceDir string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(workspaceDir)) // #nosec G304 - controlled workspace path
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = DefaultConfig().ArtifactsDir
	}
	return cfg, nil
}

// Save writes the config to the workspace directory, creating it if
// needed.
func Save(workspaceDir string, cfg *Config) error {
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath(workspaceDir), append(data, '\n'), 0o644)
}

// FindWorkspace walks up from dir looking for a .kodebase directory.
func FindWorkspace(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, WorkspaceDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s directory found above %s", WorkspaceDir, dir)
		}
		current = parent
	}
}
