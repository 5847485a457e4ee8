package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .semindex/config.yaml.
type ProjectConfig struct {
	Version string   `yaml:"version"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	LogPath string   `yaml:"log_path"`
}

// loadProjectConfig reads .semindex/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".semindex/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveLogPath returns where tool-call logs should be written: the
// project config's log_path if set, otherwise disabled (empty string,
// which mcplog.NewLogger treats as a no-op logger).
func resolveLogPath() string {
	cfg, err := loadProjectConfig()
	if err != nil || cfg == nil {
		return ""
	}
	if cfg.LogPath == "" {
		return ""
	}
	if filepath.IsAbs(cfg.LogPath) {
		return cfg.LogPath
	}
	return filepath.Join(".semindex", cfg.LogPath)
}
