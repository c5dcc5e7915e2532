package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// fileConfig mirrors the flags that make sense to persist. Flags given on
// the command line always win over the file.
type fileConfig struct {
	Wrap       int    `yaml:"wrap"`
	Validate   bool   `yaml:"validate"`
	Document   bool   `yaml:"document"`
	Title      string `yaml:"title"`
	Stylesheet string `yaml:"stylesheet"`
}

func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "samup", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "samup", "config.yaml")
}

// loadConfig reads the YAML config. A missing default config is not an
// error; a missing explicitly requested one is.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(normalizePath(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
