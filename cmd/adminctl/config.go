package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, loaded from a yaml file with
// environment overrides.
type Config struct {
	APIURL    string `yaml:"api_url"`
	StateFile string `yaml:"state_file"`
}

const (
	defaultAPIURL = "http://localhost:8080"

	envAPIURL    = "SPORTSPACE_API_URL"
	envStateFile = "SPORTSPACE_STATE_FILE"
)

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sportspace"
	}
	return filepath.Join(home, ".config", "sportspace")
}

func defaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "adminctl.yaml")
}

// loadConfig reads the yaml config at path (or the default location when
// path is empty). A missing file yields defaults; env vars win over file
// values.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath()
	}

	cfg := &Config{
		APIURL:    defaultAPIURL,
		StateFile: filepath.Join(defaultConfigDir(), "state.json"),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if value := os.Getenv(envAPIURL); value != "" {
		cfg.APIURL = value
	}
	if value := os.Getenv(envStateFile); value != "" {
		cfg.StateFile = value
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("api_url must not be empty")
	}
	if cfg.StateFile == "" {
		return nil, fmt.Errorf("state_file must not be empty")
	}
	return cfg, nil
}
