package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the server. Every field is optional; missing keys keep
// their defaults.
type Config struct {
	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`
	DefaultTopN   int    `yaml:"default_top_n"`
	LogLevel      string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		ServerName:    "lprofile",
		ServerVersion: "1.0.0",
		DefaultTopN:   10,
		LogLevel:      "info",
	}
}

// loadConfig overlays the YAML file at path, when given, on the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DefaultTopN < 1 {
		return cfg, fmt.Errorf("default_top_n must be positive, got %d", cfg.DefaultTopN)
	}
	return cfg, nil
}
