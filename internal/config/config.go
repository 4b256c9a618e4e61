// Package config loads service configuration from an optional
// resumetry.yaml file (searched from the working directory upward) with
// RESUMETRY_-prefixed environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "resumetry.yaml"
	envPrefix      = "RESUMETRY_"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StoreConfig struct {
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
	// Endpoint overrides the DynamoDB endpoint, e.g. a local DynamoDB.
	Endpoint string `yaml:"endpoint"`
	// Local switches to the embedded BadgerDB store; no AWS needed.
	Local bool `yaml:"local"`
	// DataDir is the BadgerDB directory in local mode. Empty means
	// in-memory.
	DataDir string `yaml:"dataDir"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:4200", "http://localhost:3000"},
		},
		Log: LogConfig{Level: "info"},
		Store: StoreConfig{
			Table:  "job-applications",
			Region: "us-east-1",
		},
	}
}

// Load returns defaults overlaid with the config file (if found) and
// then the environment.
func Load() (Config, error) {
	cfg := defaults()

	if path := findConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// findConfigFile searches for resumetry.yaml walking up from the
// current directory.
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", envPrefix, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("TABLE"); ok {
		cfg.Store.Table = v
	}
	if v, ok := lookup("REGION"); ok {
		cfg.Store.Region = v
	}
	if v, ok := lookup("ENDPOINT"); ok {
		cfg.Store.Endpoint = v
	}
	if v, ok := lookup("LOCAL"); ok {
		local, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOCAL: %w", envPrefix, err)
		}
		cfg.Store.Local = local
	}
	if v, ok := lookup("DATA_DIR"); ok {
		cfg.Store.DataDir = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
