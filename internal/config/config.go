// Package config loads the daemon configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chimed/chimed/common"
)

const configFileName = "config.yaml"

// Config is the daemon's runtime configuration.
type Config struct {
	// DataDir holds the alert database and recurrence rules.
	DataDir string
	// Port is the TCP fallback port for the IPC listener; the HTTP
	// endpoints bind to Port+1.
	Port int
	// RPCSecret enables the JSON-RPC and websocket endpoints. Empty
	// disables them.
	RPCSecret string
	// RPCListenAll binds the HTTP endpoints to 0.0.0.0 instead of loopback.
	RPCListenAll bool
	// PastDueLimit is the tolerance before a missed alert is classified
	// past-due instead of firing late.
	PastDueLimit time.Duration
	// TonePath points at a WAV file to ring with; empty uses the built-in
	// chime.
	TonePath string
	// MaxRingDuration bounds how long an unattended alert rings.
	MaxRingDuration time.Duration
}

type yamlConfig struct {
	DataDir            string `yaml:"data_dir"`
	Port               int    `yaml:"port"`
	RPCSecret          string `yaml:"rpc_secret"`
	RPCListenAll       bool   `yaml:"rpc_listen_all"`
	PastDueSeconds     int    `yaml:"past_due_seconds"`
	TonePath           string `yaml:"tone_path"`
	MaxRingDurationMin int    `yaml:"max_ring_duration_minutes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:         defaultDataDir(),
		Port:            common.DefaultTCPPort,
		PastDueLimit:    30 * time.Minute,
		MaxRingDuration: 15 * time.Minute,
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "chimed")
	}
	return filepath.Join(base, "chimed")
}

// Load reads the configuration file from the given path, or from the
// default location when path is empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = filepath.Join(cfg.DataDir, configFileName)
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if fileData.DataDir != "" {
		cfg.DataDir = fileData.DataDir
	}
	if fileData.Port > 0 {
		cfg.Port = fileData.Port
	}
	if fileData.RPCSecret != "" {
		cfg.RPCSecret = fileData.RPCSecret
	}
	cfg.RPCListenAll = fileData.RPCListenAll
	if fileData.PastDueSeconds > 0 {
		cfg.PastDueLimit = time.Duration(fileData.PastDueSeconds) * time.Second
	}
	if fileData.TonePath != "" {
		cfg.TonePath = fileData.TonePath
	}
	if fileData.MaxRingDurationMin > 0 {
		cfg.MaxRingDuration = time.Duration(fileData.MaxRingDurationMin) * time.Minute
	}
	return cfg, nil
}

// DatabasePath is the location of the alert database inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "alerts.db")
}

// RulesPath is the location of the recurrence rules inside DataDir.
func (c Config) RulesPath() string {
	return filepath.Join(c.DataDir, "recurrence.json")
}
