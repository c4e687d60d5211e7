/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config holds the caregrid configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Grid    GridConfig    `yaml:"grid"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	Title           string `yaml:"title"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DataConfig configures the generated dataset.
type DataConfig struct {
	Rows   int    `yaml:"rows"`
	Seed   uint64 `yaml:"seed"`   // 0 picks a random seed on every generation
	Schema string `yaml:"schema"` // empty uses the built-in healthcare schema
	Watch  bool   `yaml:"watch"`  // reload when the schema file changes
}

// GridConfig configures the grid page.
type GridConfig struct {
	Limit int `yaml:"limit"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8097",
			Title:           "Healthcare records",
			ShutdownTimeout: "5s",
		},
		Data: DataConfig{
			Rows: 100,
		},
		Grid: GridConfig{
			Limit: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if addr := os.Getenv("CAREGRID_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("CAREGRID_SCHEMA"); path != "" {
		c.Data.Schema = path
	}
	if level := os.Getenv("CAREGRID_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if rows := os.Getenv("CAREGRID_ROWS"); rows != "" {
		n, err := strconv.Atoi(rows)
		if err != nil {
			return fmt.Errorf("%w: CAREGRID_ROWS=%q is not a number", ErrInvalid, rows)
		}
		c.Data.Rows = n
	}
	return nil
}

// GetShutdownTimeout returns the graceful shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GetLogLevel returns the parsed log level.
func (c *Config) GetLogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	if c.Data.Rows < 0 {
		return fmt.Errorf("%w: data.rows must not be negative, got %d", ErrInvalid, c.Data.Rows)
	}
	if c.Grid.Limit < 0 {
		return fmt.Errorf("%w: grid.limit must not be negative, got %d", ErrInvalid, c.Grid.Limit)
	}
	if c.Data.Watch && c.Data.Schema == "" {
		return fmt.Errorf("%w: data.watch needs data.schema", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("%w: server.shutdown_timeout: %v", ErrInvalid, err)
	}
	return nil
}
