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

package main

import (
	"fmt"

	"github.com/google/caregrid/core/config"
	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/logging"
	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	schemaPath string
	logLevel   string
	devLogs    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "caregrid",
	Short:        "Browse synthetic healthcare records in a grid",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("schema") {
			cfg.Data.Schema = schemaPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("dev") {
			cfg.Logging.Development = devLogs
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.GetLogLevel(), cfg.Logging.Development)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Path to a YAML column schema (default: built-in healthcare schema)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "Human readable console logs")
}

// loadForest returns the configured schema.
func loadForest() (schema.Forest, error) {
	if cfg.Data.Schema == "" {
		return schema.Healthcare(), nil
	}
	forest, err := schema.LoadFile(cfg.Data.Schema)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return forest, nil
}

// newStore generates the first dataset for the configured schema.
func newStore() (*dataset.Store, error) {
	forest, err := loadForest()
	if err != nil {
		return nil, err
	}
	return dataset.NewStore(forest, synth.Healthcare(), dataset.Options{
		Count: cfg.Data.Rows,
		Seed:  cfg.Data.Seed,
	}, logger)
}
