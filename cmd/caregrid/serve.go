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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the grid over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("rows") {
			cfg.Data.Rows, _ = cmd.Flags().GetInt("rows")
		}
		if cmd.Flags().Changed("seed") {
			cfg.Data.Seed, _ = cmd.Flags().GetUint64("seed")
		}
		if cmd.Flags().Changed("watch") {
			cfg.Data.Watch, _ = cmd.Flags().GetBool("watch")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		store, err := newStore()
		if err != nil {
			return err
		}

		srv, err := server.NewServer(store, server.Options{
			Title:           cfg.Server.Title,
			Limit:           cfg.Grid.Limit,
			ShutdownTimeout: cfg.GetShutdownTimeout(),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		var watcher *dataset.Watcher
		if cfg.Data.Watch {
			watcher, err = dataset.NewWatcher(cfg.Data.Schema, store, logger)
			if err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting caregrid",
			zap.String("addr", cfg.Server.Addr),
			zap.Int("rows", cfg.Data.Rows),
			zap.Bool("watch", cfg.Data.Watch))
		return srv.Run(ctx, cfg.Server.Addr, watcher)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config: 127.0.0.1:8097)")
	serveCmd.Flags().Int("rows", 0, "Number of rows to generate")
	serveCmd.Flags().Uint64("seed", 0, "Random seed for the first dataset (0 = random)")
	serveCmd.Flags().Bool("watch", false, "Reload when the schema file changes")
	rootCmd.AddCommand(serveCmd)
}
