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
	"github.com/google/caregrid/core/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the grid in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("rows") {
			cfg.Data.Rows, _ = cmd.Flags().GetInt("rows")
		}
		// log lines would draw over the alternate screen
		logger = zap.NewNop()
		store, err := newStore()
		if err != nil {
			return err
		}
		return tui.Run(store)
	},
}

func init() {
	tuiCmd.Flags().Int("rows", 0, "Number of rows to generate")
	rootCmd.AddCommand(tuiCmd)
}
