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
	"io"
	"strings"

	"github.com/google/caregrid/core/schema"
	"github.com/spf13/cobra"
)

var accessorsCmd = &cobra.Command{
	Use:   "accessors",
	Short: "List the field keys bound by the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, _ := cmd.Flags().GetBool("tree")
		forest, err := loadForest()
		if err != nil {
			return err
		}
		if tree {
			writeTree(cmd.OutOrStdout(), forest)
			return nil
		}
		for _, a := range schema.Accessors(forest) {
			fmt.Fprintln(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

func init() {
	accessorsCmd.Flags().Bool("tree", false, "Print the whole column tree")
	rootCmd.AddCommand(accessorsCmd)
}

func writeTree(w io.Writer, forest schema.Forest) {
	schema.Walk(forest, func(n schema.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		switch v := n.(type) {
		case schema.Leaf:
			fmt.Fprintf(w, "%s%s (%s)\n", indent, v.Label, v.Accessor)
		case schema.Group:
			label := v.Label
			if v.IsPlaceholder() {
				label = "<placeholder " + v.ID + ">"
			}
			fmt.Fprintf(w, "%s%s\n", indent, label)
		}
	})
}
