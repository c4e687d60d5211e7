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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/export"
	"github.com/google/caregrid/core/synth"
	"github.com/google/caregrid/core/tables"
	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print generated rows",
	Long: `Generate rows for the configured schema and print them.

--select applies a JSONPath expression to the rows, for example
'$[*].name' or '$[?(@.gender == "F")]'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetUint64("seed")
		selector, _ := cmd.Flags().GetString("select")

		forest, err := loadForest()
		if err != nil {
			return err
		}
		ds, err := dataset.Build(forest, synth.Healthcare(), dataset.Options{Count: count, Seed: seed})
		if err != nil {
			return err
		}
		return writeGenerated(cmd.OutOrStdout(), ds, format, selector)
	},
}

func init() {
	generateCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml or ascii")
	generateCmd.Flags().IntP("count", "n", 10, "Number of rows")
	generateCmd.Flags().Uint64("seed", 0, "Random seed (0 = random)")
	generateCmd.Flags().String("select", "", "JSONPath applied to the rows")
	rootCmd.AddCommand(generateCmd)
}

func writeGenerated(w io.Writer, ds *dataset.Dataset, format, selector string) error {
	if selector != "" {
		return writeSelected(w, ds, format, selector)
	}

	switch strings.ToLower(format) {
	case "json":
		rows := make([]map[string]string, len(ds.Rows))
		for i, r := range ds.Rows {
			rows[i] = r
		}
		return export.WriteJSON(w, export.NewTable("", ds.Forest, rows))
	case "yaml":
		return encodeYAML(w, rowsNode(ds))
	case "ascii":
		view := tables.NewTableView(ds.Table, "generate")
		_, err := io.WriteString(w, view.ToAscii(ds.Accessors, view.GetFilteredIndices()))
		return err
	default:
		return fmt.Errorf("unknown format %q (valid: json, yaml, ascii)", format)
	}
}

// rowsNode builds a YAML sequence whose mappings keep accessor order.
func rowsNode(ds *dataset.Dataset) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range ds.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, a := range ds.Accessors {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: a},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: row[a]})
		}
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func writeSelected(w io.Writer, ds *dataset.Dataset, format, selector string) error {
	x, err := jp.ParseString(selector)
	if err != nil {
		return fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	root := make([]any, len(ds.Rows))
	for i, row := range ds.Rows {
		obj := make(map[string]any, len(row))
		for k, v := range row {
			obj[k] = v
		}
		root[i] = obj
	}
	results := x.Get(root)

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		return encodeYAML(w, results)
	default:
		return fmt.Errorf("--select supports json and yaml output, not %q", format)
	}
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
