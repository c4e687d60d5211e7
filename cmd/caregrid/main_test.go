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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAccessorsCommand(t *testing.T) {
	out, err := run(t, "accessors")
	require.NoError(t, err)
	assert.Equal(t, "name\ncountry\nstructure\ngender\nage\ndate\npracticionerAffiliation\nplaceOfConsultation\n", out)

	out, err = run(t, "accessors", "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Healthcare user\n  <placeholder col-placeholder-1>\n    Patient name (name)\n")
}

func TestAccessorsCommandSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`columns:
  - label: Group
    columns:
      - accessor: name
      - accessor: age
`), 0644))

	out, err := run(t, "accessors", "--schema", path)
	require.NoError(t, err)
	assert.Equal(t, "name\nage\n", out)

	_, err = run(t, "accessors", "--schema", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGenerateJSON(t *testing.T) {
	out, err := run(t, "generate", "--schema", "", "--count", "3", "--seed", "5")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 8)
	}
	// keys keep accessor order
	assert.Less(t, strings.Index(out, `"name"`), strings.Index(out, `"country"`))

	again, err := run(t, "generate", "--count", "3", "--seed", "5")
	require.NoError(t, err)
	assert.Equal(t, len(out), len(again))
}

func TestGenerateYAML(t *testing.T) {
	out, err := run(t, "generate", "--schema", "", "--format", "yaml", "--count", "2", "--seed", "1")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.NotEmpty(t, rows[0]["age"])
}

func TestGenerateASCII(t *testing.T) {
	out, err := run(t, "generate", "--schema", "", "--format", "ascii", "--count", "2", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Patient name")
}

func TestGenerateSelect(t *testing.T) {
	out, err := run(t, "generate", "--schema", "", "--count", "4", "--seed", "2", "--select", "$[*].gender", "--format", "json")
	require.NoError(t, err)

	var genders []string
	require.NoError(t, json.Unmarshal([]byte(out), &genders))
	require.Len(t, genders, 4)
	for _, g := range genders {
		assert.Contains(t, []string{"M", "F", "O", "U"}, g)
	}

	_, err = run(t, "generate", "--select", "$[", "--format", "json")
	assert.Error(t, err)
	_, err = run(t, "generate", "--select", "$[*].age", "--format", "ascii")
	assert.Error(t, err)
}

func TestGenerateUnknownFormat(t *testing.T) {
	_, err := run(t, "generate", "--schema", "", "--format", "toml", "--select", "")
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--schema", "")
	require.NoError(t, err)
	assert.Contains(t, out, "addr: 127.0.0.1:8097")

	path := filepath.Join(t.TempDir(), "caregrid.yaml")
	_, err = run(t, "config", "--write", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
