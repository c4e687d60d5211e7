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

package grid

import (
	"net/url"
	"testing"

	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/query"
	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
	"github.com/google/caregrid/core/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *dataset.Dataset {
	forest := schema.Forest{
		schema.NewGroup("Patient",
			schema.NewLeaf("Name", "name"),
			schema.NewLeaf("Age", "age"),
		),
		schema.NewLeaf("Country", "country"),
	}
	rows := []synth.Row{
		{"name": "Carol", "age": "41", "country": "Peru"},
		{"name": "alice", "age": "9", "country": "Chile"},
		{"name": "Bob", "age": "77", "country": "Peru"},
		{"name": "Dave", "age": "23", "country": "Spain"},
	}
	leaves := schema.Leaves(forest)
	return &dataset.Dataset{
		Forest:    forest,
		Accessors: schema.Accessors(forest),
		Leaves:    leaves,
		Rows:      rows,
		Table:     tables.FromRows(leaves, rows),
	}
}

func build(t *testing.T, ds *dataset.Dataset, rawQuery string) *Model {
	t.Helper()
	u, err := url.Parse("/?" + rawQuery)
	require.NoError(t, err)
	return Build(ds, tables.NewTableView(ds.Table, "grid"), query.NewQuery(u))
}

func TestBuildDefaults(t *testing.T) {
	m := build(t, testDataset(), "")

	assert.Equal(t, []uint32{0, 1, 2, 3}, m.Rows)
	assert.Equal(t, 4, m.TotalRows)
	assert.Equal(t, 4, m.FilteredCount)
	assert.Len(t, m.Visible, 3)
	assert.Len(t, m.Columns, 3)
	assert.False(t, m.AllSelected)
	assert.False(t, m.SomeSelected)
	assert.Nil(t, m.Panel)
	assert.False(t, m.HasMoreRows())
}

func TestBuildSortAndFilter(t *testing.T) {
	ds := testDataset()

	tests := []struct {
		name  string
		query string
		want  []uint32
	}{
		{"sort by name ignores case", "sort=name", []uint32{1, 2, 0, 3}},
		{"numeric age sort", "sort=age", []uint32{1, 3, 0, 2}},
		{"descending", "sort=age:desc", []uint32{2, 0, 3, 1}},
		{"multi column sort", "sort=country,name:desc", []uint32{1, 0, 2, 3}},
		{"filter", "q=PERU", []uint32{0, 2}},
		{"filter and sort", "q=peru&sort=name", []uint32{2, 0}},
		{"filter without match", "q=zzz", []uint32{}},
		{"limit", "sort=name&limit=2", []uint32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build(t, ds, tt.query)
			if len(tt.want) == 0 {
				assert.Empty(t, m.Rows)
				return
			}
			assert.Equal(t, tt.want, m.Rows)
		})
	}
}

func TestBuildFilterSkipsHiddenColumns(t *testing.T) {
	m := build(t, testDataset(), "q=peru&hidden=country")
	assert.Empty(t, m.Rows)
	assert.Equal(t, 0, m.FilteredCount)

	require.Len(t, m.Visible, 2)
	assert.Equal(t, "name", m.Visible[0].Accessor)
	assert.Equal(t, "age", m.Visible[1].Accessor)
	assert.False(t, m.Columns[2].Visible)
	assert.Equal(t, []string{"name", "age"}, schema.Accessors(m.Forest))
}

func TestBuildSelection(t *testing.T) {
	ds := testDataset()

	m := build(t, ds, "selected=1")
	assert.True(t, m.IsSelected(1))
	assert.False(t, m.IsSelected(0))
	assert.False(t, m.AllSelected)
	assert.True(t, m.SomeSelected)
	assert.Equal(t, 1, m.SelectedCount)

	m = build(t, ds, "selected=0-3")
	assert.True(t, m.AllSelected)
	assert.False(t, m.SomeSelected)

	// Selection is measured against the filtered rows.
	m = build(t, ds, "selected=0,2&q=peru")
	assert.True(t, m.AllSelected)

	// Indices past the end of the dataset are ignored.
	m = build(t, ds, "selected=99")
	assert.Equal(t, 0, m.SelectedCount)
	assert.False(t, m.SomeSelected)

	// Nothing to select.
	m = build(t, ds, "q=zzz&selected=0")
	assert.False(t, m.AllSelected)
}

func TestBuildExpanded(t *testing.T) {
	m := build(t, testDataset(), "expanded=2")
	assert.True(t, m.IsExpanded(2))
	assert.False(t, m.IsExpanded(1))
}

func TestBuildPanel(t *testing.T) {
	ds := testDataset()

	m := build(t, ds, "panel=2:age")
	require.NotNil(t, m.Panel)
	assert.Equal(t, uint32(2), m.Panel.Row)
	assert.Equal(t, "Age", m.Panel.Label)
	assert.Equal(t, "77", m.Panel.Value)
	assert.Equal(t, "{\n  \"name\": \"Bob\",\n  \"age\": \"77\",\n  \"country\": \"Peru\"\n}", m.Panel.RowJSON)
	assert.Contains(t, m.Panel.Info(), "Cell value: 77")

	assert.Nil(t, build(t, ds, "panel=9:age").Panel)
	assert.Nil(t, build(t, ds, "panel=1:nope").Panel)
}

func TestRowJSONKeepsAccessorOrder(t *testing.T) {
	got := RowJSON([]string{"z", "a"}, map[string]string{"a": "1", "z": "2"})
	want := "{\n  \"z\": \"2\",\n  \"a\": \"1\"\n}"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
