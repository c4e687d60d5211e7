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

// Package grid computes what the grid shows for a given URL state: which
// columns are visible, which rows pass the search, their order, and the
// selection, expansion and side panel state.
package grid

import (
	"encoding/json"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/query"
	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/tables"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Model is the row model of one grid page.
type Model struct {
	Dataset *dataset.Dataset
	Query   *query.Query

	Forest  schema.Forest // schema with hidden columns removed
	Visible []schema.Leaf // visible leaves in display order
	Columns []ColumnChoice

	Filtered *roaring.Bitmap // rows passing the search
	Rows     []uint32        // rows to display, sorted and limited

	TotalRows     int
	FilteredCount int
	SelectedCount int
	AllSelected   bool
	SomeSelected  bool // some but not all rows are selected

	Panel *Panel
}

// ColumnChoice is one entry of the column chooser.
type ColumnChoice struct {
	Leaf    schema.Leaf
	Visible bool
}

// Panel is the content of the side panel for one cell.
type Panel struct {
	Row      uint32
	Accessor string
	Label    string
	Value    string
	RowJSON  string
}

// Info is the text block the side panel shows.
func (p *Panel) Info() string {
	return fmt.Sprintf("Cell value: %s\nRow: %s", p.Value, p.RowJSON)
}

// Build evaluates q against the dataset. view must wrap ds.Table; its
// filter is updated in place.
func Build(ds *dataset.Dataset, view *tables.TableView, q *query.Query) *Model {
	m := &Model{
		Dataset:   ds,
		Query:     q,
		TotalRows: ds.Len(),
	}

	for _, leaf := range ds.Leaves {
		visible := !q.IsColumnHidden(leaf.Accessor)
		m.Columns = append(m.Columns, ColumnChoice{Leaf: leaf, Visible: visible})
		if visible {
			m.Visible = append(m.Visible, leaf)
		}
	}
	m.Forest = schema.Prune(ds.Forest, func(a string) bool { return !q.IsColumnHidden(a) })

	visible := make([]string, len(m.Visible))
	for i, leaf := range m.Visible {
		visible[i] = leaf.Accessor
	}
	view.ApplyGlobalFilter(q.Filter, visible)
	m.Filtered = view.FilteredRows().Clone()
	m.FilteredCount = int(m.Filtered.GetCardinality())
	m.Rows = view.SortedRows(q.Sort, q.Limit)

	selected := q.Selected.Clone()
	selected.RemoveRange(uint64(ds.Len()), uint64(1)<<32)
	m.SelectedCount = int(selected.GetCardinality())
	m.AllSelected = m.FilteredCount > 0 && roaring.AndNot(m.Filtered, selected).IsEmpty()
	m.SomeSelected = !m.AllSelected && m.SelectedCount > 0

	if q.Panel != nil {
		m.Panel = buildPanel(ds, q.Panel)
	}
	return m
}

func buildPanel(ds *dataset.Dataset, ref *query.CellRef) *Panel {
	if int(ref.Row) >= ds.Len() {
		return nil
	}
	leaf, ok := ds.Leaf(ref.Accessor)
	if !ok {
		return nil
	}
	row := ds.Rows[ref.Row]
	return &Panel{
		Row:      ref.Row,
		Accessor: ref.Accessor,
		Label:    leaf.Label,
		Value:    row[ref.Accessor],
		RowJSON:  RowJSON(ds.Accessors, row),
	}
}

// RowJSON renders a row as indented JSON with keys in accessor order.
func RowJSON(accessors []string, row map[string]string) string {
	om := orderedmap.New[string, string]()
	for _, a := range accessors {
		om.Set(a, row[a])
	}
	b, err := json.MarshalIndent(om, "", "  ")
	if err != nil {
		// string keys and values always marshal
		panic(err)
	}
	return string(b)
}

// IsSelected reports whether row is selected.
func (m *Model) IsSelected(row uint32) bool {
	return m.Query.Selected.Contains(row)
}

// IsExpanded reports whether row is expanded.
func (m *Model) IsExpanded(row uint32) bool {
	return m.Query.Expanded.Contains(row)
}

// HasMoreRows reports whether the limit hides some filtered rows.
func (m *Model) HasMoreRows() bool {
	return len(m.Rows) < m.FilteredCount
}
