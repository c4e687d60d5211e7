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

package views

import (
	"fmt"

	"github.com/google/caregrid/core/grid"
	"github.com/google/caregrid/core/query"
	"github.com/google/caregrid/core/schema"
	"github.com/google/safehtml"
)

// ExpandedRowText is shown in place of the nested form grid of an expanded row.
const ExpandedRowText = "Inner Form Grid Goes here"

// Download formats offered in the toolbar, in display order.
var DownloadFormats = []string{"csv", "json", "xlsx", "parquet"}

// Sort icons
const (
	SortIconNone = "↕"
	SortIconAsc  = "↑"
	SortIconDesc = "↓"
)

// GridViewModel contains the grid page formatted for template consumption
type GridViewModel struct {
	Title       string
	DatasetID   string
	GeneratedAt string

	HeaderRows      []HeaderRow
	Rows            []RowView
	ColSpan         int // Width of the table including the select and expand columns
	ExpandedRowText string

	Toolbar Toolbar
	Panel   *PanelView

	TotalRows     int
	FilteredCount int
	DisplayedRows int
	SelectedCount int
	HasMoreRows   bool
	ShowAllURL    safehtml.URL
}

// HeaderRow is one row of the table head.
type HeaderRow struct {
	IsBottom  bool
	SelectAll *SelectAllView // Only set on the bottom row
	Cells     []HeaderCell
}

// SelectAllView is the select-all checkbox.
type SelectAllView struct {
	Checked       bool
	Indeterminate bool
	ToggleURL     safehtml.URL
}

// HeaderCell is one cell of a header row.
type HeaderCell struct {
	ID            string
	Label         string
	ColSpan       int
	IsPlaceholder bool

	// Sorting affordances, bottom row only
	Sortable     bool
	SortIcon     string
	SortPriority int          // 1-based position in a multi-column sort, 0 if unsorted
	SortURL      safehtml.URL // Sort by this column only
	AddSortURL   safehtml.URL // Add this column to the current sort
}

// RowView is one body row.
type RowView struct {
	Index     uint32
	Selected  bool
	Expanded  bool
	SelectURL safehtml.URL
	ExpandURL safehtml.URL
	Cells     []CellView
	IsZebra   bool
}

// CellView is one body cell.
type CellView struct {
	Accessor string
	Value    string
	Active   bool // Cell shown in the side panel
	OpenURL  safehtml.URL
}

// PanelView is the side panel.
type PanelView struct {
	Title    string
	Label    string
	Info     string
	CloseURL safehtml.URL
}

// Toolbar holds the controls above the grid.
type Toolbar struct {
	Downloads    []DownloadLink
	ColumnsLabel string
	ColumnsURL   safehtml.URL
	ShowColumns  bool
	Columns      []ColumnToggle

	SearchAction safehtml.URL
	SearchValue  string
	SearchState  SearchState
	ClearURL     safehtml.URL
}

// DownloadLink is one export link.
type DownloadLink struct {
	Format string
	URL    safehtml.URL
}

// ColumnToggle is one entry of the column chooser.
type ColumnToggle struct {
	Accessor  string
	Label     string
	IsVisible bool
	ToggleURL safehtml.URL
}

// SearchState carries the rest of the URL state through the search form,
// one field per URL parameter. Empty fields are not submitted.
type SearchState struct {
	Sort     string
	Selected string
	Expanded string
	Hidden   string
	Panel    string
	Cols     string
	Limit    string
}

// BuildGridViewModel lays a grid model out for the template. downloadPath
// is the path of the export handler.
func BuildGridViewModel(m *grid.Model, title, downloadPath string) GridViewModel {
	q := m.Query
	vm := GridViewModel{
		Title:           title,
		DatasetID:       m.Dataset.ID.String(),
		GeneratedAt:     m.Dataset.GeneratedAt.Format("2006-01-02 15:04:05"),
		ColSpan:         len(m.Visible) + 2,
		ExpandedRowText: ExpandedRowText,
		TotalRows:       m.TotalRows,
		FilteredCount:   m.FilteredCount,
		DisplayedRows:   len(m.Rows),
		SelectedCount:   m.SelectedCount,
		HasMoreRows:     m.HasMoreRows(),
		ShowAllURL:      q.WithLimit(0),
	}

	vm.HeaderRows = buildHeaderRows(m)
	vm.Rows = buildRows(m)
	vm.Toolbar = buildToolbar(m, downloadPath)

	if m.Panel != nil {
		vm.Panel = &PanelView{
			Title:    "Edit",
			Label:    m.Panel.Label,
			Info:     m.Panel.Info(),
			CloseURL: q.WithoutPanel(),
		}
	}
	return vm
}

func buildHeaderRows(m *grid.Model) []HeaderRow {
	q := m.Query
	groups := schema.HeaderGroups(m.Forest)
	rows := make([]HeaderRow, 0, len(groups))
	for i, group := range groups {
		row := HeaderRow{IsBottom: i == len(groups)-1}
		if row.IsBottom {
			row.SelectAll = &SelectAllView{
				Checked:       m.AllSelected,
				Indeterminate: m.SomeSelected,
				ToggleURL:     q.WithAllSelectionToggled(m.Filtered),
			}
		}
		for _, h := range group {
			cell := HeaderCell{
				ID:            h.ID,
				Label:         h.Label,
				ColSpan:       h.ColSpan,
				IsPlaceholder: h.IsPlaceholder,
			}
			if row.IsBottom && h.Accessor != "" {
				cell.Sortable = true
				cell.SortIcon = sortIcon(q, h.Accessor)
				cell.SortPriority = q.SortIndex(h.Accessor) + 1
				cell.SortURL = q.WithSortToggled(h.Accessor, false)
				cell.AddSortURL = q.WithSortToggled(h.Accessor, true)
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func sortIcon(q *query.Query, accessor string) string {
	descending, sorted := q.SortDirection(accessor)
	switch {
	case !sorted:
		return SortIconNone
	case descending:
		return SortIconDesc
	default:
		return SortIconAsc
	}
}

func buildRows(m *grid.Model) []RowView {
	q := m.Query
	rows := make([]RowView, 0, len(m.Rows))
	for n, idx := range m.Rows {
		data := m.Dataset.Rows[idx]
		rv := RowView{
			Index:     idx,
			Selected:  m.IsSelected(idx),
			Expanded:  m.IsExpanded(idx),
			SelectURL: q.WithRowSelectionToggled(idx),
			ExpandURL: q.WithExpandedToggled(idx),
			IsZebra:   n%2 == 1,
		}
		for _, leaf := range m.Visible {
			rv.Cells = append(rv.Cells, CellView{
				Accessor: leaf.Accessor,
				Value:    data[leaf.Accessor],
				Active:   q.Panel != nil && q.Panel.Row == idx && q.Panel.Accessor == leaf.Accessor,
				OpenURL:  q.WithPanel(idx, leaf.Accessor),
			})
		}
		rows = append(rows, rv)
	}
	return rows
}

func buildToolbar(m *grid.Model, downloadPath string) Toolbar {
	q := m.Query
	tb := Toolbar{
		ColumnsLabel: fmt.Sprintf("Columns (%d/%d)", len(m.Visible), len(m.Columns)),
		ColumnsURL:   q.WithColumnsMenuToggled(),
		ShowColumns:  q.ShowColumns,
		SearchAction: safehtml.URLSanitized(q.Path),
		SearchValue:  q.Filter,
		ClearURL:     q.WithFilter(""),
	}
	for _, format := range DownloadFormats {
		tb.Downloads = append(tb.Downloads, DownloadLink{
			Format: format,
			URL:    q.DownloadURL(downloadPath, format),
		})
	}
	for _, c := range m.Columns {
		tb.Columns = append(tb.Columns, ColumnToggle{
			Accessor:  c.Leaf.Accessor,
			Label:     c.Leaf.Label,
			IsVisible: c.Visible,
			ToggleURL: q.WithColumnToggled(c.Leaf.Accessor),
		})
	}

	values := q.Values()
	tb.SearchState = SearchState{
		Sort:     values.Get("sort"),
		Selected: values.Get("selected"),
		Expanded: values.Get("expanded"),
		Hidden:   values.Get("hidden"),
		Panel:    values.Get("panel"),
		Cols:     values.Get("cols"),
		Limit:    values.Get("limit"),
	}
	return tb
}
