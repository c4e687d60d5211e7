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

package tables

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/caregrid/core/columns"
)

// TableView is a filtered view of a DataTable. The underlying DataTable is
// never modified; the view only keeps a mask of the rows that pass the
// current global filter.
type TableView struct {
	baseTable *DataTable
	tableName string
	filter    string
	searchIn  []string
	mask      *roaring.Bitmap
}

// NewTableView creates a new TableView wrapping a DataTable
func NewTableView(baseTable *DataTable, tableName string) *TableView {
	tv := &TableView{
		baseTable: baseTable,
		tableName: tableName,
	}
	tv.ClearFilter()
	return tv
}

// GetBaseTable returns the underlying immutable DataTable
func (tv *TableView) GetBaseTable() *DataTable {
	return tv.baseTable
}

// GetColumn retrieves a column by name
func (tv *TableView) GetColumn(name string) columns.IDataColumn {
	return tv.baseTable.GetColumn(name)
}

// GetColumnNames returns column names from the base table
func (tv *TableView) GetColumnNames() []string {
	return tv.baseTable.GetColumnNames()
}

// ClearFilter resets the view to every row of the base table
func (tv *TableView) ClearFilter() {
	tv.filter = ""
	tv.searchIn = nil
	tv.mask = roaring.New()
	tv.mask.AddRange(0, uint64(tv.baseTable.Length()))
}

// ApplyGlobalFilter keeps the rows where at least one of the named columns
// contains filter, ignoring case and surrounding whitespace. An empty filter
// keeps every row. The mask is cached and only recomputed when the filter
// or the searched columns change.
func (tv *TableView) ApplyGlobalFilter(filter string, columnNames []string) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == tv.filter && equalNames(columnNames, tv.searchIn) {
		return
	}
	if filter == "" {
		tv.ClearFilter()
		return
	}

	mask := roaring.New()
	for _, name := range columnNames {
		switch col := tv.GetColumn(name).(type) {
		case *columns.StringColumn:
			col.ContainsFold(filter, mask)
		case nil:
			continue
		default:
			for i := 0; i < col.Length(); i++ {
				if v, err := col.GetString(uint32(i)); err == nil && strings.Contains(strings.ToLower(v), filter) {
					mask.Add(uint32(i))
				}
			}
		}
	}

	tv.filter = filter
	tv.searchIn = append([]string(nil), columnNames...)
	tv.mask = mask
}

// FilteredRows returns the mask of rows passing the current filter. The
// caller must not modify it.
func (tv *TableView) FilteredRows() *roaring.Bitmap {
	return tv.mask
}

// GetFilteredIndices returns the indices of rows passing the current filter
func (tv *TableView) GetFilteredIndices() []uint32 {
	return tv.mask.ToArray()
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
