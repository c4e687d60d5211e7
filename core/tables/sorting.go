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
	"container/heap"
	"sort"

	"github.com/google/caregrid/core/columns"
	"github.com/google/caregrid/core/query"
)

type sortKey struct {
	col        columns.IDataColumn
	descending bool
}

// rowOrder is a total order over row indices: sort keys first, then the
// row index, so equal rows keep their dataset order.
type rowOrder []sortKey

func (o rowOrder) compare(a, b uint32) int {
	for _, k := range o {
		if c := columns.CompareAtIndex(k.col, a, b); c != 0 {
			if k.descending {
				return -c
			}
			return c
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (o rowOrder) sort(rows []uint32) []uint32 {
	sort.Slice(rows, func(i, j int) bool { return o.compare(rows[i], rows[j]) < 0 })
	return rows
}

// keptRows holds the best rows seen so far with the worst one on top.
type keptRows struct {
	rows  []uint32
	order rowOrder
}

func (h *keptRows) Len() int           { return len(h.rows) }
func (h *keptRows) Less(i, j int) bool { return h.order.compare(h.rows[i], h.rows[j]) > 0 }
func (h *keptRows) Swap(i, j int)      { h.rows[i], h.rows[j] = h.rows[j], h.rows[i] }
func (h *keptRows) Push(x any)         { h.rows = append(h.rows, x.(uint32)) }

func (h *keptRows) Pop() any {
	last := h.rows[len(h.rows)-1]
	h.rows = h.rows[:len(h.rows)-1]
	return last
}

func (t *TableView) sortKeys(sortOrder []query.SortColumn) rowOrder {
	order := make(rowOrder, 0, len(sortOrder))
	for _, sc := range sortOrder {
		if col := t.GetColumn(sc.Name); col != nil {
			order = append(order, sortKey{col: col, descending: sc.Descending})
		}
	}
	return order
}

// GetSortedTopK returns the first limit rows of indices in sortOrder.
// Unknown column names are ignored; with no usable column the rows keep
// their input order. When limit covers every row, indices is sorted in
// place.
func (t *TableView) GetSortedTopK(indices []uint32, sortOrder []query.SortColumn, limit int) []uint32 {
	if len(indices) == 0 || limit <= 0 {
		return []uint32{}
	}
	order := t.sortKeys(sortOrder)
	if len(order) == 0 {
		return indices[:min(limit, len(indices))]
	}
	if limit >= len(indices) {
		return order.sort(indices)
	}

	kept := &keptRows{rows: append(make([]uint32, 0, limit), indices[:limit]...), order: order}
	heap.Init(kept)
	for _, row := range indices[limit:] {
		if order.compare(row, kept.rows[0]) < 0 {
			kept.rows[0] = row
			heap.Fix(kept, 0)
		}
	}
	return order.sort(kept.rows)
}

// SortedRows returns the filtered row indices in sort order. A limit of 0
// returns every row.
func (t *TableView) SortedRows(sortOrder []query.SortColumn, limit int) []uint32 {
	filtered := t.GetFilteredIndices()
	if limit <= 0 || limit > len(filtered) {
		limit = len(filtered)
	}
	if len(sortOrder) == 0 {
		return filtered[:limit]
	}
	return t.GetSortedTopK(filtered, sortOrder, limit)
}

// GetFilteredRowsSorted returns the named columns of the first limit
// filtered rows in sort order.
func (t *TableView) GetFilteredRowsSorted(columnNames []string, sortOrder []query.SortColumn, limit int) []map[string]string {
	return t.baseTable.Rows(t.SortedRows(sortOrder, limit), columnNames)
}
