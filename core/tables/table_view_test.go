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
	"testing"

	"github.com/fatih/color"
	"github.com/google/caregrid/core/query"
	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
)

func patientTable() *DataTable {
	leaves := []schema.Leaf{
		schema.NewLeaf("Patient name", "name"),
		schema.NewLeaf("Country", "country"),
		schema.NewLeaf("Age category", "age"),
	}
	rows := []synth.Row{
		{"name": "Ada Lovelace", "country": "Assurance", "age": "36"},
		{"name": "Alan Turing", "country": "Identity", "age": "41"},
		{"name": "Grace Hopper", "country": "Assurance", "age": "9"},
		{"name": "Edsger Dijkstra", "country": "Metrics", "age": "72"},
		{"name": "Barbara Liskov", "country": "Identity", "age": "41"},
	}
	return FromRows(leaves, rows)
}

func TestFromRows(t *testing.T) {
	table := patientTable()
	if table.Length() != 5 {
		t.Fatalf("Expected 5 rows, got %d", table.Length())
	}
	if got := table.GetColumnNames(); !equalNames(got, []string{"name", "country", "age"}) {
		t.Errorf("Expected leaf order, got %v", got)
	}
	if dn := table.GetColumn("name").ColumnDef().DisplayName(); dn != "Patient name" {
		t.Errorf("Expected display name from leaf label, got %q", dn)
	}
	row := table.Row(3, []string{"name", "age", "missing"})
	if row["name"] != "Edsger Dijkstra" || row["age"] != "72" {
		t.Errorf("Unexpected row %v", row)
	}
	if _, ok := row["missing"]; ok {
		t.Errorf("Expected unknown columns to be skipped")
	}
}

func TestRows(t *testing.T) {
	table := patientTable()
	rows := table.Rows([]uint32{4, 0}, []string{"name"})
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0]["name"] != "Barbara Liskov" || rows[1]["name"] != "Ada Lovelace" {
		t.Errorf("Expected rows in the requested order, got %v", rows)
	}
	if len(rows[0]) != 1 {
		t.Errorf("Expected only the named column, got %v", rows[0])
	}
}

func TestFromRowsEmpty(t *testing.T) {
	table := FromRows(nil, []synth.Row{{}, {}})
	if table.Length() != 2 {
		t.Errorf("Expected 2 rows without columns, got %d", table.Length())
	}
	view := NewTableView(table, "empty")
	if got := view.SortedRows(nil, 0); len(got) != 2 {
		t.Errorf("Expected both rows visible, got %v", got)
	}
}

func TestApplyGlobalFilter(t *testing.T) {
	view := NewTableView(patientTable(), "patients")
	all := []string{"name", "country", "age"}

	tests := []struct {
		filter  string
		columns []string
		want    []uint32
	}{
		{"", all, []uint32{0, 1, 2, 3, 4}},
		{"assurance", all, []uint32{0, 2}},
		{"  TURING ", all, []uint32{1}},
		{"41", all, []uint32{1, 4}},
		{"41", []string{"name", "country"}, []uint32{}},
		{"a", []string{"unknown"}, []uint32{}},
		{"zzz", all, []uint32{}},
	}
	for _, tt := range tests {
		view.ApplyGlobalFilter(tt.filter, tt.columns)
		if got := view.GetFilteredIndices(); !equalRows(got, tt.want) {
			t.Errorf("filter %q on %v: expected %v, got %v", tt.filter, tt.columns, tt.want, got)
		}
	}
}

func TestSortedRows(t *testing.T) {
	view := NewTableView(patientTable(), "patients")

	t.Run("no sort keeps row order", func(t *testing.T) {
		if got := view.SortedRows(nil, 0); !equalRows(got, []uint32{0, 1, 2, 3, 4}) {
			t.Errorf("Expected natural order, got %v", got)
		}
	})

	t.Run("numeric aware ascending", func(t *testing.T) {
		got := view.SortedRows([]query.SortColumn{{Name: "age"}}, 0)
		if !equalRows(got, []uint32{2, 0, 1, 4, 3}) {
			t.Errorf("Expected 9,36,41,41,72 with ties in row order, got %v", got)
		}
	})

	t.Run("descending with secondary key", func(t *testing.T) {
		got := view.SortedRows([]query.SortColumn{{Name: "country", Descending: true}, {Name: "name"}}, 0)
		// Metrics, Identity(Alan, Barbara), Assurance(Ada, Grace)
		if !equalRows(got, []uint32{3, 1, 4, 0, 2}) {
			t.Errorf("Unexpected order %v", got)
		}
	})

	t.Run("top k matches full sort prefix", func(t *testing.T) {
		order := []query.SortColumn{{Name: "name", Descending: true}}
		full := view.SortedRows(order, 0)
		top := view.SortedRows(order, 2)
		if !equalRows(top, full[:2]) {
			t.Errorf("Expected top 2 %v, got %v", full[:2], top)
		}
	})

	t.Run("top k keeps tie order across the cut", func(t *testing.T) {
		order := []query.SortColumn{{Name: "country"}}
		full := view.SortedRows(order, 0)
		if !equalRows(full, []uint32{0, 2, 1, 4, 3}) {
			t.Fatalf("Unexpected full order %v", full)
		}
		for k := 1; k <= len(full); k++ {
			if got := view.SortedRows(order, k); !equalRows(got, full[:k]) {
				t.Errorf("limit %d: expected %v, got %v", k, full[:k], got)
			}
		}
	})

	t.Run("unknown sort column is ignored", func(t *testing.T) {
		got := view.SortedRows([]query.SortColumn{{Name: "nope"}}, 3)
		if !equalRows(got, []uint32{0, 1, 2}) {
			t.Errorf("Expected first three rows, got %v", got)
		}
	})

	t.Run("sort applies to filtered rows", func(t *testing.T) {
		view.ApplyGlobalFilter("identity", []string{"country"})
		defer view.ClearFilter()
		got := view.GetFilteredRowsSorted([]string{"name"}, []query.SortColumn{{Name: "name", Descending: true}}, 0)
		if len(got) != 2 || got[0]["name"] != "Barbara Liskov" || got[1]["name"] != "Alan Turing" {
			t.Errorf("Unexpected rows %v", got)
		}
	})
}

func TestToAscii(t *testing.T) {
	color.NoColor = true
	view := NewTableView(patientTable(), "patients")
	out := view.ToAscii([]string{"name", "age"}, []uint32{0, 2})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("Expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Patient name") || !strings.Contains(lines[1], "Age category") {
		t.Errorf("Expected display names in header, got %q", lines[1])
	}
	if !strings.Contains(lines[3], "Ada Lovelace") || !strings.Contains(lines[4], "Grace Hopper") {
		t.Errorf("Expected rows in the given order:\n%s", out)
	}
	for _, l := range lines {
		if len(l) != len(lines[0]) {
			t.Errorf("Expected aligned lines:\n%s", out)
			break
		}
	}
}

func equalRows(a, b []uint32) bool {
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
