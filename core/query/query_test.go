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

package query

import (
	"net/url"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/safehtml"
)

func mustQuery(t *testing.T, raw string) *Query {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return NewQuery(u)
}

func follow(t *testing.T, u safehtml.URL) *Query {
	t.Helper()
	return mustQuery(t, u.String())
}

func TestNewQuery(t *testing.T) {
	q := mustQuery(t, "/?sort=age:desc,name,age&q=smith&selected=1,4-6&expanded=2&hidden=date,gender,date&panel=3:name&cols=1&limit=10")

	expectedSort := []SortColumn{{Name: "age", Descending: true}, {Name: "name"}}
	if len(q.Sort) != 2 || q.Sort[0] != expectedSort[0] || q.Sort[1] != expectedSort[1] {
		t.Errorf("Expected sort %v, got %v", expectedSort, q.Sort)
	}
	if q.Filter != "smith" {
		t.Errorf("Expected filter smith, got %q", q.Filter)
	}
	if got := q.Selected.ToArray(); !equalUint32s(got, []uint32{1, 4, 5, 6}) {
		t.Errorf("Expected selected [1 4 5 6], got %v", got)
	}
	if !q.Expanded.Contains(2) || q.Expanded.GetCardinality() != 1 {
		t.Errorf("Expected expanded [2], got %v", q.Expanded.ToArray())
	}
	if !equalStringSlices(q.Hidden, []string{"date", "gender"}) {
		t.Errorf("Expected hidden [date gender], got %v", q.Hidden)
	}
	if q.Panel == nil || q.Panel.Row != 3 || q.Panel.Accessor != "name" {
		t.Errorf("Expected panel 3:name, got %+v", q.Panel)
	}
	if !q.ShowColumns {
		t.Error("Expected column chooser to be open")
	}
	if q.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", q.Limit)
	}
}

func TestNewQueryDefaults(t *testing.T) {
	q := mustQuery(t, "/?panel=bogus&limit=-3&selected=x,2")
	if q.Limit != DefaultLimit {
		t.Errorf("Expected default limit, got %d", q.Limit)
	}
	if q.Panel != nil {
		t.Errorf("Expected malformed panel to be ignored, got %+v", q.Panel)
	}
	if q.Selected.GetCardinality() != 1 || !q.Selected.Contains(2) {
		t.Errorf("Expected only row 2 selected, got %v", q.Selected.ToArray())
	}
	if got := q.ToURL(); got != "/?selected=2" {
		t.Errorf("Expected defaults to be omitted from URL, got %q", got)
	}
}

func TestWithSortToggled(t *testing.T) {
	t.Run("single column cycle", func(t *testing.T) {
		q := mustQuery(t, "/?sort=country")
		q1 := follow(t, q.WithSortToggled("name", false))
		if len(q1.Sort) != 1 || q1.Sort[0] != (SortColumn{Name: "name"}) {
			t.Fatalf("Expected ascending name only, got %v", q1.Sort)
		}
		q2 := follow(t, q1.WithSortToggled("name", false))
		if len(q2.Sort) != 1 || q2.Sort[0] != (SortColumn{Name: "name", Descending: true}) {
			t.Fatalf("Expected descending name, got %v", q2.Sort)
		}
		q3 := follow(t, q2.WithSortToggled("name", false))
		if len(q3.Sort) != 0 {
			t.Fatalf("Expected no sort after third toggle, got %v", q3.Sort)
		}
	})

	t.Run("multi column keeps priority", func(t *testing.T) {
		q := mustQuery(t, "/?sort=age,name")
		q1 := follow(t, q.WithSortToggled("age", true))
		expected := []SortColumn{{Name: "age", Descending: true}, {Name: "name"}}
		if len(q1.Sort) != 2 || q1.Sort[0] != expected[0] || q1.Sort[1] != expected[1] {
			t.Fatalf("Expected %v, got %v", expected, q1.Sort)
		}
		q2 := follow(t, q1.WithSortToggled("age", true))
		if len(q2.Sort) != 1 || q2.Sort[0].Name != "name" {
			t.Fatalf("Expected only name left, got %v", q2.Sort)
		}
		q3 := follow(t, q2.WithSortToggled("date", true))
		if len(q3.Sort) != 2 || q3.Sort[1] != (SortColumn{Name: "date"}) {
			t.Fatalf("Expected date appended, got %v", q3.Sort)
		}
	})
}

func TestSelectionToggles(t *testing.T) {
	q := mustQuery(t, "/?selected=1")

	q1 := follow(t, q.WithRowSelectionToggled(3))
	if !equalUint32s(q1.Selected.ToArray(), []uint32{1, 3}) {
		t.Errorf("Expected [1 3], got %v", q1.Selected.ToArray())
	}
	q2 := follow(t, q1.WithRowSelectionToggled(1))
	if !equalUint32s(q2.Selected.ToArray(), []uint32{3}) {
		t.Errorf("Expected [3], got %v", q2.Selected.ToArray())
	}

	visible := roaring.BitmapOf(2, 3, 4)
	all := follow(t, q2.WithAllSelectionToggled(visible))
	if !equalUint32s(all.Selected.ToArray(), []uint32{2, 3, 4}) {
		t.Errorf("Expected every visible row selected, got %v", all.Selected.ToArray())
	}
	none := follow(t, all.WithAllSelectionToggled(visible))
	if !none.Selected.IsEmpty() {
		t.Errorf("Expected selection cleared, got %v", none.Selected.ToArray())
	}

	// Rows hidden by the filter keep their selection
	withHidden := mustQuery(t, "/?selected=2,3,4,9")
	cleared := follow(t, withHidden.WithAllSelectionToggled(visible))
	if !equalUint32s(cleared.Selected.ToArray(), []uint32{9}) {
		t.Errorf("Expected [9], got %v", cleared.Selected.ToArray())
	}
}

func TestExpandedPanelAndColumns(t *testing.T) {
	q := mustQuery(t, "/")

	q1 := follow(t, q.WithExpandedToggled(5))
	if !q1.Expanded.Contains(5) {
		t.Errorf("Expected row 5 expanded")
	}
	if follow(t, q1.WithExpandedToggled(5)).Expanded.Contains(5) {
		t.Errorf("Expected row 5 collapsed")
	}

	q2 := follow(t, q.WithPanel(7, "age"))
	if q2.Panel == nil || *q2.Panel != (CellRef{Row: 7, Accessor: "age"}) {
		t.Errorf("Expected panel 7:age, got %+v", q2.Panel)
	}
	if follow(t, q2.WithoutPanel()).Panel != nil {
		t.Errorf("Expected panel closed")
	}

	q3 := follow(t, q.WithColumnToggled("date"))
	if !q3.IsColumnHidden("date") {
		t.Errorf("Expected date hidden")
	}
	if follow(t, q3.WithColumnToggled("date")).IsColumnHidden("date") {
		t.Errorf("Expected date shown again")
	}

	if !follow(t, q.WithColumnsMenuToggled()).ShowColumns {
		t.Errorf("Expected column chooser open")
	}
	if follow(t, q.WithLimit(0)).Limit != 0 {
		t.Errorf("Expected limit 0")
	}
}

func TestDownloadURL(t *testing.T) {
	q := mustQuery(t, "/?q=ann&panel=1:name&cols=1&sort=name")
	d := follow(t, q.DownloadURL("/download", "csv"))
	if d.Path != "/download" || d.Format != "csv" {
		t.Errorf("Expected /download with csv format, got %s %s", d.Path, d.Format)
	}
	if d.Filter != "ann" || len(d.Sort) != 1 {
		t.Errorf("Expected filter and sort preserved, got %q %v", d.Filter, d.Sort)
	}
	if d.Panel != nil || d.ShowColumns {
		t.Errorf("Expected page-only state dropped")
	}
}

func TestClone(t *testing.T) {
	q := mustQuery(t, "/?selected=1&panel=1:name&hidden=a")
	c := q.Clone()
	c.Selected.Add(2)
	c.Panel.Row = 9
	c.Hidden[0] = "b"
	if q.Selected.Contains(2) || q.Panel.Row != 1 || q.Hidden[0] != "a" {
		t.Errorf("Clone shares state with the original")
	}
}

func TestSets(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"3":             "3",
		"1,2,3":         "1-3",
		"5,1,2,9-11,12": "1-2,5,9-12",
		"4-2":           "",
		"a,b-c,7":       "7",
	}
	for in, want := range tests {
		if got := FormatSet(ParseSet(in)); got != want {
			t.Errorf("FormatSet(ParseSet(%q)) = %q, expected %q", in, got, want)
		}
	}
}

// equalStringSlices compares two string slices for equality
func equalStringSlices(a, b []string) bool {
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

func equalUint32s(a, b []uint32) bool {
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
