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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/safehtml"
)

// DefaultLimit is the number of rows shown when the URL does not say otherwise.
const DefaultLimit = 100

// SortColumn is one entry of the sort order
type SortColumn struct {
	Name       string
	Descending bool
}

// CellRef points at one cell of the grid
type CellRef struct {
	Row      uint32
	Accessor string
}

// Query represents the parsed state of a grid URL. Everything the user can
// change on the page (sorting, search, selection, expansion, the side panel
// and column visibility) is kept here so that every link is a full snapshot.
type Query struct {
	// Base path (e.g., "/")
	Path string

	Sort        []SortColumn    // Sort order, first entry has the highest priority
	Filter      string          // Global search text
	Selected    *roaring.Bitmap // Selected row indices
	Expanded    *roaring.Bitmap // Expanded row indices
	Hidden      []string        // Hidden accessors
	Panel       *CellRef        // Cell shown in the side panel, nil when closed
	ShowColumns bool            // Whether the column chooser is open
	Limit       int             // Number of rows to display (0 = show all)
	Format      string          // Download format, only used on the download path
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:     u.Path,
		Selected: roaring.New(),
		Expanded: roaring.New(),
		Limit:    DefaultLimit,
	}

	q := u.Query()

	// Extract sort parameter (format: col1:desc,col2)
	if sortStr := q.Get("sort"); sortStr != "" {
		for _, part := range strings.Split(sortStr, ",") {
			if part == "" {
				continue
			}
			sc := SortColumn{Name: part}
			if name, dir, ok := strings.Cut(part, ":"); ok {
				sc.Name = name
				sc.Descending = dir == "desc"
			}
			if !state.isSorted(sc.Name) {
				state.Sort = append(state.Sort, sc)
			}
		}
	}

	state.Filter = q.Get("q")
	state.Selected = ParseSet(q.Get("selected"))
	state.Expanded = ParseSet(q.Get("expanded"))

	if hiddenStr := q.Get("hidden"); hiddenStr != "" {
		for _, name := range strings.Split(hiddenStr, ",") {
			if name != "" && !state.IsColumnHidden(name) {
				state.Hidden = append(state.Hidden, name)
			}
		}
	}

	// Extract panel parameter (format: row:accessor)
	if panelStr := q.Get("panel"); panelStr != "" {
		if rowStr, accessor, ok := strings.Cut(panelStr, ":"); ok && accessor != "" {
			if row, err := strconv.ParseUint(rowStr, 10, 32); err == nil {
				state.Panel = &CellRef{Row: uint32(row), Accessor: accessor}
			}
		}
	}

	state.ShowColumns = q.Get("cols") == "1"

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 {
			state.Limit = limit
		}
	}

	state.Format = q.Get("format")

	return state
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := &Query{
		Path:        s.Path,
		Sort:        make([]SortColumn, len(s.Sort)),
		Filter:      s.Filter,
		Selected:    s.Selected.Clone(),
		Expanded:    s.Expanded.Clone(),
		Hidden:      make([]string, len(s.Hidden)),
		ShowColumns: s.ShowColumns,
		Limit:       s.Limit,
		Format:      s.Format,
	}
	copy(clone.Sort, s.Sort)
	copy(clone.Hidden, s.Hidden)
	if s.Panel != nil {
		panel := *s.Panel
		clone.Panel = &panel
	}
	return clone
}

func (s *Query) isSorted(name string) bool {
	_, ok := s.SortDirection(name)
	return ok
}

// SortDirection returns whether the column is sorted and in which direction
func (s *Query) SortDirection(name string) (descending bool, sorted bool) {
	for _, sc := range s.Sort {
		if sc.Name == name {
			return sc.Descending, true
		}
	}
	return false, false
}

// SortIndex returns the position of the column in the sort order, or -1
func (s *Query) SortIndex(name string) int {
	for i, sc := range s.Sort {
		if sc.Name == name {
			return i
		}
	}
	return -1
}

// WithSortToggled returns a URL that advances the column through
// unsorted, ascending and descending. Unless multi is set, any other sort
// column is dropped, so a plain click always sorts by a single column.
func (s *Query) WithSortToggled(column string, multi bool) safehtml.URL {
	newState := s.Clone()
	descending, sorted := s.SortDirection(column)

	var newSort []SortColumn
	if multi {
		// the column keeps its priority while it cycles
		for _, sc := range s.Sort {
			if sc.Name != column {
				newSort = append(newSort, sc)
			} else if !sc.Descending {
				newSort = append(newSort, SortColumn{Name: column, Descending: true})
			}
		}
		if !sorted {
			newSort = append(newSort, SortColumn{Name: column})
		}
	} else {
		switch {
		case !sorted:
			newSort = []SortColumn{{Name: column}}
		case !descending:
			newSort = []SortColumn{{Name: column, Descending: true}}
		}
	}

	newState.Sort = newSort
	return newState.ToSafeURL()
}

// WithFilter returns a URL with the global search text replaced
func (s *Query) WithFilter(filter string) safehtml.URL {
	newState := s.Clone()
	newState.Filter = filter
	return newState.ToSafeURL()
}

// WithRowSelectionToggled returns a URL with the row selected or unselected
func (s *Query) WithRowSelectionToggled(row uint32) safehtml.URL {
	newState := s.Clone()
	if !newState.Selected.CheckedAdd(row) {
		newState.Selected.Remove(row)
	}
	return newState.ToSafeURL()
}

// WithAllSelectionToggled returns a URL that selects every row in rows, or
// unselects them if they are all selected already.
func (s *Query) WithAllSelectionToggled(rows *roaring.Bitmap) safehtml.URL {
	newState := s.Clone()
	if !rows.IsEmpty() && roaring.AndNot(rows, s.Selected).IsEmpty() {
		newState.Selected.AndNot(rows)
	} else {
		newState.Selected.Or(rows)
	}
	return newState.ToSafeURL()
}

// WithExpandedToggled returns a URL with the row expanded or collapsed
func (s *Query) WithExpandedToggled(row uint32) safehtml.URL {
	newState := s.Clone()
	if !newState.Expanded.CheckedAdd(row) {
		newState.Expanded.Remove(row)
	}
	return newState.ToSafeURL()
}

// WithPanel returns a URL that opens the side panel on a cell
func (s *Query) WithPanel(row uint32, accessor string) safehtml.URL {
	newState := s.Clone()
	newState.Panel = &CellRef{Row: row, Accessor: accessor}
	return newState.ToSafeURL()
}

// WithoutPanel returns a URL with the side panel closed
func (s *Query) WithoutPanel() safehtml.URL {
	newState := s.Clone()
	newState.Panel = nil
	return newState.ToSafeURL()
}

// IsColumnHidden checks if an accessor is in the hidden list
func (s *Query) IsColumnHidden(column string) bool {
	for _, col := range s.Hidden {
		if col == column {
			return true
		}
	}
	return false
}

// WithColumnToggled returns a URL with the column shown if hidden and hidden if shown
func (s *Query) WithColumnToggled(column string) safehtml.URL {
	newState := s.Clone()
	found := false
	newHidden := make([]string, 0, len(s.Hidden)+1)
	for _, col := range s.Hidden {
		if col == column {
			found = true
		} else {
			newHidden = append(newHidden, col)
		}
	}
	if !found {
		newHidden = append(newHidden, column)
	}
	newState.Hidden = newHidden
	return newState.ToSafeURL()
}

// WithColumnsMenuToggled returns a URL with the column chooser opened or closed
func (s *Query) WithColumnsMenuToggled() safehtml.URL {
	newState := s.Clone()
	newState.ShowColumns = !s.ShowColumns
	return newState.ToSafeURL()
}

// WithLimit returns a URL with a different row limit
func (s *Query) WithLimit(limit int) safehtml.URL {
	newState := s.Clone()
	newState.Limit = limit
	return newState.ToSafeURL()
}

// DownloadURL returns the URL that exports the current view in format
func (s *Query) DownloadURL(path, format string) safehtml.URL {
	newState := s.Clone()
	newState.Path = path
	newState.Format = format
	newState.Panel = nil
	newState.ShowColumns = false
	return newState.ToSafeURL()
}

// Values encodes the state as URL parameters
func (s *Query) Values() url.Values {
	q := url.Values{}

	if len(s.Sort) > 0 {
		parts := make([]string, 0, len(s.Sort))
		for _, sc := range s.Sort {
			if sc.Descending {
				parts = append(parts, sc.Name+":desc")
			} else {
				parts = append(parts, sc.Name)
			}
		}
		q.Set("sort", strings.Join(parts, ","))
	}
	if s.Filter != "" {
		q.Set("q", s.Filter)
	}
	if !s.Selected.IsEmpty() {
		q.Set("selected", FormatSet(s.Selected))
	}
	if !s.Expanded.IsEmpty() {
		q.Set("expanded", FormatSet(s.Expanded))
	}
	if len(s.Hidden) > 0 {
		q.Set("hidden", strings.Join(s.Hidden, ","))
	}
	if s.Panel != nil {
		q.Set("panel", fmt.Sprintf("%d:%s", s.Panel.Row, s.Panel.Accessor))
	}
	if s.ShowColumns {
		q.Set("cols", "1")
	}
	if s.Limit != DefaultLimit {
		q.Set("limit", strconv.Itoa(s.Limit))
	}
	if s.Format != "" {
		q.Set("format", s.Format)
	}
	return q
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{
		Path:     s.Path,
		RawQuery: s.Values().Encode(),
	}
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}
