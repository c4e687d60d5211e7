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

// Package export writes the rows of the grid in downloadable formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/caregrid/core/schema"
)

// ErrUnknownFormat is returned for a format name no writer handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names a download format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX, FormatParquet}

var contentTypes = map[Format]string{
	FormatCSV:     "text/csv; charset=utf-8",
	FormatJSON:    "application/json",
	FormatXLSX:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatParquet: "application/vnd.apache.parquet",
}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Filename returns a download file name for base.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Table is what gets exported: the visible columns, with their header
// structure, and the rows in display order.
type Table struct {
	Name   string
	Forest schema.Forest
	Leaves []schema.Leaf
	Rows   []map[string]string
}

// NewTable builds a Table whose columns are the leaves of forest.
func NewTable(name string, forest schema.Forest, rows []map[string]string) Table {
	return Table{
		Name:   name,
		Forest: forest,
		Leaves: schema.Leaves(forest),
		Rows:   rows,
	}
}

func (t Table) accessors() []string {
	out := make([]string, len(t.Leaves))
	for i, l := range t.Leaves {
		out[i] = l.Accessor
	}
	return out
}

func (t Table) sheetName() string {
	if t.Name == "" {
		return "Sheet1"
	}
	return t.Name
}

// Write encodes t in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}
