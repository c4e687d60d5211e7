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

package columns

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// StringColumn stores one string per row. A lower-cased copy of every value
// is kept once the column is finalized so that case-insensitive searches do
// not allocate per row.
type StringColumn struct {
	columnDef *ColumnDef
	data      []string
	folded    []string
}

// NewStringColumn creates an empty string column
func NewStringColumn(columnDef *ColumnDef) *StringColumn {
	return &StringColumn{
		columnDef: columnDef,
		data:      make([]string, 0),
	}
}

func (c *StringColumn) Append(value string) {
	c.data = append(c.data, value)
}

func (c *StringColumn) Length() int {
	return len(c.data)
}

func (c *StringColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

func (c *StringColumn) GetValue(i uint32) (string, error) {
	if i >= uint32(len(c.data)) {
		return "", fmt.Errorf("index %d out of bounds (length: %d)", i, len(c.data))
	}
	return c.data[i], nil
}

// GetString returns the string value at index i
func (c *StringColumn) GetString(i uint32) (string, error) {
	return c.GetValue(i)
}

// Filter returns the rows where the predicate returns true
func (c *StringColumn) Filter(predicate func(string) bool) *roaring.Bitmap {
	rows := roaring.New()
	for i, v := range c.data {
		if predicate(v) {
			rows.Add(uint32(i))
		}
	}
	return rows
}

// ContainsFold adds to rows every row whose value contains needle, ignoring
// case. needle must already be lower case.
func (c *StringColumn) ContainsFold(needle string, rows *roaring.Bitmap) {
	folded := c.folded
	if folded == nil {
		c.FinalizeColumn()
		folded = c.folded
	}
	for i, v := range folded {
		if strings.Contains(v, needle) {
			rows.Add(uint32(i))
		}
	}
}

// FinalizeColumn should be called after all data has been added
func (c *StringColumn) FinalizeColumn() {
	c.folded = make([]string, len(c.data))
	for i, v := range c.data {
		c.folded[i] = strings.ToLower(v)
	}
}
