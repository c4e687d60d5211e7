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

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// maxAsciiWidth caps a column so that one long value does not push the
// rest of the table off screen.
const maxAsciiWidth = 40

// ToAscii returns the given rows as a bordered text table. Header cells use
// the columns' display names and are highlighted when the output supports
// colour (see color.NoColor).
func (t *TableView) ToAscii(columnNames []string, indices []uint32) string {
	var sb strings.Builder

	headers := make([]string, len(columnNames))
	for i, name := range columnNames {
		headers[i] = name
		if col := t.GetColumn(name); col != nil {
			headers[i] = col.ColumnDef().DisplayName()
		}
	}

	rows := make([][]string, len(indices))
	for r, idx := range indices {
		values := t.baseTable.Row(idx, columnNames)
		rows[r] = make([]string, len(columnNames))
		for c, name := range columnNames {
			rows[r][c] = values[name]
		}
	}

	colWidths := t.calculateColumnWidths(headers, rows)
	header := color.New(color.Bold, color.FgCyan).SprintFunc()

	border := func() {
		for _, w := range colWidths {
			sb.WriteString("+")
			sb.WriteString(strings.Repeat("-", w+2))
		}
		sb.WriteString("+\n")
	}
	line := func(cells []string, style func(a ...interface{}) string) {
		for c, cell := range cells {
			sb.WriteString("| ")
			cell = runewidth.Truncate(cell, colWidths[c], "…")
			padded := runewidth.FillRight(cell, colWidths[c])
			if style != nil {
				padded = style(padded)
			}
			sb.WriteString(padded)
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	border()
	line(headers, header)
	border()
	for _, row := range rows {
		line(row, nil)
	}
	border()

	return sb.String()
}

// calculateColumnWidths calculates the width needed for each column
func (t *TableView) calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, v := range row {
			if w := runewidth.StringWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxAsciiWidth {
			widths[i] = maxAsciiWidth
		}
	}
	return widths
}
