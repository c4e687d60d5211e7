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

package export

import (
	"fmt"
	"io"

	"github.com/google/caregrid/core/schema"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a workbook with one sheet. The grouped header rows are
// reproduced with merged cells above the column labels.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.sheetName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E0E0E0"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headerRows := schema.HeaderGroups(t.Forest)
	rowNum := 1
	for _, headers := range headerRows {
		values := make([]interface{}, 0, len(t.Leaves))
		col := 1
		for _, h := range headers {
			values = append(values, h.Label)
			for i := 1; i < h.ColSpan; i++ {
				values = append(values, nil)
			}
			if h.ColSpan > 1 {
				from, _ := excelize.CoordinatesToCellName(col, rowNum)
				to, _ := excelize.CoordinatesToCellName(col+h.ColSpan-1, rowNum)
				if err := sw.MergeCell(from, to); err != nil {
					return fmt.Errorf("failed to merge %s:%s: %w", from, to, err)
				}
			}
			col += h.ColSpan
		}
		if err := writeXLSXRow(sw, rowNum, values, excelize.RowOpts{StyleID: headerStyle}); err != nil {
			return err
		}
		rowNum++
	}

	for _, row := range t.Rows {
		values := make([]interface{}, len(t.Leaves))
		for i, l := range t.Leaves {
			values[i] = row[l.Accessor]
		}
		if err := writeXLSXRow(sw, rowNum, values); err != nil {
			return err
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeXLSXRow(sw *excelize.StreamWriter, rowNum int, values []interface{}, opts ...excelize.RowOpts) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, values, opts...); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
