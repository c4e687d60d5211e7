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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WriteCSV writes a header row of column labels followed by the rows.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)

	headers := make([]string, len(t.Leaves))
	for i, l := range t.Leaves {
		headers[i] = l.Label
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.Leaves))
	for _, row := range t.Rows {
		for i, l := range t.Leaves {
			record[i] = row[l.Accessor]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the rows as an array of objects keyed by accessor, keys
// in column order.
func WriteJSON(w io.Writer, t Table) error {
	accessors := t.accessors()
	records := make([]*orderedmap.OrderedMap[string, string], 0, len(t.Rows))
	for _, row := range t.Rows {
		om := orderedmap.New[string, string](len(accessors))
		for _, a := range accessors {
			om.Set(a, row[a])
		}
		records = append(records, om)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
