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

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// labelKey is the field metadata key holding a column's display label.
const labelKey = "label"

// ArrowSchema returns one non-nullable string field per column, named by
// accessor and carrying the label as metadata.
func ArrowSchema(t Table) *arrow.Schema {
	fields := make([]arrow.Field, len(t.Leaves))
	for i, l := range t.Leaves {
		fields[i] = arrow.Field{
			Name:     l.Accessor,
			Type:     arrow.BinaryTypes.String,
			Metadata: arrow.NewMetadata([]string{labelKey}, []string{l.Label}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteParquet writes the rows as a single row group of a Snappy
// compressed Parquet file.
func WriteParquet(w io.Writer, t Table) error {
	schema := ArrowSchema(t)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	for i, l := range t.Leaves {
		sb := b.Field(i).(*array.StringBuilder)
		sb.Reserve(len(t.Rows))
		for _, row := range t.Rows {
			sb.Append(row[l.Accessor])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
