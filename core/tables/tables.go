package tables

import (
	"github.com/google/caregrid/core/columns"
	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
)

type DataTable struct {
	columns map[string]columns.IDataColumn
	names   []string
	length  int
}

func NewDataTable() *DataTable {
	return &DataTable{
		columns: make(map[string]columns.IDataColumn),
	}
}

// FromRows builds a table with one string column per leaf, in leaf order.
// Values missing from a row are stored as empty strings.
func FromRows(leaves []schema.Leaf, rows []synth.Row) *DataTable {
	dt := NewDataTable()
	cols := make([]*columns.StringColumn, len(leaves))
	for i, leaf := range leaves {
		cols[i] = columns.NewStringColumn(columns.NewColumnDef(leaf.Accessor, leaf.Label))
	}
	for _, row := range rows {
		for i, leaf := range leaves {
			cols[i].Append(row[leaf.Accessor])
		}
	}
	for _, col := range cols {
		col.FinalizeColumn()
		dt.AddColumn(col)
	}
	dt.length = len(rows)
	return dt
}

func (dt *DataTable) AddColumn(col columns.IDataColumn) {
	name := col.ColumnDef().Name()
	if _, exists := dt.columns[name]; !exists {
		dt.names = append(dt.names, name)
	}
	dt.columns[name] = col
	if col.Length() > dt.length {
		dt.length = col.Length()
	}
}

func (dt *DataTable) GetColumn(name string) columns.IDataColumn {
	return dt.columns[name]
}

// GetColumnNames returns column names in the order they were added
func (dt *DataTable) GetColumnNames() []string {
	names := make([]string, len(dt.names))
	copy(names, dt.names)
	return names
}

// Length returns the number of rows
func (dt *DataTable) Length() int {
	return dt.length
}

// Row returns the values of row i for the named columns
func (dt *DataTable) Row(i uint32, names []string) map[string]string {
	row := make(map[string]string, len(names))
	for _, name := range names {
		col := dt.columns[name]
		if col == nil {
			continue
		}
		value, err := col.GetString(i)
		if err != nil {
			value = columns.ErrorLabel
		}
		row[name] = value
	}
	return row
}

// Rows returns the values of the given rows, in order
func (dt *DataTable) Rows(indices []uint32, names []string) []map[string]string {
	rows := make([]map[string]string, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, dt.Row(i, names))
	}
	return rows
}
