// internal/services/dataset.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Dataset is a parsed CSV: a header of named columns plus data rows in file
// order. Rows always have len(Columns) fields.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// ParseDataset reads a CSV document with a header row.
func ParseDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV document has no header row")
	}

	columns := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(columns))
		copy(row, record)
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

func (d *Dataset) columnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Append adds the batch's rows to the end of the dataset, keeping existing
// rows and their order intact. Every batch column must already exist in the
// dataset; otherwise ErrSchemaMismatch and the dataset is left unchanged.
// Batch rows are re-aligned to the dataset's column order; dataset columns
// the batch does not carry are filled with empty strings.
func (d *Dataset) Append(batch *Dataset) error {
	for _, col := range batch.Columns {
		if !d.HasColumn(col) {
			return fmt.Errorf("%w: column %q not present in dataset", ErrSchemaMismatch, col)
		}
	}

	for _, batchRow := range batch.Rows {
		row := make([]string, len(d.Columns))
		for i, col := range batch.Columns {
			if i >= len(batchRow) {
				continue
			}
			row[d.columnIndex(col)] = batchRow[i]
		}
		d.Rows = append(d.Rows, row)
	}

	return nil
}

// Encode writes the dataset back out as CSV, header first.
func (d *Dataset) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range d.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Records converts rows into column-keyed maps, the shape the data endpoint
// serves.
func (d *Dataset) Records() []map[string]string {
	records := make([]map[string]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		record := make(map[string]string, len(d.Columns))
		for i, col := range d.Columns {
			record[col] = row[i]
		}
		records = append(records, record)
	}
	return records
}
