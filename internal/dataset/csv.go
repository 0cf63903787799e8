// Package dataset loads delimited prediction tables into memory.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/evalforge/crossfail/internal/faults"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// Table is a row-major table with named columns and one designated index
// column whose values uniquely identify rows. Rows keep the order they were
// read in. A Table is never mutated after Load returns it.
type Table struct {
	columns     []string
	indexColumn string
	rows        []Row
}

// Load reads a CSV file and returns the parsed table. The first record is
// treated as the header (column names); indexColumn must be one of them and
// its values must be unique. Load is all-or-nothing: on any error no table
// is returned.
func Load(path string, indexColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &faults.DataAccessError{Op: "open", Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		// csv.Reader rejects rows whose width differs from the header.
		return nil, &faults.DataFormatError{Path: path, Reason: err.Error()}
	}

	if len(records) == 0 {
		return nil, &faults.DataFormatError{Path: path, Reason: "empty file (no header row)"}
	}

	headers := records[0]
	indexPos := -1
	for i, h := range headers {
		if h == indexColumn {
			indexPos = i
			break
		}
	}
	if indexPos < 0 {
		return nil, &faults.DataFormatError{
			Path:   path,
			Reason: fmt.Sprintf("missing index column %q", indexColumn),
		}
	}

	rows := make([]Row, 0, len(records)-1)
	seen := make(map[string]int, len(records)-1)

	for i, record := range records[1:] {
		id := record[indexPos]
		if prev, dup := seen[id]; dup {
			return nil, &faults.DataFormatError{
				Path:   path,
				Reason: fmt.Sprintf("duplicate index value %q at rows %d and %d", id, prev, i+2),
			}
		}
		seen[id] = i + 2

		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return &Table{columns: headers, indexColumn: indexColumn, rows: rows}, nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// IndexColumn returns the name of the designated index column.
func (t *Table) IndexColumn() string {
	return t.indexColumn
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// ID returns the index value of the i-th data row.
func (t *Table) ID(i int) string {
	return t.rows[i][t.indexColumn]
}
