package data

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
)

// Row maps a column name to its raw textual value. Values that do not
// parse as numbers are treated as missing downstream.
type Row map[string]string

// Dataset keeps the column order of the source file; rows share one
// column set.
type Dataset struct {
	Columns []string
	Rows    []Row
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ReadCSV decodes a headered CSV stream into a Dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New("csv has no header row")
	}
	header := records[0]
	ds := &Dataset{Columns: header, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}
