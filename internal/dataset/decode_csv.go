package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DecodeCSV reads a CSV dataset whose first row is the header. Short rows
// are padded with empty values; extra cells beyond the header are dropped.
func DecodeCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		fields := make([]Field, len(header))
		for i, name := range header {
			fields[i].Name = name
			if i < len(row) {
				fields[i].Value = row[i]
			}
		}
		records = append(records, NewRecord(fields))
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}
