package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadCSV reads derivative samples from a CSV file.
//
// The file must have NumColumns numeric columns per record, optionally
// preceded by a header row matching ColumnNames (detected by a
// non-numeric first field).
func LoadCSV(path string) (*DerivativeSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	set, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return set, nil
}

// ReadCSV parses derivative samples from CSV content.
func ReadCSV(r io.Reader) (*DerivativeSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = NumColumns

	var data []float32
	rows := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line+1, err)
		}
		line++

		// Header row: first field is not a number
		if line == 1 {
			if _, err := strconv.ParseFloat(record[0], 32); err != nil {
				continue
			}
		}

		for col, field := range record {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("record %d, column %s: %w", line, ColumnNames[col], err)
			}
			data = append(data, float32(v))
		}
		rows++
	}

	if rows == 0 {
		return nil, fmt.Errorf("no samples")
	}
	return &DerivativeSet{data: data, rows: rows}, nil
}
