package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// LoadCSV loads a labeled dataset from a Kaggle-style CSV file.
//
// Format, one sample per row with a header:
//
//	label,pixel0,pixel1,...,pixel783
//	5,0,0,12,...,0
//
// Feature values are scaled from [0, 255] to [0, 1]. maxSamples limits how
// many rows are loaded; 0 loads everything.
func LoadCSV(path string, maxSamples int) (*Dataset, error) {
	//nolint:gosec // G304: dataset paths come from the caller by design
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv %s: missing header or no data rows", path)
	}
	records = records[1:]
	if maxSamples > 0 && len(records) > maxSamples {
		records = records[:maxSamples]
	}

	features := len(records[0]) - 1
	if features < 1 {
		return nil, fmt.Errorf("csv %s: rows must have a label and at least one feature", path)
	}

	x := mat.NewDense(len(records), features, nil)
	labels := make([]int, len(records))
	for i, record := range records {
		if len(record) != features+1 {
			return nil, fmt.Errorf("csv %s: row %d has %d fields, expected %d", path, i+2, len(record), features+1)
		}
		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv %s: row %d: invalid label %q: %w", path, i+2, record[0], err)
		}
		labels[i] = label

		row := x.RawRowView(i)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("csv %s: row %d: invalid value %q: %w", path, i+2, field, err)
			}
			row[j] = v / 255.0
		}
	}

	return &Dataset{X: x, Labels: labels}, nil
}
