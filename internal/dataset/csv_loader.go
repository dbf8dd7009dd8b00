package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadCSV loads samples from CSV, one row per sample.
// The first inputWidth columns are inputs; when training, the next
// outputWidth columns are the expected outputs. Extra columns are ignored.
// A first row whose used columns do not parse as numbers is treated as
// a header.
// Exactly NumCases data rows are read; later rows are ignored.
func ReadCSV(r io.Reader, spec Spec) (*Dataset, error) {
	if spec.NumCases < 1 {
		return nil, &FormatError{Err: errors.Errorf("need at least 1 sample, got %d", spec.NumCases)}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	if len(records) == 0 {
		return nil, &FormatError{Err: errors.New("csv file is empty")}
	}

	inWidth := spec.Topology.InputWidth()
	outWidth := 0
	if spec.Training {
		outWidth = spec.Topology.OutputWidth()
	}
	numCols := inWidth + outWidth

	startRow := 0
	if isHeader(records[0], numCols) {
		startRow = 1
	}

	if len(records)-startRow < spec.NumCases {
		return nil, &FormatError{
			Line: len(records) + 1,
			Err:  errors.Errorf("csv file has %d data rows, want %d", len(records)-startRow, spec.NumCases),
		}
	}

	inputs := make([][]float64, spec.NumCases)
	var expected [][]float64
	if spec.Training {
		expected = make([][]float64, spec.NumCases)
	}

	for k := 0; k < spec.NumCases; k++ {
		row := startRow + k
		record := records[row]
		if len(record) < numCols {
			return nil, &FormatError{
				Line: row + 1,
				Err:  errors.Errorf("row has %d columns, want at least %d", len(record), numCols),
			}
		}

		values := make([]float64, numCols)
		for j := 0; j < numCols; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
			if err != nil {
				return nil, &FormatError{Line: row + 1, Err: errors.Wrapf(err, "column %d", j)}
			}
			values[j] = v
		}

		inputs[k] = values[:inWidth:inWidth]
		if spec.Training {
			expected[k] = values[inWidth:]
		}
	}

	return New(spec.Topology, inputs, expected)
}

// isHeader reports whether any of the first numCols fields of record is
// not a number. Ignored columns do not count.
func isHeader(record []string, numCols int) bool {
	for _, s := range record[:min(len(record), numCols)] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return true
		}
	}
	return false
}
