// Package dataset loads the samples a network trains on or runs over.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/pkg/errors"
)

// Dataset holds the input vectors and, when training, the expected output
// vectors of every sample. It is not modified after loading.
type Dataset struct {
	Inputs   [][]float64
	Expected [][]float64 // nil when loaded for running
}

// Spec describes the shape of the file being read.
type Spec struct {
	Topology topology.Topology
	NumCases int
	Training bool // expected outputs follow the inputs
}

// FormatError reports a dataset file that does not match its Spec.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("dataset")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	b.WriteString(": " + e.Err.Error())
	return b.String()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Inputs)
}

// HasExpected reports whether expected outputs were loaded.
func (d *Dataset) HasExpected() bool {
	return d.Expected != nil
}

// New builds a dataset from in-memory rows after checking their widths.
// expected may be nil.
func New(top topology.Topology, inputs, expected [][]float64) (*Dataset, error) {
	if len(inputs) == 0 {
		return nil, errors.New("dataset has no samples")
	}
	for i, row := range inputs {
		if len(row) != top.InputWidth() {
			return nil, errors.Errorf("sample %d has %d inputs, want %d", i, len(row), top.InputWidth())
		}
	}
	if expected != nil {
		if len(expected) != len(inputs) {
			return nil, errors.Errorf("%d expected rows for %d samples", len(expected), len(inputs))
		}
		for i, row := range expected {
			if len(row) != top.OutputWidth() {
				return nil, errors.Errorf("sample %d has %d expected outputs, want %d", i, len(row), top.OutputWidth())
			}
		}
	}
	return &Dataset{Inputs: inputs, Expected: expected}, nil
}

// LoadFile reads a dataset from filename. Files ending in ".csv" are read
// with ReadCSV, anything else with Read.
func LoadFile(filename string, spec Spec) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &FormatError{Path: filename, Err: err}
	}
	defer file.Close()

	var ds *Dataset
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		ds, err = ReadCSV(file, spec)
	} else {
		ds, err = Read(file, spec)
	}
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = filename
			return nil, fe
		}
		return nil, &FormatError{Path: filename, Err: err}
	}
	return ds, nil
}

// Read parses the activation text format:
//
//	two header lines
//	NumCases * inputWidth lines of "<value>=<anything>", sample by sample
//	(training only) one separator line
//	(training only) outputWidth * NumCases lines of "<value>=<anything>",
//	grouped by output node, then by sample
//
// Only the text before the first '=' is parsed.
func Read(r io.Reader, spec Spec) (*Dataset, error) {
	if spec.NumCases < 1 {
		return nil, &FormatError{Err: errors.Errorf("need at least 1 sample, got %d", spec.NumCases)}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	next := func(what string) (string, error) {
		if !sc.Scan() {
			err := errors.Errorf("file ends before %s", what)
			if sErr := sc.Err(); sErr != nil {
				err = errors.Wrap(sErr, "failed to read dataset")
			}
			return "", &FormatError{Line: line + 1, Err: err}
		}
		line++
		return sc.Text(), nil
	}
	value := func(what string) (float64, error) {
		s, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := parseActivation(s)
		if err != nil {
			return 0, &FormatError{Line: line, Err: errors.Wrap(err, what)}
		}
		return v, nil
	}

	for i := 0; i < 2; i++ {
		if _, err := next("header"); err != nil {
			return nil, err
		}
	}

	inputs := make([][]float64, spec.NumCases)
	for k := range inputs {
		inputs[k] = make([]float64, spec.Topology.InputWidth())
		for i := range inputs[k] {
			v, err := value(fmt.Sprintf("input %d of sample %d", i, k))
			if err != nil {
				return nil, err
			}
			inputs[k][i] = v
		}
	}

	if !spec.Training {
		return New(spec.Topology, inputs, nil)
	}

	if _, err := next("expected outputs"); err != nil {
		return nil, err
	}

	expected := make([][]float64, spec.NumCases)
	for k := range expected {
		expected[k] = make([]float64, spec.Topology.OutputWidth())
	}
	for i := 0; i < spec.Topology.OutputWidth(); i++ {
		for k := range expected {
			v, err := value(fmt.Sprintf("expected output %d of sample %d", i, k))
			if err != nil {
				return nil, err
			}
			expected[k][i] = v
		}
	}

	return New(spec.Topology, inputs, expected)
}

// parseActivation parses the part of s before '='.
func parseActivation(s string) (float64, error) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return 0, errors.Errorf("line %q has no '='", s)
	}
	return strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
}
