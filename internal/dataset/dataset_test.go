package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xorText = `XOR truth table
inputs then outputs
0=a
0=b
0=a
1=b
1=a
0=b
1=a
1=b

0=out
1=out
1=out
0=out
`

func xorSpec(training bool) Spec {
	return Spec{Topology: topology.MustNew(2, 2, 1), NumCases: 4, Training: training}
}

func TestReadTraining(t *testing.T) {
	ds, err := Read(strings.NewReader(xorText), xorSpec(true))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.True(t, ds.HasExpected())
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, ds.Inputs)
	assert.Equal(t, [][]float64{{0}, {1}, {1}, {0}}, ds.Expected)
}

func TestReadRunningIgnoresOutputs(t *testing.T) {
	ds, err := Read(strings.NewReader(xorText), xorSpec(false))
	require.NoError(t, err)
	assert.False(t, ds.HasExpected())
	assert.Nil(t, ds.Expected)
	assert.Equal(t, 4, ds.Len())
}

func TestReadGroupsOutputsByNode(t *testing.T) {
	// two samples, two outputs: node 0 for both samples, then node 1
	in := "h1\nh2\n0.1=\n0.2=\n\n0.5=s0n0\n0.6=s1n0\n0.7=s0n1\n0.8=s1n1\n"
	spec := Spec{Topology: topology.MustNew(1, 3, 2), NumCases: 2, Training: true}

	ds, err := Read(strings.NewReader(in), spec)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1}, {0.2}}, ds.Inputs)
	assert.Equal(t, [][]float64{{0.5, 0.7}, {0.6, 0.8}}, ds.Expected)
}

func TestReadParsesOnlyBeforeEquals(t *testing.T) {
	in := "h\nh\n 42.5 =pixel=7\n-3e-2=x\n"
	spec := Spec{Topology: topology.MustNew(2, 1, 1), NumCases: 1}

	ds, err := Read(strings.NewReader(in), spec)
	require.NoError(t, err)
	assert.Equal(t, []float64{42.5, -0.03}, ds.Inputs[0])
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"no headers", "", 1},
		{"truncated inputs", "h\nh\n0=\n1=\n", 5},
		{"no equals", "h\nh\n0=\n1\n", 4},
		{"not a number", "h\nh\nzero=\n", 3},
		{"truncated outputs", strings.Join(strings.Split(xorText, "\n")[:13], "\n") + "\n", 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), xorSpec(true))
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.line, fe.Line)
		})
	}
}

func TestReadCSV(t *testing.T) {
	in := "x1,x2,y\n0,0,0\n0, 1,1\n1,0,1\n1,1,0\n"
	ds, err := ReadCSV(strings.NewReader(in), xorSpec(true))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, ds.Inputs)
	assert.Equal(t, [][]float64{{0}, {1}, {1}, {0}}, ds.Expected)
}

func TestReadCSVRunningWithoutHeader(t *testing.T) {
	in := "0.5,0.25\n1,2,9\n"
	spec := Spec{Topology: topology.MustNew(2, 2, 1), NumCases: 2}
	ds, err := ReadCSV(strings.NewReader(in), spec)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.25}, {1, 2}}, ds.Inputs)
	assert.Nil(t, ds.Expected)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"too few rows", "0,0,0\n"},
		{"short row", "0,0,0\n0,1\n1,0,1\n1,1,0\n"},
		{"bad value", "0,0,0\n0,x,1\n1,0,1\n1,1,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), xorSpec(true))
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestReadCSVIgnoresTrailingColumnsOfFirstRow(t *testing.T) {
	spec := Spec{Topology: topology.MustNew(2, 2, 1), NumCases: 2, Training: true}
	ds, err := ReadCSV(strings.NewReader("0,0,0,\n0,1,1,\n1,0,1,\n"), spec)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}}, ds.Inputs)
	assert.Equal(t, [][]float64{{0}, {1}}, ds.Expected)

	ds, err = ReadCSV(strings.NewReader("x1,x2,y,note\n1,1,0,first\n"), Spec{Topology: spec.Topology, NumCases: 1, Training: true})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1}}, ds.Inputs)
}

func TestReadRejectsSampleCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		spec := xorSpec(true)
		spec.NumCases = n

		var fe *FormatError
		_, err := Read(strings.NewReader(xorText), spec)
		require.ErrorAs(t, err, &fe, "Read with %d samples", n)
		_, err = ReadCSV(strings.NewReader("0,0,0\n"), spec)
		require.ErrorAs(t, err, &fe, "ReadCSV with %d samples", n)
	}
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "xor.txt")
	csvPath := filepath.Join(dir, "xor.CSV")
	require.NoError(t, os.WriteFile(txt, []byte(xorText), 0o644))
	require.NoError(t, os.WriteFile(csvPath, []byte("0,0,0\n0,1,1\n1,0,1\n1,1,0\n"), 0o644))

	a, err := LoadFile(txt, xorSpec(true))
	require.NoError(t, err)
	b, err := LoadFile(csvPath, xorSpec(true))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadFileErrorsCarryPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("h\nh\n1=\n"), 0o644))

	_, err := LoadFile(path, xorSpec(false))
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, path, fe.Path)
	assert.Equal(t, 4, fe.Line)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"), xorSpec(false))
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestNewChecksWidths(t *testing.T) {
	top := topology.MustNew(2, 2, 1)

	_, err := New(top, nil, nil)
	assert.Error(t, err)
	_, err = New(top, [][]float64{{1}}, nil)
	assert.Error(t, err)
	_, err = New(top, [][]float64{{1, 2}}, [][]float64{{1}, {0}})
	assert.Error(t, err)
	_, err = New(top, [][]float64{{1, 2}}, [][]float64{{1, 0}})
	assert.Error(t, err)

	ds, err := New(top, [][]float64{{1, 2}}, [][]float64{{1}})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}
