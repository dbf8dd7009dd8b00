package net

import (
	"bytes"
	"encoding/csv"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/FlavioCFOliveira/GoBackprop/internal/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerKeepAlive(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger{Interval: 2, Out: log.New(&buf, "", 0)}

	_, err := New(weights.New(topology.MustNew(2, 2, 1))).Train(xorDataset(t),
		TrainConfig{Lambda: 0.5, MaxIterations: 5}, logger)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Iteration 2, Error = 0."), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Iteration 4, Error = 0."), lines[1])
}

func TestLoggerDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger{Out: log.New(&buf, "", 0)}
	for i := 1; i <= 10; i++ {
		logger.OnIterationEnd(i, 0.25, nil)
	}
	assert.Empty(t, buf.String())
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	Logger{Interval: 1, Out: log.New(&buf, "", 0)}.OnIterationEnd(3, 0.0125, nil)
	assert.Equal(t, "Iteration 3, Error = 0.012500\n", buf.String())
}

func TestCSVLogger(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "history.csv")
	logger := NewCSVLogger(filename, false)

	res, err := New(weights.New(topology.MustNew(2, 2, 1))).Train(xorDataset(t),
		TrainConfig{Lambda: 0.5, MaxIterations: 3}, logger)
	require.NoError(t, err)
	require.NoError(t, logger.Err())

	file, err := os.Open(filename)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 iterations

	assert.Equal(t, []string{"iteration", "error", "elapsed_seconds"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "3", records[3][0])

	last, err := strconv.ParseFloat(records[3][1], 64)
	require.NoError(t, err)
	assert.Equal(t, res.Error, last)
}

func TestCSVLoggerIntervalAndAppend(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "history.csv")
	n := New(weights.New(topology.MustNew(2, 2, 1)))

	first := NewCSVLogger(filename, false)
	first.Interval = 2
	_, err := n.Train(xorDataset(t), TrainConfig{Lambda: 0.5, MaxIterations: 5}, first)
	require.NoError(t, err)

	second := NewCSVLogger(filename, true)
	_, err = n.Train(xorDataset(t), TrainConfig{Lambda: 0.5, MaxIterations: 1}, second)
	require.NoError(t, err)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	// header, iterations 2 and 4, then the appended run without a second header
	require.Len(t, records, 4)
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "4", records[2][0])
	assert.Equal(t, "1", records[3][0])
}

func TestCSVLoggerOpenFailure(t *testing.T) {
	logger := NewCSVLogger(filepath.Join(t.TempDir(), "missing", "history.csv"), false)
	_, err := New(weights.New(topology.MustNew(2, 2, 1))).Train(xorDataset(t),
		TrainConfig{Lambda: 0.5, MaxIterations: 2}, logger)
	require.NoError(t, err)
	assert.Error(t, logger.Err())
}

func TestCheckpointSavesBestWeights(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "best.txt")
	cp := NewCheckpoint(filename, 0)
	rec := &recorder{}

	w := weights.New(topology.MustNew(2, 2, 1))
	w.Fill(0.2)
	_, err := New(w).Train(reachableDataset(t), TrainConfig{Lambda: 0.5, MaxIterations: 20}, rec, cp)
	require.NoError(t, err)
	require.NoError(t, cp.Err())

	best := math.Inf(1)
	for _, e := range rec.errors {
		best = math.Min(best, e)
	}
	assert.Equal(t, best, cp.Best())
	assert.GreaterOrEqual(t, cp.Saves(), 1)

	loaded := weights.New(topology.MustNew(2, 2, 1))
	require.NoError(t, loaded.Load(filename))
}

func TestCheckpointReportsSaveFailure(t *testing.T) {
	var buf bytes.Buffer
	cp := NewCheckpoint(filepath.Join(t.TempDir(), "missing", "best.txt"), 0)
	cp.Out = log.New(&buf, "", 0)

	_, err := New(weights.New(topology.MustNew(2, 2, 1))).Train(xorDataset(t),
		TrainConfig{Lambda: 0.5, MaxIterations: 2}, cp)
	require.NoError(t, err)

	var we *weights.WriteError
	assert.ErrorAs(t, cp.Err(), &we)
	assert.Equal(t, 0, cp.Saves())
	assert.Contains(t, buf.String(), "Error saving checkpoint")
}
