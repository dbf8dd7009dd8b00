// Package report formats the console output of a session: the echoed
// configuration, the end-of-training summary and the truth table.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/FlavioCFOliveira/GoBackprop/internal/config"
	"github.com/FlavioCFOliveira/GoBackprop/internal/dataset"
	"github.com/FlavioCFOliveira/GoBackprop/internal/net"
	"github.com/FlavioCFOliveira/GoBackprop/internal/weights"
	"github.com/pkg/errors"
)

// Config echoes the parameters of c. Training parameters are only shown
// when c trains.
func Config(w io.Writer, c *config.Config) error {
	ew := &errWriter{w: w}

	ew.println()
	if c.Path != "" {
		ew.printf("Config File: %s\n", c.Path)
	}
	ew.printf("Dataset File: %s\n", c.DatasetPath)

	switch c.WeightsMode {
	case weights.ModeLoad:
		ew.printf("Weights will be loaded from a file: %s\n", c.WeightsPath)
	case weights.ModeRandomize:
		ew.printf("Weights will be randomized\n")
	default:
		ew.printf("Weights are all set to a constant (%s)\n", formatFloat(weights.DefaultValue))
	}

	ew.println()
	ew.printf("Network: %s\n", c.Topology)
	ew.printf("Samples: %d\n", c.NumCases)
	ew.printf("Training: %t\n", c.Training)
	ew.printf("Saving: %t\n", c.SaveWeights)
	ew.println()

	if c.Training {
		ew.printf("Lambda: %s\n", formatFloat(c.Lambda))
		ew.printf("Max Iterations: %d\n", c.MaxIterations)
		ew.printf("Error Threshold: %s\n", formatFloat(c.ErrorThreshold))
		if c.WeightsMode == weights.ModeRandomize {
			ew.printf("Random Number Range: %s - %s\n", formatFloat(c.LowRand), formatFloat(c.HighRand))
		}
		ew.printf("Keep Alive: %d\n", c.KeepAlive)
	}

	if c.SaveWeights {
		ew.printf("Weights will be saved to file: %s\n", c.WeightsPath)
	} else {
		ew.printf("Weights will not be saved\n")
	}

	return ew.err
}

// Training summarizes a finished training run.
func Training(w io.Writer, res net.Result, cfg net.TrainConfig) error {
	ew := &errWriter{w: w}

	ew.println()
	switch res.Reason {
	case net.ReasonBoth:
		ew.printf("Reason for end: %s (%d iterations, threshold %s)\n", res.Reason, cfg.MaxIterations, formatFloat(cfg.ErrorThreshold))
	case net.ReasonMaxIterations:
		ew.printf("Reason for end: %s (%d iterations)\n", res.Reason, cfg.MaxIterations)
	default:
		ew.printf("Reason for end: %s (threshold %s)\n", res.Reason, formatFloat(cfg.ErrorThreshold))
	}
	ew.printf("Iterations reached: %d\n", res.Iterations)
	ew.printf("Error reached: %s\n", formatFloat(res.Error))
	ew.printf("Time taken: %d ms\n", res.Elapsed.Milliseconds())

	return ew.err
}

// Table prints one row per sample with its inputs, its expected outputs
// when ds has them, and the outputs of the network.
func Table(w io.Writer, ds *dataset.Dataset, outputs [][]float64) error {
	if len(outputs) != ds.Len() {
		return errors.Errorf("%d outputs for %d samples", len(outputs), ds.Len())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if ds.HasExpected() {
		fmt.Fprintln(tw, "Case\tInput\tExpected\tActual")
		fmt.Fprintln(tw, "----\t-----\t--------\t------")
	} else {
		fmt.Fprintln(tw, "Case\tInput\tActual")
		fmt.Fprintln(tw, "----\t-----\t------")
	}

	for k, out := range outputs {
		fmt.Fprintf(tw, "%d\t%s\t", k+1, joinFloats(ds.Inputs[k], "%g"))
		if ds.HasExpected() {
			fmt.Fprintf(tw, "%s\t", joinFloats(ds.Expected[k], "%g"))
		}
		fmt.Fprintf(tw, "%s\n", joinFloats(out, "%.3f"))
	}

	return errors.Wrap(tw.Flush(), "failed to write table")
}

// Outputs prints the outputs grouped by output node, one line per node,
// the same order the dataset file lists expected values in.
func Outputs(w io.Writer, outputs [][]float64) error {
	ew := &errWriter{w: w}
	if len(outputs) == 0 {
		return nil
	}
	for i := range outputs[0] {
		column := make([]float64, len(outputs))
		for k, out := range outputs {
			column[k] = out[i]
		}
		ew.printf("%s\n", joinFloats(column, "%.3f"))
	}
	return ew.err
}

func joinFloats(values []float64, format string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf(format, v)
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// errWriter keeps the first write error so a report can be printed
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println() {
	ew.printf("\n")
}
