package net

import (
	"fmt"
	"time"

	"github.com/FlavioCFOliveira/GoBackprop/internal/dataset"
	"github.com/pkg/errors"
)

// TrainConfig holds the parameters of an online training run.
type TrainConfig struct {
	Lambda         float64 // learning rate
	MaxIterations  int     // passes over the dataset
	ErrorThreshold float64 // stop once the mean error drops below this
}

// Validate reports the first parameter that would make Train meaningless.
func (c TrainConfig) Validate() error {
	switch {
	case c.MaxIterations < 1:
		return errors.Errorf("max iterations must be at least 1, got %d", c.MaxIterations)
	case !(c.Lambda > 0):
		return errors.Errorf("lambda must be positive, got %v", c.Lambda)
	case !(c.ErrorThreshold >= 0):
		return errors.Errorf("error threshold must not be negative, got %v", c.ErrorThreshold)
	}
	return nil
}

// Reason tells why training stopped.
type Reason int

const (
	ReasonThreshold Reason = iota + 1
	ReasonMaxIterations
	ReasonBoth
)

func (r Reason) String() string {
	switch r {
	case ReasonThreshold:
		return "ERROR THRESHOLD REACHED"
	case ReasonMaxIterations:
		return "MAXIMUM ITERATIONS REACHED"
	case ReasonBoth:
		return "MAXIMUM ITERATIONS & ERROR THRESHOLD REACHED"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Termination classifies the end of a run from its final counters.
// Hitting the iteration cap with an error at or below the threshold counts
// as both, even though the loop itself stops on a strictly lower error.
func Termination(iterations int, meanError float64, maxIterations int, threshold float64) Reason {
	switch {
	case iterations >= maxIterations && meanError <= threshold:
		return ReasonBoth
	case iterations >= maxIterations:
		return ReasonMaxIterations
	default:
		return ReasonThreshold
	}
}

// Result summarizes a training run.
type Result struct {
	Iterations int
	Error      float64 // mean sample error of the last iteration
	Elapsed    time.Duration
	Reason     Reason
	// Outputs holds the post-update output of every sample from the last iteration.
	Outputs [][]float64
}

// Train runs online backpropagation over ds until the mean error drops
// below cfg.ErrorThreshold or cfg.MaxIterations passes have been made.
// For every sample it runs a forward pass, updates the weights, and runs a
// second forward pass whose output is what the error is measured on.
func (n *Network) Train(ds *dataset.Dataset, cfg TrainConfig, callbacks ...Callback) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, errors.Wrap(err, "invalid training config")
	}
	if err := n.checkDataset(ds, true); err != nil {
		return Result{}, err
	}

	outputs := n.newOutputs(ds.Len())
	start := time.Now()

	for _, cb := range callbacks {
		cb.OnTrainBegin(n)
	}

	var (
		iter    int
		meanErr float64
	)
	for {
		total := 0.0
		for k, input := range ds.Inputs {
			n.Forward(input)
			n.Backward(ds.Expected[k], cfg.Lambda)
			out := n.Forward(input)
			copy(outputs[k], out)
			total += n.SampleError(ds.Expected[k], out)
		}
		iter++
		meanErr = total / float64(ds.Len())

		for _, cb := range callbacks {
			cb.OnIterationEnd(iter, meanErr, n)
		}

		if meanErr < cfg.ErrorThreshold || iter >= cfg.MaxIterations {
			break
		}
	}

	res := Result{
		Iterations: iter,
		Error:      meanErr,
		Elapsed:    time.Since(start),
		Reason:     Termination(iter, meanErr, cfg.MaxIterations, cfg.ErrorThreshold),
		Outputs:    outputs,
	}

	for _, cb := range callbacks {
		cb.OnTrainEnd(n, res)
	}

	return res, nil
}

// Run runs every sample through the network and returns one output vector
// per sample. The weights are not changed.
func (n *Network) Run(ds *dataset.Dataset) ([][]float64, error) {
	if err := n.checkDataset(ds, false); err != nil {
		return nil, err
	}
	outputs := n.newOutputs(ds.Len())
	for k, input := range ds.Inputs {
		copy(outputs[k], n.Forward(input))
	}
	return outputs, nil
}

// RunError returns the mean sample error of outputs against the expected
// outputs of ds.
func (n *Network) RunError(ds *dataset.Dataset, outputs [][]float64) (float64, error) {
	if !ds.HasExpected() {
		return 0, errors.New("dataset has no expected outputs")
	}
	if len(outputs) != ds.Len() {
		return 0, errors.Errorf("%d outputs for %d samples", len(outputs), ds.Len())
	}
	total := 0.0
	for k, out := range outputs {
		if len(out) != n.top.OutputWidth() {
			return 0, errors.Errorf("output %d has width %d, want %d", k, len(out), n.top.OutputWidth())
		}
		total += n.SampleError(ds.Expected[k], out)
	}
	return total / float64(ds.Len()), nil
}

func (n *Network) checkDataset(ds *dataset.Dataset, training bool) error {
	if ds == nil || ds.Len() == 0 {
		return errors.New("dataset is empty")
	}
	if training && !ds.HasExpected() {
		return errors.New("training requires expected outputs")
	}
	for k, input := range ds.Inputs {
		if len(input) != n.top.InputWidth() {
			return errors.Errorf("sample %d has %d inputs, network takes %d", k, len(input), n.top.InputWidth())
		}
		if training && len(ds.Expected[k]) != n.top.OutputWidth() {
			return errors.Errorf("sample %d has %d expected outputs, network gives %d", k, len(ds.Expected[k]), n.top.OutputWidth())
		}
	}
	return nil
}

func (n *Network) newOutputs(cases int) [][]float64 {
	width := n.top.OutputWidth()
	backing := make([]float64, cases*width)
	outputs := make([][]float64, cases)
	for k := range outputs {
		outputs[k] = backing[k*width : (k+1)*width : (k+1)*width]
	}
	return outputs
}
