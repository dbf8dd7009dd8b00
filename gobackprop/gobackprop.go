// Package gobackprop exposes the network, its weights and its datasets for
// use outside the command line tool.
package gobackprop

import (
	"github.com/FlavioCFOliveira/GoBackprop/internal/activations"
	"github.com/FlavioCFOliveira/GoBackprop/internal/config"
	"github.com/FlavioCFOliveira/GoBackprop/internal/dataset"
	"github.com/FlavioCFOliveira/GoBackprop/internal/net"
	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/FlavioCFOliveira/GoBackprop/internal/weights"
	"golang.org/x/exp/rand"
)

// Re-export common types for easier access
type (
	Network     = net.Network
	TrainConfig = net.TrainConfig
	Result      = net.Result
	Reason      = net.Reason
	Callback    = net.Callback
	Topology    = topology.Topology
	Weights     = weights.Tensor
	Dataset     = dataset.Dataset
	Config      = config.Config
)

// Termination reasons
const (
	ReasonThreshold     = net.ReasonThreshold
	ReasonMaxIterations = net.ReasonMaxIterations
	ReasonBoth          = net.ReasonBoth
)

// Topologies
func NewTopology(widths ...int) (Topology, error) {
	return topology.New(widths...)
}

func ParseTopology(s string) (Topology, error) {
	return topology.Parse(s)
}

// Weights
func NewWeights(top Topology) *Weights {
	return weights.New(top)
}

func RandomWeights(top Topology, low, high float64, seed uint64) (*Weights, error) {
	w := weights.New(top)
	err := weights.Initialize(w, weights.Init{
		Mode: weights.ModeRandomize,
		Low:  low,
		High: high,
		Src:  rand.NewSource(seed),
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func LoadWeights(top Topology, filename string) (*Weights, error) {
	w := weights.New(top)
	if err := w.Load(filename); err != nil {
		return nil, err
	}
	return w, nil
}

// Datasets
func NewDataset(top Topology, inputs, expected [][]float64) (*Dataset, error) {
	return dataset.New(top, inputs, expected)
}

func LoadDataset(filename string, top Topology, cases int, training bool) (*Dataset, error) {
	return dataset.LoadFile(filename, dataset.Spec{Topology: top, NumCases: cases, Training: training})
}

// Networks
func NewNetwork(w *Weights) *Network {
	return net.New(w)
}

func LoadConfig(filename string) (*Config, error) {
	return config.Load(filename)
}

// Callbacks
func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func CSVLogger(filename string) *net.CSVLogger {
	return net.NewCSVLogger(filename, false)
}

func Checkpoint(filename string) *net.Checkpoint {
	return net.NewCheckpoint(filename, 0)
}

// Activation
func Sigmoid(x float64) float64 {
	return activations.Sigmoid(x)
}
