// Package net provides the training and running session of a fully
// connected sigmoid network.
package net

import (
	"github.com/FlavioCFOliveira/GoBackprop/internal/activations"
	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"github.com/FlavioCFOliveira/GoBackprop/internal/weights"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Network is one training or running session: the weights plus every
// buffer a forward and backward pass needs. A Network is not safe for
// concurrent use; independent Networks are.
type Network struct {
	top     topology.Topology
	weights *weights.Tensor
	act     activations.Activation

	// acts[n] holds the activations of layer n, padded to the widest layer.
	acts [][]float64
	// thetas[n] holds the weighted sums into layer n; row 0 is unused.
	thetas [][]float64
	// psis[n] holds the error signal of every node of layer n.
	psis [][]float64

	// Vector views over acts and thetas sized to each layer, used by MulVec.
	actVecs   []*mat.VecDense
	thetaVecs []*mat.VecDense

	// Scratch buffer for the output error.
	diff []float64
}

// New creates a session over w. The network updates w in place when training.
func New(w *weights.Tensor) *Network {
	top := w.Topology()
	layers := top.Layers()

	n := &Network{
		top:       top,
		weights:   w,
		act:       activations.Default,
		acts:      make([][]float64, layers),
		thetas:    make([][]float64, layers),
		psis:      make([][]float64, layers),
		actVecs:   make([]*mat.VecDense, layers),
		thetaVecs: make([]*mat.VecDense, layers),
		diff:      make([]float64, top.OutputWidth()),
	}

	for l := 0; l < layers; l++ {
		n.acts[l] = make([]float64, top.MaxWidth())
		n.psis[l] = make([]float64, top.MaxWidth())
		n.actVecs[l] = mat.NewVecDense(top.Width(l), n.acts[l][:top.Width(l)])
		if l > topology.InputLayer {
			n.thetas[l] = make([]float64, top.MaxNonInputWidth())
			n.thetaVecs[l] = mat.NewVecDense(top.Width(l), n.thetas[l][:top.Width(l)])
		}
	}

	return n
}

// Topology returns the layer layout.
func (n *Network) Topology() topology.Topology {
	return n.top
}

// Weights returns the tensor the session reads and trains.
func (n *Network) Weights() *weights.Tensor {
	return n.weights
}

// Activations returns the current activations of layer l. The slice
// aliases the session buffer and is overwritten by the next pass.
func (n *Network) Activations(l int) []float64 {
	return n.acts[l][:n.top.Width(l)]
}

// Thetas returns the weighted sums into layer l from the last forward pass.
func (n *Network) Thetas(l int) []float64 {
	return n.thetas[l][:n.top.Width(l)]
}

// Psis returns the error signals of layer l from the last backward pass.
func (n *Network) Psis(l int) []float64 {
	return n.psis[l][:n.top.Width(l)]
}

// Forward runs the input through the network and returns the output
// activations. The returned slice aliases the session buffer and is only
// valid until the next pass.
func (n *Network) Forward(input []float64) []float64 {
	if len(input) != n.top.InputWidth() {
		panic("net: input width does not match the input layer")
	}
	copy(n.acts[topology.InputLayer], input)

	for l := 1; l < n.top.Layers(); l++ {
		theta := n.thetaVecs[l]
		theta.MulVec(n.weights.Layer(l).T(), n.actVecs[l-1])

		act := n.acts[l]
		for k := 0; k < n.top.Width(l); k++ {
			act[k] = n.act.Activate(theta.AtVec(k))
		}
	}

	return n.Activations(n.top.OutputLayer())
}

// Backward propagates the error of the last Forward pass against expected
// and updates every weight once, output layer first. It must follow a
// Forward call on the same sample.
func (n *Network) Backward(expected []float64, lambda float64) {
	out := n.top.OutputLayer()
	if len(expected) != n.top.OutputWidth() {
		panic("net: expected width does not match the output layer")
	}

	outActs, outThetas, outPsis := n.acts[out], n.thetas[out], n.psis[out]
	for k := 0; k < n.top.OutputWidth(); k++ {
		outPsis[k] = (expected[k] - outActs[k]) * n.act.Derivative(outThetas[k])
	}

	// Each edge feeding layer l+1 is read into omega before it is updated.
	for l := out - 1; l > topology.InputLayer; l-- {
		w := n.weights.Layer(l + 1).RawMatrix()
		next := n.psis[l+1][:n.top.Width(l+1)]
		acts, thetas, psis := n.acts[l], n.thetas[l], n.psis[l]

		for j := 0; j < n.top.Width(l); j++ {
			row := w.Data[j*w.Stride : j*w.Stride+w.Cols]
			step := lambda * acts[j]
			omega := 0.0
			for k, psi := range next {
				omega += psi * row[k]
				row[k] += step * psi
			}
			psis[j] = omega * n.act.Derivative(thetas[j])
		}
	}

	// Input activations never change here, so the first layer has no ordering hazard.
	w := n.weights.Layer(1).RawMatrix()
	first := n.psis[1][:n.top.Width(1)]
	inputs := n.acts[topology.InputLayer]
	for i := 0; i < n.top.InputWidth(); i++ {
		floats.AddScaled(w.Data[i*w.Stride:i*w.Stride+w.Cols], lambda*inputs[i], first)
	}
}

// SampleError returns half the squared distance between expected and actual.
func (n *Network) SampleError(expected, actual []float64) float64 {
	diff := n.diff[:len(expected)]
	floats.SubTo(diff, expected, actual)
	return 0.5 * floats.Dot(diff, diff)
}
