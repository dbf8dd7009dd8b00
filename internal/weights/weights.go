// Package weights stores the edge weights of a fully connected network and
// knows how to initialize, persist and restore them.
package weights

import (
	"github.com/FlavioCFOliveira/GoBackprop/internal/topology"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultValue is the weight used by ModeConstant.
const DefaultValue = 0.0

// Tensor holds one dense matrix per connectivity layer.
// Layer(n) connects layer n-1 (rows) to layer n (columns), so element (j, k)
// is the edge from node j of layer n-1 to node k of layer n.
type Tensor struct {
	top    topology.Topology
	layers []*mat.Dense // index 0 is unused
}

// New allocates a zero-filled tensor for the topology.
func New(top topology.Topology) *Tensor {
	layers := make([]*mat.Dense, top.Layers())
	for n := 1; n < top.Layers(); n++ {
		layers[n] = mat.NewDense(top.Width(n-1), top.Width(n), nil)
	}
	return &Tensor{top: top, layers: layers}
}

// Topology returns the layout the tensor was allocated for.
func (t *Tensor) Topology() topology.Topology {
	return t.top
}

// Layer returns the weight matrix feeding layer n (1 <= n < Layers).
// The matrix is shared, not copied.
func (t *Tensor) Layer(n int) *mat.Dense {
	return t.layers[n]
}

// At returns the weight of the edge from node j of layer n-1 to node k of layer n.
func (t *Tensor) At(n, j, k int) float64 {
	return t.layers[n].At(j, k)
}

// Set sets the weight of the edge from node j of layer n-1 to node k of layer n.
func (t *Tensor) Set(n, j, k int, v float64) {
	t.layers[n].Set(j, k, v)
}

// Fill sets every weight to v.
func (t *Tensor) Fill(v float64) {
	for n := 1; n < len(t.layers); n++ {
		raw := t.layers[n].RawMatrix()
		for j := 0; j < raw.Rows; j++ {
			row := raw.Data[j*raw.Stride : j*raw.Stride+raw.Cols]
			for k := range row {
				row[k] = v
			}
		}
	}
}

// Randomize draws every weight uniformly from [low, high).
// A nil src uses the package level source of golang.org/x/exp/rand.
func (t *Tensor) Randomize(low, high float64, src rand.Source) {
	dist := distuv.Uniform{Min: low, Max: high, Src: src}
	for n := 1; n < len(t.layers); n++ {
		m := t.layers[n]
		rows, cols := m.Dims()
		for j := 0; j < rows; j++ {
			for k := 0; k < cols; k++ {
				m.Set(j, k, dist.Rand())
			}
		}
	}
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{top: t.top, layers: make([]*mat.Dense, len(t.layers))}
	for n := 1; n < len(t.layers); n++ {
		c.layers[n] = mat.DenseCopyOf(t.layers[n])
	}
	return c
}

// EqualApprox reports whether both tensors share a topology and every
// weight differs by at most tol.
func (t *Tensor) EqualApprox(o *Tensor, tol float64) bool {
	if !t.top.Equal(o.top) {
		return false
	}
	for n := 1; n < len(t.layers); n++ {
		if !mat.EqualApprox(t.layers[n], o.layers[n], tol) {
			return false
		}
	}
	return true
}

// Values returns all weights flattened in persistence order:
// layer, then source node, then destination node.
func (t *Tensor) Values() []float64 {
	out := make([]float64, 0, t.top.NumWeights())
	for n := 1; n < len(t.layers); n++ {
		m := t.layers[n]
		rows, _ := m.Dims()
		for j := 0; j < rows; j++ {
			out = append(out, m.RawRowView(j)...)
		}
	}
	return out
}
