// Package topology describes the layer layout of a fully connected network.
package topology

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// InputLayer is the index of the input layer. It is always the first layer.
const InputLayer = 0

// MinLayers is the smallest number of layers a network may have:
// an input layer, at least one hidden layer and an output layer.
const MinLayers = 3

// Topology holds the number of nodes in every layer, input layer first
// and output layer last.
type Topology []int

// New builds a Topology from layer widths and validates it.
func New(widths ...int) (Topology, error) {
	t := make(Topology, len(widths))
	copy(t, widths)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is like New but panics on an invalid layout.
func MustNew(widths ...int) Topology {
	t, err := New(widths...)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse reads the dash separated form produced by String, e.g. "2-5-1".
// A trailing dash, as written in weight files, is accepted.
func Parse(s string) (Topology, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "-")
	if s == "" {
		return nil, errors.New("empty topology")
	}

	fields := strings.Split(s, "-")
	widths := make([]int, len(fields))
	for i, f := range fields {
		w, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d width %q", i, f)
		}
		widths[i] = w
	}
	return New(widths...)
}

// Validate checks that there are at least MinLayers layers and that no
// layer is empty.
func (t Topology) Validate() error {
	if len(t) < MinLayers {
		return errors.Errorf("topology needs at least %d layers, got %d", MinLayers, len(t))
	}
	for n, w := range t {
		if w < 1 {
			return errors.Errorf("layer %d has %d nodes, need at least 1", n, w)
		}
	}
	return nil
}

// Layers returns the total number of layers.
func (t Topology) Layers() int {
	return len(t)
}

// ConLayers returns the number of connectivity layers (weight matrices).
func (t Topology) ConLayers() int {
	return len(t) - 1
}

// OutputLayer returns the index of the output layer.
func (t Topology) OutputLayer() int {
	return len(t) - 1
}

// Width returns the number of nodes in layer n.
func (t Topology) Width(n int) int {
	return t[n]
}

// InputWidth returns the number of input nodes.
func (t Topology) InputWidth() int {
	return t[InputLayer]
}

// OutputWidth returns the number of output nodes.
func (t Topology) OutputWidth() int {
	return t[t.OutputLayer()]
}

// MaxWidth returns the widest layer size.
func (t Topology) MaxWidth() int {
	m := 0
	for _, w := range t {
		m = max(m, w)
	}
	return m
}

// MaxNonInputWidth returns the widest layer size past the input layer.
func (t Topology) MaxNonInputWidth() int {
	m := 0
	for _, w := range t[InputLayer+1:] {
		m = max(m, w)
	}
	return m
}

// NumWeights returns the total number of edges.
func (t Topology) NumWeights() int {
	total := 0
	for n := 1; n < len(t); n++ {
		total += t[n-1] * t[n]
	}
	return total
}

// Equal reports whether both topologies have the same layers.
func (t Topology) Equal(o Topology) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// String returns the layer widths joined by dashes.
func (t Topology) String() string {
	parts := make([]string, len(t))
	for i, w := range t {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, "-")
}
