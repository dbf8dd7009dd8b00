// Package activations provides benchmarks for the sigmoid activation.
package activations

import (
	"math/rand"
	"testing"
)

// fillRandom fills a slice with random values in [-4, 4).
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()*8 - 4
	}
}

// BenchmarkSigmoid benchmarks the sigmoid function.
func BenchmarkSigmoid(b *testing.B) {
	inputs := make([]float64, 1000)
	fillRandom(inputs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range inputs {
			Sigmoid(x)
		}
	}
}

// BenchmarkSigmoidDerivative benchmarks the sigmoid derivative.
func BenchmarkSigmoidDerivative(b *testing.B) {
	inputs := make([]float64, 1000)
	fillRandom(inputs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range inputs {
			SigmoidDerivative(x)
		}
	}
}
