// Package activations provides the activation function used by every layer.
package activations

import "math"

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x), where x is the pre-activation value
	Derivative(x float64) float64
}

// Sigmoid computes the logistic function 1 / (1 + e^-x).
// Large magnitudes saturate to exactly 0 or 1.
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// SigmoidDerivative computes sigmoid(x) * (1 - sigmoid(x)).
func SigmoidDerivative(x float64) float64 {
	sigma := Sigmoid(x)
	return sigma * (1 - sigma)
}

// Logistic is the sigmoid as an Activation.
type Logistic struct{}

// Activate computes sigmoid(x)
func (Logistic) Activate(x float64) float64 {
	return Sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (Logistic) Derivative(x float64) float64 {
	return SigmoidDerivative(x)
}

// Default is the activation used network-wide.
var Default Activation = Logistic{}
