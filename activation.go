package anns

import (
	"math"
)

// Phi is the symmetric sigmoid 2/(1+e^-z) - 1, mapping the reals onto (-1, 1). It is
// the transfer function of both perceptron layers. Large |z| rounds the formula to
// exactly +/-1 in float64, so the result is nudged back inside the open interval;
// PhiPrime stays strictly positive that way.
func Phi(z float64) float64 {
	a := 2/(1+math.Exp(-z)) - 1
	if a >= 1 {
		return math.Nextafter(1, 0)
	}
	if a <= -1 {
		return math.Nextafter(-1, 0)
	}
	return a
}

// PhiPrime is the derivative of Phi expressed in terms of the already-computed
// activation value a = Phi(z), avoiding a second exponential:
//
//	d/dz Phi(z) = (1 + a)(1 - a) / 2
func PhiPrime(a float64) float64 {
	return (1 + a) * (1 - a) / 2
}
