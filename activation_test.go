package anns

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
)

func TestPhiBounded(t *testing.T) {
	for _, z := range []float64{-1e6, -100, -5, -1, 0, 1, 5, 100, 1e6} {
		a := Phi(z)
		if a <= -1 || a >= 1 {
			t.Fatalf("Phi(%v) = %v, outside (-1, 1)", z, a)
		}
	}
}

// TestPhiPrimePositiveAtSaturation checks the derivative at inputs large enough to
// round the sigmoid formula to +/-1: the activation must stay inside the open
// interval so the gradient never vanishes completely.
func TestPhiPrimePositiveAtSaturation(t *testing.T) {
	for _, z := range []float64{-1e6, -100, -40, 40, 100, 1e6} {
		a := Phi(z)
		if a <= -1 || a >= 1 {
			t.Fatalf("Phi(%v) = %v, outside (-1, 1)", z, a)
		}
		if d := PhiPrime(a); d <= 0 {
			t.Fatalf("PhiPrime(Phi(%v)) = %v, want strictly positive", z, d)
		}
	}
}

func TestPhiSymmetric(t *testing.T) {
	if got := Phi(0); got != 0 {
		t.Fatalf("Phi(0) = %v, want 0", got)
	}
	for _, z := range []float64{0.1, 1, 3, 10} {
		if got, want := Phi(-z), -Phi(z); math.Abs(got-want) > 1e-12 {
			t.Fatalf("Phi(-%v) = %v, want %v", z, got, want)
		}
	}
}

// TestPhiPrimeMatchesFiniteDifference checks the closed-form derivative, expressed
// in terms of the activation value, against a numerical derivative of Phi at the
// corresponding pre-activation z = Phi^-1(a).
func TestPhiPrimeMatchesFiniteDifference(t *testing.T) {
	inverse := func(a float64) float64 {
		// Phi(z) = 2/(1+e^-z) - 1 inverts to z = ln((1+a)/(1-a)).
		return math.Log((1 + a) / (1 - a))
	}

	for a := -0.95; a <= 0.95; a += 0.05 {
		z := inverse(a)

		numeric := fd.Derivative(Phi, z, &fd.Settings{Formula: fd.Central})
		closed := PhiPrime(Phi(z))

		if math.Abs(numeric-closed) > 1e-6 {
			t.Fatalf("at a=%.2f (z=%v): closed-form derivative %v, finite difference %v", a, z, closed, numeric)
		}
	}
}
