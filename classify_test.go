package anns

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPredictThresholdBoundary(t *testing.T) {
	O := mat.NewDense(1, 4, []float64{0, -1e-12, 1e-12, -0.5})

	labels := Predict(O, 0)

	want := []float64{1, -1, 1, -1}
	for j, w := range want {
		if got := labels.At(0, j); got != w {
			t.Errorf("Predict(%v) = %v, want %v", O.At(0, j), got, w)
		}
	}
}

func TestPredictDoesNotMutateInput(t *testing.T) {
	O := mat.NewDense(2, 2, []float64{0.3, -0.7, 0.1, -0.2})
	orig := mat.DenseCopyOf(O)

	first := Predict(O, 0)
	second := Predict(O, 0)

	if !mat.Equal(O, orig) {
		t.Fatalf("Predict mutated its input")
	}
	if !mat.Equal(first, second) {
		t.Fatalf("repeated Predict on the same input differs")
	}
	if first == O {
		t.Fatalf("Predict returned its input instead of a new matrix")
	}
}

func TestPredictCustomThreshold(t *testing.T) {
	O := mat.NewDense(1, 3, []float64{0.4, 0.5, 0.6})

	labels := Predict(O, 0.5)

	want := []float64{-1, 1, 1}
	for j, w := range want {
		if got := labels.At(0, j); got != w {
			t.Errorf("at %v with threshold 0.5: got %v, want %v", O.At(0, j), got, w)
		}
	}
}

func TestAccuracy(t *testing.T) {
	O := mat.NewDense(4, 1, []float64{0.9, -0.2, 0.1, -0.4})
	T := mat.NewDense(4, 1, []float64{1, -1, -1, -1})

	acc, err := Accuracy(O, T, 0)
	if err != nil {
		t.Fatalf("Accuracy: %v", err)
	}
	if acc != 0.75 {
		t.Fatalf("accuracy %v, want 0.75", acc)
	}
}

func TestAccuracyMultiOutputCountsRows(t *testing.T) {
	// A row is correct only if every output matches.
	O := mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, -0.5})
	T := mat.NewDense(2, 2, []float64{1, -1, 1, -1})

	acc, err := Accuracy(O, T, 0)
	if err != nil {
		t.Fatalf("Accuracy: %v", err)
	}
	if acc != 0.5 {
		t.Fatalf("accuracy %v, want 0.5", acc)
	}
}

func TestAccuracyErrors(t *testing.T) {
	O := mat.NewDense(2, 1, nil)

	if _, err := Accuracy(O, mat.NewDense(3, 1, nil), 0); err == nil {
		t.Errorf("row mismatch: expected an error")
	}
	if _, err := Accuracy(O, nil, 0); err != ErrNilData {
		t.Errorf("nil target: expected ErrNilData, got %v", err)
	}
}
