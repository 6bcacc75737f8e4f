package anns

import (
	"gonum.org/v1/gonum/mat"
)

// Predict maps a matrix of output activations to class labels: each value at or
// above the threshold becomes +1, each value below it becomes -1. An activation of
// exactly the threshold is the positive class. The default decision rule for the
// classifiers in this package is threshold 0.
//
// Predict returns a freshly allocated matrix and never mutates its argument, so raw
// activations stay usable for plotting after classification.
func Predict(O *mat.Dense, threshold float64) *mat.Dense {
	n, k := O.Dims()

	labeled := mat.NewDense(n, k, nil)
	labeled.Apply(func(i, j int, v float64) float64 {
		if v >= threshold {
			return 1
		}
		return -1
	}, O)

	return labeled
}

// Accuracy returns the fraction of rows of O whose thresholded values all match the
// corresponding row of T.
func Accuracy(O, T *mat.Dense, threshold float64) (float64, error) {
	if O == nil || T == nil {
		return 0, ErrNilData
	}

	n, k := O.Dims()
	if tn, tk := T.Dims(); tn != n {
		return 0, SizeMismatchError{n, tn, "target rows"}
	} else if tk != k {
		return 0, SizeMismatchError{k, tk, "target columns"}
	}
	if n < 1 {
		return 0, ErrEmptyData
	}

	var correct int
	for i := 0; i < n; i++ {
		ok := true
		for j := 0; j < k; j++ {
			label := -1.0
			if O.At(i, j) >= threshold {
				label = 1
			}
			if label != T.At(i, j) {
				ok = false
				break
			}
		}
		if ok {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}
