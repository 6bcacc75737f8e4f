// Package toydata generates the small synthetic datasets the labs train on: pairs
// of Gaussian point clouds in the plane, their non-separable variant, and the
// one-hot patterns for the 8-3-8 encoder. All sampling goes through a caller-
// supplied rand.Rand so experiments are reproducible.
package toydata

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// TwoClasses samples two classes of n points each in the plane, class A normally
// distributed around meanA with standard deviation sigmaA and class B around meanB
// with sigmaB. Each returned matrix is n x 2, one point per row.
func TwoClasses(r *rand.Rand, n int, meanA [2]float64, sigmaA float64, meanB [2]float64, sigmaB float64) (classA, classB *mat.Dense) {
	classA = mat.NewDense(n, 2, nil)
	classB = mat.NewDense(n, 2, nil)

	for i := 0; i < n; i++ {
		classA.Set(i, 0, meanA[0]+sigmaA*r.NormFloat64())
		classA.Set(i, 1, meanA[1]+sigmaA*r.NormFloat64())
		classB.Set(i, 0, meanB[0]+sigmaB*r.NormFloat64())
		classB.Set(i, 1, meanB[1]+sigmaB*r.NormFloat64())
	}

	return classA, classB
}

// TwoClassesSplit samples the non-separable variant: class A's x coordinates come
// in two lobes, half centered at -meanA[0] and half at +meanA[0], so no single
// line separates the classes. Class B is a single cloud as in TwoClasses.
func TwoClassesSplit(r *rand.Rand, n int, meanA [2]float64, sigmaA float64, meanB [2]float64, sigmaB float64) (classA, classB *mat.Dense) {
	classA = mat.NewDense(n, 2, nil)
	classB = mat.NewDense(n, 2, nil)

	for i := 0; i < n; i++ {
		sign := 1.0
		if i%2 == 0 {
			sign = -1
		}
		classA.Set(i, 0, sign*meanA[0]+sigmaA*r.NormFloat64())
		classA.Set(i, 1, meanA[1]+sigmaA*r.NormFloat64())
		classB.Set(i, 0, meanB[0]+sigmaB*r.NormFloat64())
		classB.Set(i, 1, meanB[1]+sigmaB*r.NormFloat64())
	}

	return classA, classB
}

// Subsample splits each class into a training part of the given size and a
// validation part holding the rest, without replacement.
func Subsample(r *rand.Rand, classA, classB *mat.Dense, trainA, trainB int) (aTrain, bTrain, aVal, bVal *mat.Dense, err error) {
	if aTrain, aVal, err = split(r, classA, trainA); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "Subsampling class A failed")
	}
	if bTrain, bVal, err = split(r, classB, trainB); err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "Subsampling class B failed")
	}

	return aTrain, bTrain, aVal, bVal, nil
}

func split(r *rand.Rand, class *mat.Dense, train int) (*mat.Dense, *mat.Dense, error) {
	n, d := class.Dims()
	if train < 1 || train >= n {
		return nil, nil, errors.Errorf("Training size must be within [1, %d) (got %d)", n, train)
	}

	perm := r.Perm(n)

	first := mat.NewDense(train, d, nil)
	second := mat.NewDense(n-train, d, nil)
	for i, row := range perm {
		for j := 0; j < d; j++ {
			if i < train {
				first.Set(i, j, class.At(row, j))
			} else {
				second.Set(i-train, j, class.At(row, j))
			}
		}
	}

	return first, second, nil
}

// Merge turns two point clouds into a training set: X holds the rows of both
// classes in shuffled order (with an appended constant-one column when bias is
// set), and T holds the row-aligned targets, +1 for class A and -1 for class B.
func Merge(r *rand.Rand, classA, classB *mat.Dense, bias bool) (X, T *mat.Dense) {
	na, d := classA.Dims()
	nb, _ := classB.Dims()
	n := na + nb

	cols := d
	if bias {
		cols++
	}

	X = mat.NewDense(n, cols, nil)
	T = mat.NewDense(n, 1, nil)

	perm := r.Perm(n)
	for i, row := range perm {
		src, srcRow, target := classA, row, 1.0
		if row >= na {
			src, srcRow, target = classB, row-na, -1
		}

		for j := 0; j < d; j++ {
			X.Set(i, j, src.At(srcRow, j))
		}
		if bias {
			X.Set(i, d, 1)
		}
		T.Set(i, 0, target)
	}

	return X, T
}

// EncoderData returns the 8-3-8 autoencoder patterns: eight observations, each
// with one component set to +1 and the remaining seven to -1. Input and target are
// separate, identical matrices.
func EncoderData() (X, T *mat.Dense) {
	X = mat.NewDense(8, 8, nil)
	T = mat.NewDense(8, 8, nil)

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			v := -1.0
			if i == j {
				v = 1
			}
			X.Set(i, j, v)
			T.Set(i, j, v)
		}
	}

	return X, T
}
