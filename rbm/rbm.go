// Package rbm implements a restricted Boltzmann machine with binary logistic units
// trained by single-step contrastive divergence (CD-1), and a deep belief net built
// by greedily stacking machines.
package rbm

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	anns "github.com/bt-s/dd2437-anns"
)

// Config configures an RBM.
type Config struct {
	// Visible and Hidden are the layer sizes.
	Visible, Hidden int

	// LearningRate is the CD-1 step size. Defaults to 0.01.
	LearningRate float64

	// BatchSize is the mini-batch size; each training iteration learns one
	// mini-batch, cycling over the data.
	BatchSize int

	// Seed seeds the weight initialization and the unit sampling.
	Seed int64
}

// Result reports training progress: the mean squared reconstruction error of the
// iteration's mini-batch.
type Result struct {
	Iteration           int
	ReconstructionError float64
}

// RBM is a restricted Boltzmann machine. Visible and hidden units are binary with
// logistic activation probabilities.
type RBM struct {
	cfg Config
	src *rand.Rand

	// w couples visible to hidden (Visible x Hidden); bv and bh are the unit
	// biases.
	w      *mat.Dense
	bv, bh []float64
}

// New validates the config and returns an untrained machine with small random
// weights and zero biases.
func New(cfg Config) (*RBM, error) {
	if cfg.Visible < 1 || cfg.Hidden < 1 {
		return nil, errors.Errorf("Layer sizes must be at least 1 (got %d visible, %d hidden)", cfg.Visible, cfg.Hidden)
	}
	if cfg.BatchSize < 1 {
		return nil, errors.Errorf("BatchSize must be at least 1 (got %d)", cfg.BatchSize)
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.01
	} else if cfg.LearningRate < 0 {
		return nil, errors.Errorf("LearningRate must be positive (got %v)", cfg.LearningRate)
	}

	src := rand.New(rand.NewSource(cfg.Seed))

	ws := make([]float64, cfg.Visible*cfg.Hidden)
	sd := 1 / math.Sqrt(float64(cfg.Visible))
	for i := range ws {
		ws[i] = src.NormFloat64() * sd
	}

	return &RBM{
		cfg: cfg,
		src: src,
		w:   mat.NewDense(cfg.Visible, cfg.Hidden, ws),
		bv:  make([]float64, cfg.Visible),
		bh:  make([]float64, cfg.Hidden),
	}, nil
}

func logistic(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// HiddenProbs returns the hidden activation probabilities given visible values,
// one row per observation.
func (r *RBM) HiddenProbs(V *mat.Dense) *mat.Dense {
	var h mat.Dense
	h.Mul(V, r.w)
	h.Apply(func(_, j int, z float64) float64 { return logistic(z + r.bh[j]) }, &h)
	return &h
}

// VisibleProbs returns the visible activation probabilities given hidden values,
// one row per observation.
func (r *RBM) VisibleProbs(H *mat.Dense) *mat.Dense {
	var v mat.Dense
	v.Mul(H, r.w.T())
	v.Apply(func(_, j int, z float64) float64 { return logistic(z + r.bv[j]) }, &v)
	return &v
}

// sample draws binary unit states from a matrix of activation probabilities.
func (r *RBM) sample(probs *mat.Dense) *mat.Dense {
	n, k := probs.Dims()
	s := mat.NewDense(n, k, nil)
	s.Apply(func(_, _ int, p float64) float64 {
		if r.src.Float64() < p {
			return 1
		}
		return 0
	}, probs)
	return s
}

// CD1 trains the machine with single-step contrastive divergence for the given
// number of iterations, each learning one mini-batch of rows of X in cycling order.
// X values are interpreted as probabilities of the visible units being on. If
// update is not nil it receives a Result per iteration.
func (r *RBM) CD1(X *mat.Dense, iterations int, update func(Result)) error {
	if X == nil {
		return anns.ErrNilData
	}

	n, d := X.Dims()
	if n < 1 {
		return anns.ErrEmptyData
	}
	if d != r.cfg.Visible {
		return anns.SizeMismatchError{Expected: r.cfg.Visible, Got: d, What: "visible columns"}
	}
	if iterations < 1 {
		return errors.Errorf("Iterations must be at least 1 (got %d)", iterations)
	}

	eta := r.cfg.LearningRate

	for it := 0; it < iterations; it++ {
		v0 := r.batch(X, it)
		b, _ := v0.Dims()

		// Positive phase, one Gibbs step, negative phase.
		h0 := r.HiddenProbs(v0)
		h0s := r.sample(h0)
		v1 := r.VisibleProbs(h0s)
		h1 := r.HiddenProbs(v1)

		// W += eta/b * (v0^T h0 - v1^T h1)
		var pos, neg mat.Dense
		pos.Mul(v0.T(), h0)
		neg.Mul(v1.T(), h1)
		pos.Sub(&pos, &neg)
		pos.Scale(eta/float64(b), &pos)
		r.w.Add(r.w, &pos)

		addColMeans(r.bv, v0, v1, eta)
		addColMeans(r.bh, h0, h1, eta)

		if update != nil {
			update(Result{Iteration: it, ReconstructionError: reconstructionError(v0, v1)})
		}
	}

	return nil
}

// batch returns the it'th mini-batch of rows of X, cycling.
func (r *RBM) batch(X *mat.Dense, it int) *mat.Dense {
	n, d := X.Dims()

	b := r.cfg.BatchSize
	if b > n {
		b = n
	}

	start := (it * b) % n
	out := mat.NewDense(b, d, nil)
	for i := 0; i < b; i++ {
		row := (start + i) % n
		for j := 0; j < d; j++ {
			out.Set(i, j, X.At(row, j))
		}
	}
	return out
}

// addColMeans adds eta * columnMean(pos - neg) to the bias slice.
func addColMeans(bias []float64, pos, neg *mat.Dense, eta float64) {
	n, k := pos.Dims()
	for j := 0; j < k; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += pos.At(i, j) - neg.At(i, j)
		}
		bias[j] += eta * sum / float64(n)
	}
}

func reconstructionError(v0, v1 *mat.Dense) float64 {
	n, k := v0.Dims()
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			d := v0.At(i, j) - v1.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(n*k)
}

// Reconstruct runs one up-down pass on the given visible data and returns the
// visible probabilities, useful for inspecting what the machine has learned.
func (r *RBM) Reconstruct(X *mat.Dense) (*mat.Dense, error) {
	if X == nil {
		return nil, anns.ErrNilData
	}
	if _, d := X.Dims(); d != r.cfg.Visible {
		return nil, anns.SizeMismatchError{Expected: r.cfg.Visible, Got: d, What: "visible columns"}
	}

	return r.VisibleProbs(r.HiddenProbs(X)), nil
}

// Weights returns the coupling matrix. It is the machine's own state, not a copy.
func (r *RBM) Weights() *mat.Dense {
	return r.w
}
