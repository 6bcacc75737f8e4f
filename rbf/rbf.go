// Package rbf implements a radial-basis-function network for one-dimensional
// function approximation. Hidden units are Gaussians with randomly placed means; the
// output weights are solved either in closed form by least squares or iteratively
// with the sequential delta rule. Competitive learning can optionally reposition the
// unit means before the weights are solved.
package rbf

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solver selects how the output weights are computed.
type Solver string

const (
	// LeastSquares solves the weights in one shot from the normal equations.
	LeastSquares Solver = "least-squares"

	// DeltaRule fits the weights by sequential gradient descent, stopping when the
	// epoch-to-epoch error improvement falls below 1e-2.
	DeltaRule Solver = "delta-rule"
)

// deltaRuleTolerance is the error-improvement threshold that stops the delta-rule
// solver early.
const deltaRuleTolerance = 1e-2

// Config configures an RBFNN.
type Config struct {
	// Units is the number of Gaussian hidden units.
	Units int

	// LearningRate is the delta-rule step size, also used by competitive learning.
	LearningRate float64

	// Epochs is the delta-rule epoch budget.
	Epochs int

	// Solver selects the weight solver. Defaults to LeastSquares.
	Solver Solver

	// CL enables competitive learning of the unit means before solving.
	CL bool

	// CLStrategy selects the competitive-learning update; it must be 1 (move the
	// winner toward the sample) or 2 (move the winner's magnitude toward the
	// sample's).
	CLStrategy int

	// CLIterations is the number of competitive-learning steps.
	CLIterations int

	// Seed seeds the mean placement and sample picking.
	Seed int64
}

// RBFNN is a radial-basis-function network.
type RBFNN struct {
	cfg Config
	src *rand.Rand

	// means and variance of the hidden units; set by Train.
	means    []float64
	variance float64

	// w is the output weight vector (Units x 1); nil until trained.
	w *mat.Dense
}

// New validates the config and returns an untrained network.
func New(cfg Config) (*RBFNN, error) {
	if cfg.Units < 1 {
		return nil, errors.Errorf("Units must be at least 1 (got %d)", cfg.Units)
	}
	if cfg.Solver == "" {
		cfg.Solver = LeastSquares
	} else if cfg.Solver != LeastSquares && cfg.Solver != DeltaRule {
		return nil, errors.Errorf("Unknown solver %q", cfg.Solver)
	}
	if cfg.Solver == DeltaRule {
		if cfg.Epochs < 1 {
			return nil, errors.Errorf("Epochs must be at least 1 (got %d)", cfg.Epochs)
		}
		if cfg.LearningRate <= 0 {
			return nil, errors.Errorf("LearningRate must be positive (got %v)", cfg.LearningRate)
		}
	}
	if cfg.CL {
		if cfg.CLStrategy != 1 && cfg.CLStrategy != 2 {
			return nil, errors.Errorf("CLStrategy has to be one of 1, 2 (got %d)", cfg.CLStrategy)
		}
		if cfg.CLIterations < 1 {
			return nil, errors.Errorf("CLIterations must be at least 1 (got %d)", cfg.CLIterations)
		}
		if cfg.LearningRate <= 0 {
			return nil, errors.Errorf("LearningRate must be positive (got %v)", cfg.LearningRate)
		}
	}

	return &RBFNN{cfg: cfg, src: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// gaussian is the transfer function of a hidden unit with the given mean.
func (r *RBFNN) gaussian(x, mean float64) float64 {
	d := x - mean
	return math.Exp(-d * d / (2 * r.variance))
}

// phi computes the RBF design matrix: row i holds the responses of every hidden
// unit to X[i].
func (r *RBFNN) phi(X []float64) *mat.Dense {
	p := mat.NewDense(len(X), r.cfg.Units, nil)
	for i, x := range X {
		for j, mean := range r.means {
			p.Set(i, j, r.gaussian(x, mean))
		}
	}
	return p
}

// competitiveLearning repositions the unit means by drawing random samples and
// moving each sample's closest unit, per the configured strategy.
func (r *RBFNN) competitiveLearning(X []float64) {
	for i := 0; i < r.cfg.CLIterations; i++ {
		x := X[r.src.Intn(len(X))]

		win, bestDist := 0, math.Inf(1)
		for j, mean := range r.means {
			if d := math.Abs(math.Abs(x) - math.Abs(mean)); d < bestDist {
				win, bestDist = j, d
			}
		}

		if r.cfg.CLStrategy == 1 {
			r.means[win] += r.cfg.LearningRate * x
		} else {
			r.means[win] += r.cfg.LearningRate * (math.Abs(x) - math.Abs(r.means[win]))
		}
	}
}

// Train places the hidden units uniformly at random over the range of X, optionally
// adjusts them by competitive learning, and solves the output weights against the
// target values F. The variance is shared by all hidden units and must be positive:
// a vanishing variance makes the Gaussian responses degenerate.
func (r *RBFNN) Train(X, F []float64, variance float64) error {
	if len(X) < 1 {
		return errors.New("Input data is empty")
	}
	if len(F) != len(X) {
		return errors.Errorf("Dimension mismatch for target values: expected %d, got %d", len(X), len(F))
	}
	if variance <= 0 || math.IsInf(variance, 0) || math.IsNaN(variance) {
		return errors.Errorf("Variance must be positive and finite (got %v)", variance)
	}

	r.variance = variance

	lo, hi := floats.Min(X), floats.Max(X)
	r.means = make([]float64, r.cfg.Units)
	for i := range r.means {
		r.means[i] = lo + (hi-lo)*r.src.Float64()
	}

	if r.cfg.CL {
		r.competitiveLearning(X)
	}

	p := r.phi(X)
	f := mat.NewVecDense(len(F), append([]float64(nil), F...))

	if r.cfg.Solver == LeastSquares {
		return r.solveLeastSquares(p, f)
	}
	return r.solveDeltaRule(p, X, F)
}

// solveLeastSquares solves Phi * w = f in the least-squares sense.
func (r *RBFNN) solveLeastSquares(p *mat.Dense, f *mat.VecDense) error {
	w := mat.NewDense(r.cfg.Units, 1, nil)
	if err := w.Solve(p, f); err != nil {
		return errors.Wrap(err, "Least-squares solve failed")
	}

	for _, v := range w.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("Least-squares solve produced a non-finite weight")
		}
	}

	r.w = w
	return nil
}

// solveDeltaRule fits the weights sequentially: one pass of per-sample updates per
// epoch, stopping early once the total error stops improving.
func (r *RBFNN) solveDeltaRule(p *mat.Dense, X, F []float64) error {
	ws := make([]float64, r.cfg.Units)
	for i := range ws {
		ws[i] = r.src.NormFloat64()
	}
	r.w = mat.NewDense(r.cfg.Units, 1, ws)

	pred, err := r.Predict(X)
	if err != nil {
		return err
	}
	errOld := TotalError(F, pred)

	for e := 0; e < r.cfg.Epochs; e++ {
		for i := range X {
			// f_hat for this sample under the current weights.
			var fHat float64
			for j := 0; j < r.cfg.Units; j++ {
				fHat += p.At(i, j) * r.w.At(j, 0)
			}

			diff := F[i] - fHat
			for j := 0; j < r.cfg.Units; j++ {
				r.w.Set(j, 0, r.w.At(j, 0)+r.cfg.LearningRate*diff*p.At(i, j))
			}
		}

		for _, v := range r.w.RawMatrix().Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Errorf("Delta rule produced a non-finite weight on epoch %d", e)
			}
		}

		if pred, err = r.Predict(X); err != nil {
			return err
		}

		errNew := TotalError(F, pred)
		if errOld-errNew < deltaRuleTolerance {
			return nil
		}
		errOld = errNew
	}

	return nil
}

// Predict returns the network's approximation of the target function at each point
// of X.
func (r *RBFNN) Predict(X []float64) ([]float64, error) {
	if r.w == nil {
		return nil, errors.New("Network has not been trained")
	}
	if len(X) < 1 {
		return nil, errors.New("Input data is empty")
	}

	p := r.phi(X)

	var out mat.Dense
	out.Mul(p, r.w)

	res := make([]float64, len(X))
	for i := range res {
		res[i] = out.At(i, 0)
	}
	return res, nil
}

// Means returns the hidden unit means; nil before training.
func (r *RBFNN) Means() []float64 {
	return r.means
}

// TotalError is the mean absolute approximation error over a data sequence.
func TotalError(f, fHat []float64) float64 {
	var sum float64
	for i := range f {
		sum += math.Abs(math.Abs(f[i]) - math.Abs(fHat[i]))
	}
	return math.Abs(sum / float64(len(f)))
}
