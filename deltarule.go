package anns

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/bt-s/dd2437-anns/initializers"
)

// DeltaRuleConfig configures a DeltaRule classifier.
type DeltaRuleConfig struct {
	// MaxEpochs is the epoch budget for a single Train run.
	MaxEpochs int

	// LearningRate provides the gradient-descent step size per epoch.
	LearningRate Schedule

	// Sequential selects per-sample updates instead of a single full-batch update
	// per epoch.
	Sequential bool

	// Seed seeds the weight initialization.
	Seed int64

	// Init overrides the default weight initializer. If Init is set, Seed has no
	// effect.
	Init Initializer
}

// DeltaRule is a single-layer linear classifier trained with the delta rule:
// gradient descent on the squared error of the raw linear output against targets in
// {-1, +1}. Classification thresholds the output at zero. With a bias column
// appended to the inputs (toydata.Merge) the decision boundary need not pass
// through the origin.
type DeltaRule struct {
	cfg  DeltaRuleConfig
	init Initializer

	// w is the weight column vector (d x 1); nil until trained.
	w *mat.Dense
}

// NewDeltaRule validates the config and returns an untrained classifier.
func NewDeltaRule(cfg DeltaRuleConfig) (*DeltaRule, error) {
	if cfg.MaxEpochs < 1 {
		return nil, errors.Errorf("MaxEpochs must be at least 1 (got %d)", cfg.MaxEpochs)
	}
	if cfg.LearningRate == nil {
		return nil, errors.New("LearningRate is nil")
	}

	init := cfg.Init
	if init == nil {
		src := rand.New(rand.NewSource(cfg.Seed))
		init = initializers.VarianceScaling().In().Source(src)
	}

	return &DeltaRule{cfg: cfg, init: init}, nil
}

// Train re-initializes the weights and runs epochs until the training set is
// classified perfectly or the epoch budget is exhausted.
func (c *DeltaRule) Train(args TrainArgs) (TrainResult, error) {
	if err := checkSingleOutput(args.X, args.T); err != nil {
		return TrainResult{}, err
	}

	n, d := args.X.Dims()

	ws := make([]float64, d)
	c.init.Fill(ws, d, 1)
	c.w = mat.NewDense(d, 1, ws)

	var res Result
	for e := 1; e <= c.cfg.MaxEpochs; e++ {
		eta := c.cfg.LearningRate.Value(e)

		var O mat.Dense
		O.Mul(args.X, c.w)

		acc, err := Accuracy(&O, args.T, 0)
		if err != nil {
			return TrainResult{}, errors.Wrapf(err, "Computing accuracy for epoch %d failed", e)
		}
		res = Result{Epoch: e, Accuracy: acc, Cost: meanSquaredError(&O, args.T)}

		if args.Update != nil {
			args.Update(res)
		}

		// No update once the set is classified perfectly; the returned weights
		// are the ones the reported accuracy was measured on.
		if acc == 1 {
			return TrainResult{Converged, e, acc}, nil
		}

		if c.cfg.Sequential {
			// One pass of per-sample updates, in row order.
			for i := 0; i < n; i++ {
				var o float64
				for j := 0; j < d; j++ {
					o += args.X.At(i, j) * c.w.At(j, 0)
				}
				diff := o - args.T.At(i, 0)
				for j := 0; j < d; j++ {
					c.w.Set(j, 0, c.w.At(j, 0)-eta*diff*args.X.At(i, j))
				}
			}
		} else {
			// W -= eta * X^T * (O - T), the full-batch step.
			var diff, dw mat.Dense
			diff.Sub(&O, args.T)
			dw.Mul(args.X.T(), &diff)
			dw.Scale(eta, &dw)
			c.w.Sub(c.w, &dw)
		}

		if !isFinite(c.w) {
			return TrainResult{}, NonFiniteError{"W", e}
		}
	}

	return TrainResult{Exhausted, c.cfg.MaxEpochs, res.Accuracy}, nil
}

// Output returns the raw linear outputs X*W, one row per observation. Feed them to
// Predict for class labels.
func (c *DeltaRule) Output(X *mat.Dense) (*mat.Dense, error) {
	if c.w == nil {
		return nil, ErrNotTrained
	}
	if X == nil {
		return nil, ErrNilData
	}

	_, d := X.Dims()
	if wd, _ := c.w.Dims(); wd != d {
		return nil, SizeMismatchError{wd, d, "input columns"}
	}

	var O mat.Dense
	O.Mul(X, c.w)
	return &O, nil
}

// Weights returns the weight vector; nil before training. It is the classifier's
// own state, not a copy.
func (c *DeltaRule) Weights() *mat.Dense {
	return c.w
}

// checkSingleOutput validates X against an n x 1 target matrix.
func checkSingleOutput(X, T *mat.Dense) error {
	if X == nil || T == nil {
		return ErrNilData
	}

	n, _ := X.Dims()
	if n < 1 {
		return ErrEmptyData
	}

	if tn, _ := T.Dims(); tn != n {
		return SizeMismatchError{n, tn, "target rows"}
	}
	if _, tk := T.Dims(); tk != 1 {
		return SizeMismatchError{1, tk, "target columns"}
	}

	return nil
}
