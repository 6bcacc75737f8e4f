package anns

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/bt-s/dd2437-anns/initializers"
)

// SingleLayerPerceptron is a single-layer classifier trained with the perceptron
// learning rule: samples are visited one at a time and the weights move only when a
// sample is misclassified. Unlike the delta rule there is no error magnitude in the
// update, just the direction of the mistake.
type SingleLayerPerceptron struct {
	cfg  DeltaRuleConfig
	init Initializer

	w *mat.Dense // d x 1; nil until trained
}

// NewSingleLayerPerceptron validates the config and returns an untrained
// classifier. The Sequential field is ignored; the perceptron rule is always
// per-sample.
func NewSingleLayerPerceptron(cfg DeltaRuleConfig) (*SingleLayerPerceptron, error) {
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

	return &SingleLayerPerceptron{cfg: cfg, init: init}, nil
}

// Train re-initializes the weights and runs epochs until the training set is
// classified perfectly or the epoch budget is exhausted.
func (c *SingleLayerPerceptron) Train(args TrainArgs) (TrainResult, error) {
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

		var mistakes int
		for i := 0; i < n; i++ {
			var o float64
			for j := 0; j < d; j++ {
				o += args.X.At(i, j) * c.w.At(j, 0)
			}

			label := -1.0
			if o >= 0 {
				label = 1
			}

			t := args.T.At(i, 0)
			if label != t {
				mistakes++
				for j := 0; j < d; j++ {
					c.w.Set(j, 0, c.w.At(j, 0)+eta*t*args.X.At(i, j))
				}
			}
		}

		acc := float64(n-mistakes) / float64(n)
		res = Result{Epoch: e, Accuracy: acc}

		if args.Update != nil {
			args.Update(res)
		}

		if mistakes == 0 {
			return TrainResult{Converged, e, acc}, nil
		}
	}

	return TrainResult{Exhausted, c.cfg.MaxEpochs, res.Accuracy}, nil
}

// Output returns the raw linear outputs X*W, one row per observation.
func (c *SingleLayerPerceptron) Output(X *mat.Dense) (*mat.Dense, error) {
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

// Weights returns the weight vector; nil before training.
func (c *SingleLayerPerceptron) Weights() *mat.Dense {
	return c.w
}
