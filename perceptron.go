package anns

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/bt-s/dd2437-anns/initializers"
)

// Initializer dictates how the weights of a layer are set before training, given a
// blank slice to hold them and the layer's fan-in and fan-out.
type Initializer interface {
	Fill(ws []float64, fanIn, fanOut int)
}

// Outcome is the terminal state of a training run.
type Outcome int

const (
	// Converged means every training example was classified correctly.
	Converged Outcome = iota

	// Exhausted means the epoch budget ran out first. This is a normal, reportable
	// outcome, not an error.
	Exhausted
)

func (o Outcome) String() string {
	if o == Converged {
		return "converged"
	}
	return "exhausted"
}

// Result reports the state of training after a single epoch.
type Result struct {
	// Epoch is the 1-based index of the completed epoch.
	Epoch int

	// Accuracy is the fraction of training examples classified correctly by the
	// epoch's forward pass, thresholding the outputs at zero.
	Accuracy float64

	// Cost is the mean squared error of the epoch's forward pass.
	Cost float64
}

// TrainResult reports the terminal state of a training run.
type TrainResult struct {
	Outcome  Outcome
	Epochs   int
	Accuracy float64
}

// TrainArgs bundles the arguments to Train.
type TrainArgs struct {
	// X is the input matrix, one observation per row. It may carry an appended
	// constant-one column for bias (see toydata.Merge). Borrowed, never mutated.
	X *mat.Dense

	// T is the target matrix, row-aligned with X, values in {-1, +1}. Borrowed,
	// never mutated.
	T *mat.Dense

	// Update, if not nil, is called once per completed epoch with that epoch's
	// Result, in order. Useful for logging accuracy curves.
	Update func(Result)
}

// PerceptronConfig configures a TwoLayerPerceptron.
type PerceptronConfig struct {
	// Hidden is the width of the hidden layer.
	Hidden int

	// Outputs is the width of the output layer. Defaults to 1.
	Outputs int

	// MaxEpochs is the epoch budget for a single Train run.
	MaxEpochs int

	// LearningRate provides the gradient-descent step size per epoch.
	LearningRate Schedule

	// Seed seeds the weight initialization, making runs reproducible.
	Seed int64

	// Init overrides the default weight initializer, a zero-mean normal with
	// standard deviation 1/sqrt(fan-in). If Init is set, Seed has no effect.
	Init Initializer
}

// TwoLayerPerceptron is a one-hidden-layer network trained with backpropagation
// (the generalized delta rule) in full-batch mode: every weight update uses the
// error aggregated over all observations at once.
//
// The transfer function of both layers is the symmetric sigmoid Phi, so hidden and
// output activations always lie strictly within (-1, 1). Classification thresholds
// the output at zero.
type TwoLayerPerceptron struct {
	cfg  PerceptronConfig
	init Initializer

	// v maps input space to hidden space (d x h); w maps hidden space to output
	// space (h x k). Both are nil until the first epoch runs.
	v, w *mat.Dense

	// iter counts completed epochs since the weights were last initialized.
	iter int
}

// NewTwoLayerPerceptron validates the config and returns an untrained classifier.
func NewTwoLayerPerceptron(cfg PerceptronConfig) (*TwoLayerPerceptron, error) {
	if cfg.Hidden < 1 {
		return nil, errors.Errorf("Hidden must be at least 1 (got %d)", cfg.Hidden)
	}
	if cfg.Outputs == 0 {
		cfg.Outputs = 1
	} else if cfg.Outputs < 0 {
		return nil, errors.Errorf("Outputs must be at least 1 (got %d)", cfg.Outputs)
	}
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

	return &TwoLayerPerceptron{cfg: cfg, init: init}, nil
}

// initWeights samples fresh weight matrices for an input dimensionality of d.
func (p *TwoLayerPerceptron) initWeights(d int) {
	h, k := p.cfg.Hidden, p.cfg.Outputs

	v := make([]float64, d*h)
	p.init.Fill(v, d, h)
	p.v = mat.NewDense(d, h, v)

	w := make([]float64, h*k)
	p.init.Fill(w, h, k)
	p.w = mat.NewDense(h, k, w)

	p.iter = 0
}

// checkData validates X against T and against the current weights, before anything
// is mutated.
func (p *TwoLayerPerceptron) checkData(X, T *mat.Dense) error {
	if X == nil || T == nil {
		return ErrNilData
	}

	n, d := X.Dims()
	if n < 1 {
		return ErrEmptyData
	}

	if tn, _ := T.Dims(); tn != n {
		return SizeMismatchError{n, tn, "target rows"}
	}
	if _, tk := T.Dims(); tk != p.cfg.Outputs {
		return SizeMismatchError{p.cfg.Outputs, tk, "target columns"}
	}

	if p.v != nil {
		if vd, _ := p.v.Dims(); vd != d {
			return SizeMismatchError{vd, d, "input columns"}
		}
	}

	return nil
}

// Forward runs the forward pass H = Phi(X*V), O = Phi(H*W) and returns both
// activation matrices. The weights are read, never written; the returned matrices
// are freshly allocated. Forward returns ErrNotTrained if no epoch has run yet.
func (p *TwoLayerPerceptron) Forward(X *mat.Dense) (H, O *mat.Dense, err error) {
	if p.v == nil {
		return nil, nil, ErrNotTrained
	}
	if X == nil {
		return nil, nil, ErrNilData
	}

	_, d := X.Dims()
	if vd, _ := p.v.Dims(); vd != d {
		return nil, nil, SizeMismatchError{vd, d, "input columns"}
	}

	var h, o mat.Dense
	h.Mul(X, p.v)
	h.Apply(func(_, _ int, z float64) float64 { return Phi(z) }, &h)
	o.Mul(&h, p.w)
	o.Apply(func(_, _ int, z float64) float64 { return Phi(z) }, &o)

	return &h, &o, nil
}

// Epoch runs a single epoch over the full batch: forward pass, error
// backpropagation, gradient-descent weight update. It returns the epoch's accuracy
// and cost, computed from the forward pass; if that pass already classifies every
// example correctly the weights are left untouched. On the first call the weights
// are initialized from the input dimensionality; subsequent calls continue from the
// current weights, so a caller can implement its own stopping rule around Epoch.
func (p *TwoLayerPerceptron) Epoch(X, T *mat.Dense) (Result, error) {
	return p.epoch(X, T, p.iter+1)
}

func (p *TwoLayerPerceptron) epoch(X, T *mat.Dense, num int) (Result, error) {
	if err := p.checkData(X, T); err != nil {
		return Result{}, err
	}

	if p.v == nil {
		_, d := X.Dims()
		p.initWeights(d)
	}

	// Forward: H = Phi(X*V), O = Phi(H*W).
	var H, O mat.Dense
	H.Mul(X, p.v)
	H.Apply(func(_, _ int, z float64) float64 { return Phi(z) }, &H)
	O.Mul(&H, p.w)
	O.Apply(func(_, _ int, z float64) float64 { return Phi(z) }, &O)

	acc, err := Accuracy(&O, T, 0)
	if err != nil {
		return Result{}, errors.Wrapf(err, "Computing accuracy for epoch %d failed", num)
	}

	res := Result{Epoch: num, Accuracy: acc, Cost: meanSquaredError(&O, T)}

	// A perfectly classified set gets no update, so the reported accuracy is the
	// accuracy of the weights the caller ends up with.
	if acc == 1 {
		p.iter = num
		return res, nil
	}

	// Backward: deltaO = (O - T) .* Phi'(O), deltaH = (deltaO * W^T) .* Phi'(H).
	var deltaO mat.Dense
	deltaO.Sub(&O, T)
	deltaO.Apply(func(i, j int, e float64) float64 {
		return e * PhiPrime(O.At(i, j))
	}, &deltaO)

	var deltaH mat.Dense
	deltaH.Mul(&deltaO, p.w.T())
	deltaH.Apply(func(i, j int, e float64) float64 {
		return e * PhiPrime(H.At(i, j))
	}, &deltaH)

	// Update: V -= eta * X^T * deltaH, W -= eta * H^T * deltaO.
	eta := p.cfg.LearningRate.Value(num)

	var dv mat.Dense
	dv.Mul(X.T(), &deltaH)
	dv.Scale(eta, &dv)
	p.v.Sub(p.v, &dv)

	var dw mat.Dense
	dw.Mul(H.T(), &deltaO)
	dw.Scale(eta, &dw)
	p.w.Sub(p.w, &dw)

	if !isFinite(p.v) {
		return Result{}, NonFiniteError{"V", num}
	}
	if !isFinite(p.w) {
		return Result{}, NonFiniteError{"W", num}
	}

	p.iter = num
	return res, nil
}

// Train re-initializes the weights and runs epochs until every training example is
// classified correctly or the epoch budget is exhausted. Only the terminal state is
// returned; per-epoch progress goes through args.Update if set.
func (p *TwoLayerPerceptron) Train(args TrainArgs) (TrainResult, error) {
	if err := p.checkData(args.X, args.T); err != nil {
		return TrainResult{}, err
	}

	// Fresh weights once per training run.
	_, d := args.X.Dims()
	p.initWeights(d)

	var res Result
	var err error
	for e := 1; e <= p.cfg.MaxEpochs; e++ {
		if res, err = p.epoch(args.X, args.T, e); err != nil {
			return TrainResult{}, errors.Wrapf(err, "Epoch %d failed", e)
		}

		if args.Update != nil {
			args.Update(res)
		}

		if res.Accuracy == 1 {
			return TrainResult{Converged, e, res.Accuracy}, nil
		}
	}

	return TrainResult{Exhausted, p.cfg.MaxEpochs, res.Accuracy}, nil
}

// Weights returns the input-to-hidden and hidden-to-output weight matrices. They are
// the classifier's own state, not copies; both are nil before the first epoch.
func (p *TwoLayerPerceptron) Weights() (V, W *mat.Dense) {
	return p.v, p.w
}

func isFinite(m *mat.Dense) bool {
	for _, v := range m.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func meanSquaredError(O, T *mat.Dense) float64 {
	n, k := O.Dims()

	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			d := O.At(i, j) - T.At(i, j)
			sum += 0.5 * d * d
		}
	}

	return sum / float64(n*k)
}
