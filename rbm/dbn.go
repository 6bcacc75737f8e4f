package rbm

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	anns "github.com/bt-s/dd2437-anns"
)

// DBNConfig configures a DBN. The network is the three-machine stack
//
//	[top] <---> [pen] ---> [hid] ---> [vis]
//	        `-> [lbl]
//
// where the label units are visible units of the top machine alongside the
// penultimate layer.
type DBNConfig struct {
	// Visible, Hidden, Penultimate and Top are the layer sizes.
	Visible, Hidden, Penultimate, Top int

	// Labels is the number of label categories, one-hot coded.
	Labels int

	// LearningRate and BatchSize are passed to every machine in the stack.
	LearningRate float64
	BatchSize    int

	// GibbsRecog is the number of alternating Gibbs steps run in the top machine
	// during recognition. Defaults to 15.
	GibbsRecog int

	// Seed seeds all machines in the stack.
	Seed int64
}

// DBN is a deep belief net: a stack of RBMs trained greedily layer by layer, with
// the labels joined to the penultimate layer as visible units of the top machine.
type DBN struct {
	cfg DBNConfig

	visHid, hidPen, top *RBM
}

// NewDBN validates the config and builds the untrained stack.
func NewDBN(cfg DBNConfig) (*DBN, error) {
	if cfg.Labels < 2 {
		return nil, errors.Errorf("Labels must be at least 2 (got %d)", cfg.Labels)
	}
	if cfg.GibbsRecog == 0 {
		cfg.GibbsRecog = 15
	} else if cfg.GibbsRecog < 0 {
		return nil, errors.Errorf("GibbsRecog must be positive (got %d)", cfg.GibbsRecog)
	}

	visHid, err := New(Config{
		Visible: cfg.Visible, Hidden: cfg.Hidden,
		LearningRate: cfg.LearningRate, BatchSize: cfg.BatchSize, Seed: cfg.Seed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Building vis--hid failed")
	}

	hidPen, err := New(Config{
		Visible: cfg.Hidden, Hidden: cfg.Penultimate,
		LearningRate: cfg.LearningRate, BatchSize: cfg.BatchSize, Seed: cfg.Seed + 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Building hid--pen failed")
	}

	top, err := New(Config{
		Visible: cfg.Penultimate + cfg.Labels, Hidden: cfg.Top,
		LearningRate: cfg.LearningRate, BatchSize: cfg.BatchSize, Seed: cfg.Seed + 2,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Building pen+lbl--top failed")
	}

	return &DBN{cfg: cfg, visHid: visHid, hidPen: hidPen, top: top}, nil
}

// TrainGreedy trains the stack layer by layer: the bottom machine on the data, the
// middle machine on the bottom machine's hidden probabilities, and the top machine
// on the middle machine's hidden probabilities joined with the one-hot labels. Once
// a machine is trained its weights are frozen under the layers stacked on top. If
// update is not nil it receives each machine's per-iteration Results, tagged with
// the machine's name.
func (d *DBN) TrainGreedy(X, labels *mat.Dense, iterations int, update func(stage string, res Result)) error {
	if X == nil || labels == nil {
		return anns.ErrNilData
	}

	n, _ := X.Dims()
	if ln, lk := labels.Dims(); ln != n {
		return anns.SizeMismatchError{Expected: n, Got: ln, What: "label rows"}
	} else if lk != d.cfg.Labels {
		return anns.SizeMismatchError{Expected: d.cfg.Labels, Got: lk, What: "label columns"}
	}

	stage := func(name string) func(Result) {
		if update == nil {
			return nil
		}
		return func(res Result) { update(name, res) }
	}

	if err := d.visHid.CD1(X, iterations, stage("vis--hid")); err != nil {
		return errors.Wrap(err, "Training vis--hid failed")
	}
	hid := d.visHid.HiddenProbs(X)

	if err := d.hidPen.CD1(hid, iterations, stage("hid--pen")); err != nil {
		return errors.Wrap(err, "Training hid--pen failed")
	}
	pen := d.hidPen.HiddenProbs(hid)

	joined := joinColumns(pen, labels)
	if err := d.top.CD1(joined, iterations, stage("pen+lbl--top")); err != nil {
		return errors.Wrap(err, "Training pen+lbl--top failed")
	}

	return nil
}

// Recognize classifies the data and returns the accuracy against the one-hot
// labels, which drive nothing: the net starts from an uninformative label guess and
// lets alternating Gibbs sampling in the top machine settle on one.
func (d *DBN) Recognize(X, labels *mat.Dense) (float64, error) {
	if X == nil || labels == nil {
		return 0, anns.ErrNilData
	}

	n, _ := X.Dims()
	if ln, _ := labels.Dims(); ln != n {
		return 0, anns.SizeMismatchError{Expected: n, Got: ln, What: "label rows"}
	}

	// Drive the data up to the penultimate layer, deterministically.
	pen := d.hidPen.HiddenProbs(d.visHid.HiddenProbs(X))

	// Start knowing nothing about the labels.
	lbl := mat.NewDense(n, d.cfg.Labels, nil)
	lbl.Apply(func(_, _ int, _ float64) float64 { return 1 / float64(d.cfg.Labels) }, lbl)

	joined := joinColumns(pen, lbl)
	for g := 0; g < d.cfg.GibbsRecog; g++ {
		hidden := d.top.sample(d.top.HiddenProbs(joined))
		visible := d.top.VisibleProbs(hidden)

		// The penultimate part stays clamped to the data; only the label part of
		// the visible layer is free to move.
		for i := 0; i < n; i++ {
			for j := 0; j < d.cfg.Labels; j++ {
				joined.Set(i, d.cfg.Penultimate+j, visible.At(i, d.cfg.Penultimate+j))
			}
		}
	}

	var correct int
	for i := 0; i < n; i++ {
		if argmaxRow(joined, i, d.cfg.Penultimate, d.cfg.Labels) == argmaxRow(labels, i, 0, d.cfg.Labels) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// joinColumns returns [a | b], row-aligned.
func joinColumns(a, b *mat.Dense) *mat.Dense {
	n, ka := a.Dims()
	_, kb := b.Dims()

	out := mat.NewDense(n, ka+kb, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < ka; j++ {
			out.Set(i, j, a.At(i, j))
		}
		for j := 0; j < kb; j++ {
			out.Set(i, ka+j, b.At(i, j))
		}
	}
	return out
}

// argmaxRow returns the offset of the largest value in m[i, start:start+width].
func argmaxRow(m *mat.Dense, i, start, width int) int {
	best, bestVal := 0, m.At(i, start)
	for j := 1; j < width; j++ {
		if v := m.At(i, start+j); v > bestVal {
			best, bestVal = j, v
		}
	}
	return best
}
