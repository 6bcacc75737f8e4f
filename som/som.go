// Package som implements a one-dimensional self-organizing map (Kohonen network).
// Units live on a line (or a ring, for the travelling-salesman experiment); each
// input is pulled toward its best-matching unit and that unit's neighbours, with a
// neighbourhood that shrinks to zero over the training epochs. After training, the
// winner indices of the inputs give a topological ordering of the data.
package som

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	anns "github.com/bt-s/dd2437-anns"
	"github.com/bt-s/dd2437-anns/initializers"
)

// Config configures a SOM.
type Config struct {
	// Units is the number of map units.
	Units int

	// Epochs is the number of passes over the data.
	Epochs int

	// LearningRate is the step size toward a sample. Defaults to 0.2.
	LearningRate float64

	// InitialNeighborhood is the starting neighbourhood radius, in units along the
	// map. It decays linearly to zero over the epochs.
	InitialNeighborhood int

	// Circular joins the ends of the map into a ring, used for the circular tour
	// experiment.
	Circular bool

	// Seed seeds the weight initialization.
	Seed int64
}

// SOM is a self-organizing map.
type SOM struct {
	cfg Config
	src *rand.Rand

	// w holds one prototype vector per unit (Units x d); nil until trained.
	w *mat.Dense
}

// New validates the config and returns an untrained map.
func New(cfg Config) (*SOM, error) {
	if cfg.Units < 1 {
		return nil, errors.Errorf("Units must be at least 1 (got %d)", cfg.Units)
	}
	if cfg.Epochs < 1 {
		return nil, errors.Errorf("Epochs must be at least 1 (got %d)", cfg.Epochs)
	}
	if cfg.InitialNeighborhood < 0 {
		return nil, errors.Errorf("InitialNeighborhood must not be negative (got %d)", cfg.InitialNeighborhood)
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.2
	} else if cfg.LearningRate < 0 {
		return nil, errors.Errorf("LearningRate must be positive (got %v)", cfg.LearningRate)
	}

	return &SOM{cfg: cfg, src: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// Train initializes the prototypes uniformly at random in [0, 1) and runs the
// shrinking-neighbourhood updates, one pass over the rows of X per epoch.
func (s *SOM) Train(X *mat.Dense) error {
	if X == nil {
		return anns.ErrNilData
	}

	n, d := X.Dims()
	if n < 1 {
		return anns.ErrEmptyData
	}

	ws := make([]float64, s.cfg.Units*d)
	initializers.Random(initializers.Uniform().Bounds(0, 1).Source(s.src)).Fill(ws, d, s.cfg.Units)
	s.w = mat.NewDense(s.cfg.Units, d, ws)

	for e := 0; e < s.cfg.Epochs; e++ {
		radius := s.radius(e)

		for i := 0; i < n; i++ {
			win := s.winner(X, i)

			for off := -radius; off <= radius; off++ {
				u := win + off
				if s.cfg.Circular {
					u = ((u % s.cfg.Units) + s.cfg.Units) % s.cfg.Units
				} else if u < 0 || u >= s.cfg.Units {
					continue
				}

				for j := 0; j < d; j++ {
					w := s.w.At(u, j)
					s.w.Set(u, j, w+s.cfg.LearningRate*(X.At(i, j)-w))
				}
			}
		}
	}

	return nil
}

// radius returns the neighbourhood radius for epoch e: the full initial radius on
// the first epoch, decaying linearly to zero on the last so the final epochs refine
// the winners alone.
func (s *SOM) radius(e int) int {
	if s.cfg.Epochs == 1 {
		return 0
	}
	frac := 1 - float64(e)/float64(s.cfg.Epochs-1)
	return int(math.Round(float64(s.cfg.InitialNeighborhood) * frac))
}

// winner returns the index of the unit closest to row i of X, by squared
// Euclidean distance.
func (s *SOM) winner(X *mat.Dense, i int) int {
	_, d := X.Dims()

	best, bestDist := 0, math.Inf(1)
	for u := 0; u < s.cfg.Units; u++ {
		var dist float64
		for j := 0; j < d; j++ {
			diff := X.At(i, j) - s.w.At(u, j)
			dist += diff * diff
		}
		if dist < bestDist {
			best, bestDist = u, dist
		}
	}

	return best
}

// Order maps each row of X to the index of its best-matching unit. Sorting rows by
// the returned indices gives the map's topological ordering of the data.
func (s *SOM) Order(X *mat.Dense) ([]int, error) {
	if s.w == nil {
		return nil, anns.ErrNotTrained
	}
	if X == nil {
		return nil, anns.ErrNilData
	}

	n, d := X.Dims()
	if _, wd := s.w.Dims(); wd != d {
		return nil, anns.SizeMismatchError{Expected: wd, Got: d, What: "input columns"}
	}

	order := make([]int, n)
	for i := 0; i < n; i++ {
		order[i] = s.winner(X, i)
	}

	return order, nil
}

// Weights returns the prototype matrix; nil before training.
func (s *SOM) Weights() *mat.Dense {
	return s.w
}
