// Package initializers provides weight initialization strategies for the anns
// classifiers. A variance-scaled normal distribution is the default everywhere:
// sampling with standard deviation 1/sqrt(fan-in) keeps the pre-activation variance
// roughly constant regardless of layer width, so the bounded transfer functions do
// not start out saturated.
package initializers

import (
	"math/rand"
)

// RNG generates the individual weight values used by Random.
type RNG interface {
	Gen() float64
}

type uniform struct {
	lower, upper float64
	src          *rand.Rand
}

// Uniform returns an RNG that gives values uniformly spread between its bounds,
// which default to (-1, 1) and can be set by Bounds.
func Uniform() *uniform {
	return &uniform{lower: -1, upper: 1}
}

// Bounds sets the range of a Uniform RNG, returning it.
func (u *uniform) Bounds(lower, upper float64) *uniform {
	u.lower = lower
	u.upper = upper
	return u
}

// Source sets the random source, returning the RNG. If no source is set, the global
// math/rand source is used.
func (u *uniform) Source(src *rand.Rand) *uniform {
	u.src = src
	return u
}

// Gen is the implementation of RNG for Uniform.
func (u *uniform) Gen() float64 {
	return u.float()*(u.upper-u.lower) + u.lower
}

func (u *uniform) float() float64 {
	if u.src != nil {
		return u.src.Float64()
	}
	return rand.Float64()
}

type normal struct {
	mean, sd float64
	src      *rand.Rand
}

// Normal returns an RNG drawing from a normal distribution, defaulting to zero mean
// and unit standard deviation.
func Normal() *normal {
	return &normal{mean: 0, sd: 1}
}

// Mean sets the mean of a Normal RNG, returning it.
func (n *normal) Mean(mean float64) *normal {
	n.mean = mean
	return n
}

// SD sets the standard deviation of a Normal RNG, returning it.
func (n *normal) SD(sd float64) *normal {
	n.sd = sd
	return n
}

// Source sets the random source, returning the RNG. If no source is set, the global
// math/rand source is used.
func (n *normal) Source(src *rand.Rand) *normal {
	n.src = src
	return n
}

// Gen is the implementation of RNG for Normal.
func (n *normal) Gen() float64 {
	if n.src != nil {
		return n.src.NormFloat64()*n.sd + n.mean
	}
	return rand.NormFloat64()*n.sd + n.mean
}
