package initializers

import (
	"math"
	"math/rand"
)

type random struct {
	RNG
}

// Random returns an initializer that uses the provided RNG to generate the weights,
// with no scaling beyond that of the RNG itself.
func Random(g RNG) random {
	return random{g}
}

// Fill implements anns.Initializer.
func (r random) Fill(ws []float64, fanIn, fanOut int) {
	for i := range ws {
		ws[i] = r.Gen()
	}
}

type varianceScaling struct {
	// either: "in", "out", "avg"
	mode   string
	factor float64
	src    *rand.Rand
}

// VarianceScaling returns an initializer sampling from a zero-mean normal
// distribution whose standard deviation is sqrt(factor/fan), where the fan is chosen
// by In, Out, or Avg. It defaults to In with factor 1, i.e. sd = 1/sqrt(fan-in).
func VarianceScaling() *varianceScaling {
	return &varianceScaling{mode: "in", factor: 1}
}

// Factor sets the scaling factor used by the initializer.
func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

// In sets the scaling to be based on the number of input values to the layer.
func (v *varianceScaling) In() *varianceScaling {
	v.mode = "in"
	return v
}

// Out sets the scaling to be based on the number of output values of the layer.
func (v *varianceScaling) Out() *varianceScaling {
	v.mode = "out"
	return v
}

// Avg sets the scaling to be based on the average of the numbers of input and output
// values of the layer.
func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = "avg"
	return v
}

// Source sets the random source, returning the initializer. If no source is set, the
// global math/rand source is used.
func (v *varianceScaling) Source(src *rand.Rand) *varianceScaling {
	v.src = src
	return v
}

// Fill implements anns.Initializer.
func (v *varianceScaling) Fill(ws []float64, fanIn, fanOut int) {
	var scale float64
	if v.mode == "in" {
		scale = float64(fanIn)
	} else if v.mode == "out" {
		scale = float64(fanOut)
	} else { // must be "avg"
		scale = float64(fanIn+fanOut) / 2
	}

	gen := Normal().SD(math.Sqrt(v.factor / scale)).Source(v.src)

	for i := range ws {
		ws[i] = gen.Gen()
	}
}
