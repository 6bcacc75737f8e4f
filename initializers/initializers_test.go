package initializers

import (
	"math"
	"math/rand"
	"testing"
)

func TestUniformBounds(t *testing.T) {
	g := Uniform().Bounds(-0.5, 0.5).Source(rand.New(rand.NewSource(1)))

	for i := 0; i < 1000; i++ {
		if v := g.Gen(); v < -0.5 || v >= 0.5 {
			t.Fatalf("value %v outside [-0.5, 0.5)", v)
		}
	}
}

func TestNormalMoments(t *testing.T) {
	g := Normal().Mean(2).SD(0.5).Source(rand.New(rand.NewSource(2)))

	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := g.Gen()
		sum += v
		sumSq += v * v
	}

	mean := sum / n
	sd := math.Sqrt(sumSq/n - mean*mean)

	if math.Abs(mean-2) > 0.05 {
		t.Fatalf("sample mean %v, want about 2", mean)
	}
	if math.Abs(sd-0.5) > 0.05 {
		t.Fatalf("sample sd %v, want about 0.5", sd)
	}
}

// TestVarianceScalingSD checks that fan-in scaling yields the 1/sqrt(fanIn)
// standard deviation that keeps the pre-activations of a wide layer from
// saturating.
func TestVarianceScalingSD(t *testing.T) {
	const fanIn, fanOut = 16, 4

	ws := make([]float64, 40000)
	VarianceScaling().In().Source(rand.New(rand.NewSource(3))).Fill(ws, fanIn, fanOut)

	var sum, sumSq float64
	for _, v := range ws {
		sum += v
		sumSq += v * v
	}

	n := float64(len(ws))
	mean := sum / n
	sd := math.Sqrt(sumSq/n - mean*mean)

	want := 1 / math.Sqrt(fanIn)
	if math.Abs(mean) > 0.01 {
		t.Fatalf("sample mean %v, want about 0", mean)
	}
	if math.Abs(sd-want) > 0.01 {
		t.Fatalf("sample sd %v, want about %v", sd, want)
	}
}

func TestVarianceScalingModes(t *testing.T) {
	const fanIn, fanOut = 100, 25
	src := func() *rand.Rand { return rand.New(rand.NewSource(4)) }

	sdOf := func(v *varianceScaling) float64 {
		ws := make([]float64, 40000)
		v.Fill(ws, fanIn, fanOut)

		var sumSq float64
		for _, w := range ws {
			sumSq += w * w
		}
		return math.Sqrt(sumSq / float64(len(ws)))
	}

	cases := []struct {
		name string
		init *varianceScaling
		want float64
	}{
		{"in", VarianceScaling().In().Source(src()), 1 / math.Sqrt(fanIn)},
		{"out", VarianceScaling().Out().Source(src()), 1 / math.Sqrt(fanOut)},
		{"avg", VarianceScaling().Avg().Source(src()), 1 / math.Sqrt((fanIn+fanOut)/2.0)},
		{"factor", VarianceScaling().In().Factor(2).Source(src()), math.Sqrt(2.0 / fanIn)},
	}

	for _, c := range cases {
		if got := sdOf(c.init); math.Abs(got-c.want) > 0.01 {
			t.Errorf("%s: sample sd %v, want about %v", c.name, got, c.want)
		}
	}
}

func TestRandomFillsEveryWeight(t *testing.T) {
	ws := make([]float64, 100)
	Random(Uniform().Bounds(1, 2).Source(rand.New(rand.NewSource(5)))).Fill(ws, 10, 10)

	for i, v := range ws {
		if v < 1 || v >= 2 {
			t.Fatalf("weight %d is %v, outside [1, 2)", i, v)
		}
	}
}
