// Lab 2: radial-basis-function networks and self-organizing maps.
//
// Pick an experiment with -run:
//
//	lab2 -run rbf-ls        least-squares RBF fit of sin(2x)
//	lab2 -run rbf-delta     delta-rule RBF fit of square(2x)
//	lab2 -run rbf-cl        least-squares fit with competitive learning
//	lab2 -run som-ordering  topological ordering of feature vectors
//	lab2 -run som-tour      circular tour through points in the plane
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/bt-s/dd2437-anns/rbf"
	"github.com/bt-s/dd2437-anns/som"
)

func main() {
	run := flag.String("run", "rbf-ls", "experiment to run: rbf-ls, rbf-delta, rbf-cl, som-ordering, som-tour")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	switch *run {
	case "rbf-ls":
		runRBF(rbf.Config{Units: 30, Solver: rbf.LeastSquares, Seed: *seed}, sin2)
	case "rbf-delta":
		runRBF(rbf.Config{
			Units: 30, Solver: rbf.DeltaRule,
			LearningRate: 0.001, Epochs: 5000, Seed: *seed,
		}, square2)
	case "rbf-cl":
		runRBF(rbf.Config{
			Units: 30, Solver: rbf.LeastSquares,
			CL: true, CLStrategy: 1, CLIterations: 50, LearningRate: 0.001,
			Seed: *seed,
		}, sin2)
	case "som-ordering":
		runSOMOrdering(*seed)
	case "som-tour":
		runSOMTour(*seed)
	default:
		log.Fatalf("unknown experiment %q", *run)
	}
}

func sin2(x float64) float64 { return math.Sin(2 * x) }

// square2 is the square wave matching sin(2x)'s sign.
func square2(x float64) float64 {
	if math.Sin(2*x) >= 0 {
		return 1
	}
	return -1
}

// runRBF fits the given target function on [0, 2pi) sampled at 0.1 intervals and
// reports the residual error on a shifted test grid.
func runRBF(cfg rbf.Config, target func(float64) float64) {
	var train, test []float64
	for x := 0.0; x < 2*math.Pi; x += 0.1 {
		train = append(train, x)
		test = append(test, x+0.05)
	}

	f := make([]float64, len(train))
	for i, x := range train {
		f[i] = target(x)
	}

	net, err := rbf.New(cfg)
	if err != nil {
		log.Fatalf("building network: %v", err)
	}

	if err := net.Train(train, f, 0.1); err != nil {
		log.Fatalf("training: %v", err)
	}

	pred, err := net.Predict(test)
	if err != nil {
		log.Fatalf("predicting: %v", err)
	}

	want := make([]float64, len(test))
	for i, x := range test {
		want[i] = target(x)
	}

	fmt.Printf("units=%d solver=%s test error=%.5f\n", cfg.Units, cfg.Solver, rbf.TotalError(want, pred))
}

// runSOMOrdering orders random feature vectors along a 1-D map, the lab's
// animal-ordering experiment on synthetic data.
func runSOMOrdering(seed int64) {
	src := rand.New(rand.NewSource(seed))

	// 32 items with 84 binary features, like the animal dataset.
	const items, features = 32, 84
	X := mat.NewDense(items, features, nil)
	for i := 0; i < items; i++ {
		for j := 0; j < features; j++ {
			if src.Float64() < 0.5 {
				X.Set(i, j, 1)
			}
		}
	}

	m, err := som.New(som.Config{
		Units: 100, Epochs: 20, InitialNeighborhood: 50, Seed: seed,
	})
	if err != nil {
		log.Fatalf("building map: %v", err)
	}

	if err := m.Train(X); err != nil {
		log.Fatalf("training: %v", err)
	}

	order, err := m.Order(X)
	if err != nil {
		log.Fatalf("ordering: %v", err)
	}

	idx := make([]int, items)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return order[idx[a]] < order[idx[b]] })

	fmt.Println("topological ordering (item: unit):")
	for _, i := range idx {
		fmt.Printf("item %2d: unit %d\n", i, order[i])
	}
}

// runSOMTour runs the circular-topology map over random city coordinates, the
// lab's travelling-salesman experiment.
func runSOMTour(seed int64) {
	src := rand.New(rand.NewSource(seed))

	const cities = 10
	X := mat.NewDense(cities, 2, nil)
	for i := 0; i < cities; i++ {
		X.Set(i, 0, src.Float64())
		X.Set(i, 1, src.Float64())
	}

	m, err := som.New(som.Config{
		Units: 10, Epochs: 40, InitialNeighborhood: 2, Circular: true, Seed: seed,
	})
	if err != nil {
		log.Fatalf("building map: %v", err)
	}

	if err := m.Train(X); err != nil {
		log.Fatalf("training: %v", err)
	}

	order, err := m.Order(X)
	if err != nil {
		log.Fatalf("ordering: %v", err)
	}

	idx := make([]int, cities)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return order[idx[a]] < order[idx[b]] })

	fmt.Println("tour:")
	var length float64
	for i, c := range idx {
		fmt.Printf("city %d at (%.3f, %.3f)\n", c, X.At(c, 0), X.At(c, 1))
		prev := idx[(i+len(idx)-1)%len(idx)]
		dx := X.At(c, 0) - X.At(prev, 0)
		dy := X.At(c, 1) - X.At(prev, 1)
		length += math.Hypot(dx, dy)
	}
	fmt.Printf("tour length %.3f\n", length)
}
