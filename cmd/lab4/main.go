// Lab 4: restricted Boltzmann machines and a small deep belief net, exercised on
// synthetic bar patterns instead of MNIST so the lab is self-contained.
//
//	lab4 -run rbm
//	lab4 -run dbn
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/bt-s/dd2437-anns/rbm"
)

// grid is the side length of the synthetic pattern images.
const grid = 6

func main() {
	run := flag.String("run", "rbm", "experiment to run: rbm, dbn")
	seed := flag.Int64("seed", 7, "random seed")
	iters := flag.Int("iterations", 2000, "CD-1 iterations per machine")
	flag.Parse()

	switch *run {
	case "rbm":
		runRBM(*seed, *iters)
	case "dbn":
		runDBN(*seed, *iters)
	default:
		log.Fatalf("unknown experiment %q", *run)
	}
}

// barPatterns generates n noisy images of horizontal or vertical bars, with
// one-hot labels: class 0 is horizontal, class 1 vertical.
func barPatterns(src *rand.Rand, n int) (X, labels *mat.Dense) {
	X = mat.NewDense(n, grid*grid, nil)
	labels = mat.NewDense(n, 2, nil)

	for i := 0; i < n; i++ {
		vertical := src.Intn(2) == 1
		line := src.Intn(grid)

		for r := 0; r < grid; r++ {
			for c := 0; c < grid; c++ {
				on := (!vertical && r == line) || (vertical && c == line)

				v := 0.05
				if on {
					v = 0.95
				}
				if src.Float64() < 0.05 {
					v = 1 - v
				}
				X.Set(i, r*grid+c, v)
			}
		}

		if vertical {
			labels.Set(i, 1, 1)
		} else {
			labels.Set(i, 0, 1)
		}
	}

	return X, labels
}

func runRBM(seed int64, iters int) {
	src := rand.New(rand.NewSource(seed))
	X, _ := barPatterns(src, 200)

	machine, err := rbm.New(rbm.Config{
		Visible: grid * grid, Hidden: 30,
		LearningRate: 0.05, BatchSize: 20, Seed: seed,
	})
	if err != nil {
		log.Fatalf("building machine: %v", err)
	}

	err = machine.CD1(X, iters, func(r rbm.Result) {
		if r.Iteration%200 == 0 {
			fmt.Printf("iteration=%d reconstruction error=%.5f\n", r.Iteration, r.ReconstructionError)
		}
	})
	if err != nil {
		log.Fatalf("training: %v", err)
	}

	recon, err := machine.Reconstruct(X)
	if err != nil {
		log.Fatalf("reconstructing: %v", err)
	}

	fmt.Println("first pattern and its reconstruction:")
	for r := 0; r < grid; r++ {
		for c := 0; c < grid; c++ {
			fmt.Printf("%.0f", X.At(0, r*grid+c))
		}
		fmt.Print("   ")
		for c := 0; c < grid; c++ {
			if recon.At(0, r*grid+c) >= 0.5 {
				fmt.Print("1")
			} else {
				fmt.Print("0")
			}
		}
		fmt.Println()
	}
}

func runDBN(seed int64, iters int) {
	src := rand.New(rand.NewSource(seed))
	trainX, trainLbl := barPatterns(src, 400)
	testX, testLbl := barPatterns(src, 100)

	net, err := rbm.NewDBN(rbm.DBNConfig{
		Visible: grid * grid, Hidden: 40, Penultimate: 40, Top: 80,
		Labels: 2, LearningRate: 0.05, BatchSize: 20, Seed: seed,
	})
	if err != nil {
		log.Fatalf("building net: %v", err)
	}

	err = net.TrainGreedy(trainX, trainLbl, iters, func(stage string, r rbm.Result) {
		if r.Iteration%500 == 0 {
			fmt.Printf("%s iteration=%d reconstruction error=%.5f\n", stage, r.Iteration, r.ReconstructionError)
		}
	})
	if err != nil {
		log.Fatalf("training: %v", err)
	}

	trainAcc, err := net.Recognize(trainX, trainLbl)
	if err != nil {
		log.Fatalf("recognizing training set: %v", err)
	}
	testAcc, err := net.Recognize(testX, testLbl)
	if err != nil {
		log.Fatalf("recognizing test set: %v", err)
	}

	fmt.Printf("train accuracy=%.2f%% test accuracy=%.2f%%\n", 100*trainAcc, 100*testAcc)
}
