// Lab 1: single- and two-layer perceptrons on two-class toy data.
//
// Each experiment from the lab is a named configuration; pick one with -run:
//
//	lab1 -run two-layer
//	lab1 -run delta-batch -plots plots
//
// Passing -plots writes the data scatter and, for the classifiers, the decision
// boundary to the given directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	anns "github.com/bt-s/dd2437-anns"
	"github.com/bt-s/dd2437-anns/labplot"
	"github.com/bt-s/dd2437-anns/toydata"
)

// experiment is one lab variant: which data to generate and which learning rule to
// apply to it.
type experiment struct {
	// data is one of "separable", "overlapping", "split".
	data string

	// rule is one of "delta-batch", "delta-seq", "perceptron", "two-layer",
	// "encoder".
	rule string

	// bias appends a constant-one column to the inputs.
	bias bool

	// subsample holds out part of each class for validation.
	subsample bool

	hidden    int
	eta       float64
	maxEpochs int
}

var experiments = map[string]experiment{
	"delta-batch": {
		data: "separable", rule: "delta-batch", bias: true,
		eta: 0.001, maxEpochs: 1000,
	},
	"delta-seq": {
		data: "separable", rule: "delta-seq", bias: true,
		eta: 0.001, maxEpochs: 1000,
	},
	"perceptron": {
		data: "separable", rule: "perceptron", bias: true,
		eta: 0.01, maxEpochs: 1000,
	},
	"two-layer": {
		data: "overlapping", rule: "two-layer", bias: true,
		hidden: 4, eta: 0.001, maxEpochs: 5000,
	},
	"two-layer-split": {
		data: "split", rule: "two-layer", bias: true,
		hidden: 8, eta: 0.001, maxEpochs: 5000,
	},
	"two-layer-subsample": {
		data: "overlapping", rule: "two-layer", bias: true, subsample: true,
		hidden: 4, eta: 0.001, maxEpochs: 5000,
	},
	"encoder": {
		rule: "encoder", hidden: 3, eta: 0.1, maxEpochs: 100000,
	},
}

func main() {
	names := make([]string, 0, len(experiments))
	for name := range experiments {
		names = append(names, name)
	}
	sort.Strings(names)

	run := flag.String("run", "two-layer", "experiment to run: "+strings.Join(names, ", "))
	seed := flag.Int64("seed", 420, "random seed for data generation and weights")
	plots := flag.String("plots", "", "directory to write plots to (no plots if empty)")
	every := flag.Int("every", 100, "report training progress every this many epochs")
	flag.Parse()

	exp, ok := experiments[*run]
	if !ok {
		log.Fatalf("unknown experiment %q; have: %s", *run, strings.Join(names, ", "))
	}

	if *plots != "" {
		if err := os.MkdirAll(*plots, 0755); err != nil {
			log.Fatalf("creating plot directory: %v", err)
		}
	}

	if exp.rule == "encoder" {
		runEncoder(exp, *seed, *every)
		return
	}

	src := rand.New(rand.NewSource(*seed))

	var classA, classB *mat.Dense
	switch exp.data {
	case "separable":
		classA, classB = toydata.TwoClasses(src, 100, [2]float64{1.0, 1.0}, 0.4, [2]float64{-1.0, -0.5}, 0.4)
	case "overlapping":
		classA, classB = toydata.TwoClasses(src, 100, [2]float64{0.5, 0.5}, 0.5, [2]float64{-0.5, -0.5}, 0.5)
	case "split":
		classA, classB = toydata.TwoClassesSplit(src, 100, [2]float64{1.0, 0.3}, 0.2, [2]float64{0.0, -0.1}, 0.3)
	default:
		log.Fatalf("unknown data mode %q", exp.data)
	}

	trainA, trainB := classA, classB
	var valA, valB *mat.Dense
	if exp.subsample {
		var err error
		trainA, trainB, valA, valB, err = toydata.Subsample(src, classA, classB, 75, 75)
		if err != nil {
			log.Fatalf("subsampling: %v", err)
		}
	}

	X, T := toydata.Merge(src, trainA, trainB, exp.bias)

	if *plots != "" {
		if err := labplot.Scatter(filepath.Join(*plots, *run+"-data.png"), *run+" data", classA, classB); err != nil {
			log.Fatalf("plotting data: %v", err)
		}
	}

	update := func(r anns.Result) {
		if r.Epoch%*every == 0 {
			fmt.Printf("epoch=%d accuracy=%.3f cost=%.5f\n", r.Epoch, r.Accuracy, r.Cost)
		}
	}

	var decide func(x, y float64) float64

	switch exp.rule {
	case "delta-batch", "delta-seq":
		clf, err := anns.NewDeltaRule(anns.DeltaRuleConfig{
			MaxEpochs:    exp.maxEpochs,
			LearningRate: anns.Constant(exp.eta),
			Sequential:   exp.rule == "delta-seq",
			Seed:         *seed,
		})
		if err != nil {
			log.Fatalf("building classifier: %v", err)
		}

		res, err := clf.Train(anns.TrainArgs{X: X, T: T, Update: update})
		if err != nil {
			log.Fatalf("training: %v", err)
		}
		fmt.Printf("%s: %v after %d epochs, accuracy %.3f\n", *run, res.Outcome, res.Epochs, res.Accuracy)

		decide = func(x, y float64) float64 {
			O, err := clf.Output(inputRow(x, y, exp.bias))
			if err != nil {
				log.Fatalf("evaluating decision boundary: %v", err)
			}
			return O.At(0, 0)
		}

	case "perceptron":
		clf, err := anns.NewSingleLayerPerceptron(anns.DeltaRuleConfig{
			MaxEpochs:    exp.maxEpochs,
			LearningRate: anns.Constant(exp.eta),
			Seed:         *seed,
		})
		if err != nil {
			log.Fatalf("building classifier: %v", err)
		}

		res, err := clf.Train(anns.TrainArgs{X: X, T: T, Update: update})
		if err != nil {
			log.Fatalf("training: %v", err)
		}
		fmt.Printf("%s: %v after %d epochs, accuracy %.3f\n", *run, res.Outcome, res.Epochs, res.Accuracy)

		decide = func(x, y float64) float64 {
			O, err := clf.Output(inputRow(x, y, exp.bias))
			if err != nil {
				log.Fatalf("evaluating decision boundary: %v", err)
			}
			return O.At(0, 0)
		}

	case "two-layer":
		clf, err := anns.NewTwoLayerPerceptron(anns.PerceptronConfig{
			Hidden:       exp.hidden,
			MaxEpochs:    exp.maxEpochs,
			LearningRate: anns.Constant(exp.eta),
			Seed:         *seed,
		})
		if err != nil {
			log.Fatalf("building classifier: %v", err)
		}

		res, err := clf.Train(anns.TrainArgs{X: X, T: T, Update: update})
		if err != nil {
			log.Fatalf("training: %v", err)
		}
		fmt.Printf("%s: %v after %d epochs, accuracy %.3f\n", *run, res.Outcome, res.Epochs, res.Accuracy)

		if exp.subsample {
			XVal, TVal := toydata.Merge(src, valA, valB, exp.bias)
			_, O, err := clf.Forward(XVal)
			if err != nil {
				log.Fatalf("validating: %v", err)
			}
			acc, err := anns.Accuracy(O, TVal, 0)
			if err != nil {
				log.Fatalf("validating: %v", err)
			}
			fmt.Printf("validation accuracy %.3f\n", acc)
		}

		decide = func(x, y float64) float64 {
			_, O, err := clf.Forward(inputRow(x, y, exp.bias))
			if err != nil {
				log.Fatalf("evaluating decision boundary: %v", err)
			}
			return O.At(0, 0)
		}

	default:
		log.Fatalf("unknown rule %q", exp.rule)
	}

	if *plots != "" {
		path := filepath.Join(*plots, *run+"-boundary.png")
		if err := labplot.DecisionBoundary(path, *run+" decision boundary", decide, trainA, trainB); err != nil {
			log.Fatalf("plotting decision boundary: %v", err)
		}
		fmt.Printf("wrote plots to %s\n", *plots)
	}
}

// runEncoder trains the 8-3-8 autoencoder and prints the recovered codes.
func runEncoder(exp experiment, seed int64, every int) {
	X, T := toydata.EncoderData()

	clf, err := anns.NewTwoLayerPerceptron(anns.PerceptronConfig{
		Hidden:       exp.hidden,
		Outputs:      8,
		MaxEpochs:    exp.maxEpochs,
		LearningRate: anns.Constant(exp.eta),
		Seed:         seed,
	})
	if err != nil {
		log.Fatalf("building encoder: %v", err)
	}

	res, err := clf.Train(anns.TrainArgs{X: X, T: T, Update: func(r anns.Result) {
		if r.Epoch%every == 0 {
			fmt.Printf("epoch=%d accuracy=%.3f cost=%.5f\n", r.Epoch, r.Accuracy, r.Cost)
		}
	}})
	if err != nil {
		log.Fatalf("training encoder: %v", err)
	}
	fmt.Printf("encoder: %v after %d epochs, accuracy %.3f\n", res.Outcome, res.Epochs, res.Accuracy)

	_, O, err := clf.Forward(X)
	if err != nil {
		log.Fatalf("encoding: %v", err)
	}

	labels := anns.Predict(O, 0)
	fmt.Println("reconstructed patterns:")
	for i := 0; i < 8; i++ {
		row := make([]string, 8)
		for j := 0; j < 8; j++ {
			row[j] = fmt.Sprintf("%+.0f", labels.At(i, j))
		}
		fmt.Println(strings.Join(row, " "))
	}
}

// inputRow builds a single-observation input matrix for the point (x, y).
func inputRow(x, y float64, bias bool) *mat.Dense {
	if bias {
		return mat.NewDense(1, 3, []float64{x, y, 1})
	}
	return mat.NewDense(1, 2, []float64{x, y})
}
