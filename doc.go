// Package anns implements the classic neural-network learning algorithms from the
// KTH DD2437 labs: single- and two-layer perceptrons trained with the delta rule and
// backpropagation, along with sibling packages for radial-basis-function networks
// (rbf), self-organizing maps (som), restricted Boltzmann machines (rbm), synthetic
// toy data (toydata) and plotting (labplot).
//
// The center of the package is the TwoLayerPerceptron, a one-hidden-layer network
// trained by full-batch gradient descent with the generalized delta rule:
//
//	clf, err := anns.NewTwoLayerPerceptron(anns.PerceptronConfig{
//		Hidden:       4,
//		Outputs:      1,
//		MaxEpochs:    200,
//		LearningRate: anns.Constant(0.001),
//		Seed:         420,
//	})
//	if err != nil { ... }
//
//	res, err := clf.Train(anns.TrainArgs{X: X, T: T})
//
// Train runs until every training example is classified correctly (Converged) or the
// epoch budget runs out (Exhausted); the latter is a normal, reportable outcome, not
// an error. Callers wanting their own control flow can instead drive Epoch directly,
// one pass over the data at a time.
//
// All matrices are gonum mat.Dense values. Input and target matrices are borrowed
// from the caller and never mutated; the weight matrices belong to the classifier.
package anns
