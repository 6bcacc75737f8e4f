package labplot

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func classes(seed int64, n int) (classA, classB *mat.Dense) {
	src := rand.New(rand.NewSource(seed))

	classA = mat.NewDense(n, 2, nil)
	classB = mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		classA.Set(i, 0, 1+0.2*src.NormFloat64())
		classA.Set(i, 1, 1+0.2*src.NormFloat64())
		classB.Set(i, 0, -1+0.2*src.NormFloat64())
		classB.Set(i, 1, -1+0.2*src.NormFloat64())
	}
	return classA, classB
}

func TestScatterWritesFile(t *testing.T) {
	classA, classB := classes(1, 20)
	path := filepath.Join(t.TempDir(), "scatter.png")

	if err := Scatter(path, "test", classA, classB); err != nil {
		t.Fatalf("Scatter: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file is empty")
	}
}

func TestScatterRejectsBadShapes(t *testing.T) {
	good := mat.NewDense(5, 2, nil)
	bad := mat.NewDense(5, 3, nil)
	path := filepath.Join(t.TempDir(), "scatter.png")

	if err := Scatter(path, "test", good, bad); err == nil {
		t.Errorf("3-column class: expected an error")
	}
	if err := Scatter(path, "test", nil, good); err == nil {
		t.Errorf("nil class: expected an error")
	}
}

func TestDecisionBoundaryWritesFile(t *testing.T) {
	classA, classB := classes(2, 20)
	path := filepath.Join(t.TempDir(), "boundary.png")

	decide := func(x, y float64) float64 { return x + y }

	if err := DecisionBoundary(path, "test", decide, classA, classB); err != nil {
		t.Fatalf("DecisionBoundary: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file is empty")
	}
}

func TestDecisionBoundaryRequiresDecide(t *testing.T) {
	classA, classB := classes(3, 5)
	path := filepath.Join(t.TempDir(), "boundary.png")

	if err := DecisionBoundary(path, "test", nil, classA, classB); err == nil {
		t.Fatalf("nil decide: expected an error")
	}
}
