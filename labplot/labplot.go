// Package labplot renders the labs' figures: two-class scatter plots and decision
// boundaries of trained classifiers. Callers pass all data explicitly; nothing in
// here reaches for experiment state it was not given.
package labplot

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// boundaryGrid is the number of grid cells per axis used by DecisionBoundary.
const boundaryGrid = 120

var (
	colorA     = color.RGBA{R: 220, A: 255}
	colorB     = color.RGBA{B: 220, A: 255}
	colorASoft = color.RGBA{R: 255, G: 200, B: 200, A: 255}
	colorBSoft = color.RGBA{R: 200, G: 200, B: 255, A: 255}
)

// Scatter draws the two point classes (n x 2 matrices) as a colored scatter plot
// and saves it to path; the image format follows the file extension.
func Scatter(path, title string, classA, classB *mat.Dense) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if err := addClass(p, classA, colorA, 2); err != nil {
		return errors.Wrap(err, "Plotting class A failed")
	}
	if err := addClass(p, classB, colorB, 2); err != nil {
		return errors.Wrap(err, "Plotting class B failed")
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "Saving plot to %q failed", path)
	}
	return nil
}

// DecisionBoundary shades the plane by the sign of decide(x, y) over the bounding
// box of the two classes, overlays the data scatter, and saves the figure to path.
// The decide function is typically a closure over a trained classifier's forward
// pass.
func DecisionBoundary(path, title string, decide func(x, y float64) float64, classA, classB *mat.Dense) error {
	if decide == nil {
		return errors.New("Decide function is nil")
	}

	minX, maxX, minY, maxY, err := bounds(classA, classB)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	var pos, neg plotter.XYs
	for i := 0; i <= boundaryGrid; i++ {
		for j := 0; j <= boundaryGrid; j++ {
			x := minX + (maxX-minX)*float64(i)/boundaryGrid
			y := minY + (maxY-minY)*float64(j)/boundaryGrid
			if decide(x, y) >= 0 {
				pos = append(pos, plotter.XY{X: x, Y: y})
			} else {
				neg = append(neg, plotter.XY{X: x, Y: y})
			}
		}
	}

	if err := addPoints(p, pos, colorASoft, 1); err != nil {
		return errors.Wrap(err, "Plotting positive region failed")
	}
	if err := addPoints(p, neg, colorBSoft, 1); err != nil {
		return errors.Wrap(err, "Plotting negative region failed")
	}

	if err := addClass(p, classA, colorA, 2); err != nil {
		return errors.Wrap(err, "Plotting class A failed")
	}
	if err := addClass(p, classB, colorB, 2); err != nil {
		return errors.Wrap(err, "Plotting class B failed")
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "Saving plot to %q failed", path)
	}
	return nil
}

func addClass(p *plot.Plot, class *mat.Dense, c color.RGBA, radius vg.Length) error {
	if class == nil {
		return errors.New("Class matrix is nil")
	}

	n, d := class.Dims()
	if d != 2 {
		return errors.Errorf("Class matrix must have 2 columns (got %d)", d)
	}

	points := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		points[i] = plotter.XY{X: class.At(i, 0), Y: class.At(i, 1)}
	}

	return addPoints(p, points, c, radius)
}

func addPoints(p *plot.Plot, points plotter.XYs, c color.RGBA, radius vg.Length) error {
	if len(points) == 0 {
		return nil
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = radius
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Color = c
	p.Add(scatter)

	return nil
}

// bounds returns the joint bounding box of both classes with a small margin.
func bounds(classA, classB *mat.Dense) (minX, maxX, minY, maxY float64, err error) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	for _, class := range []*mat.Dense{classA, classB} {
		if class == nil {
			return 0, 0, 0, 0, errors.New("Class matrix is nil")
		}

		n, d := class.Dims()
		if d != 2 {
			return 0, 0, 0, 0, errors.Errorf("Class matrix must have 2 columns (got %d)", d)
		}

		for i := 0; i < n; i++ {
			minX = math.Min(minX, class.At(i, 0))
			maxX = math.Max(maxX, class.At(i, 0))
			minY = math.Min(minY, class.At(i, 1))
			maxY = math.Max(maxY, class.At(i, 1))
		}
	}

	marginX := 0.1 * (maxX - minX)
	marginY := 0.1 * (maxY - minY)
	return minX - marginX, maxX + marginX, minY - marginY, maxY + marginY, nil
}
