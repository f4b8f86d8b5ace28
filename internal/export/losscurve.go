package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/losscape/internal/render"
)

// LossCurve plots loss against step number.
func LossCurve(losses []float64, title string) (*plot.Plot, error) {
	if len(losses) == 0 {
		return nil, ErrNothingToExport
	}
	pts := make(plotter.XYs, len(losses))
	for i, l := range losses {
		pts[i] = plotter.XY{X: float64(i), Y: l}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = "MSE"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("loss line: %w", err)
	}
	line.Color = render.DefaultPalette.FitLine
	line.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// SaveLossCurve writes the loss plot to path; the format follows the file
// extension (png, svg, pdf, ...). Width and height are in points.
func SaveLossCurve(path string, losses []float64, width, height float64) error {
	p, err := LossCurve(losses, "Gradient descent")
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(width), vg.Length(height), path); err != nil {
		return fmt.Errorf("save loss curve %s: %w", path, err)
	}
	return nil
}
