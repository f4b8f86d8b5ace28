// Package contour extracts isolines from a sampled scalar field.
//
// Extraction is classic marching squares: every grid cell is classified by
// which of its four corners lie above the threshold, crossing points are
// linearly interpolated along the edges whose corners disagree, and the
// first two crossings found are joined by one segment.
//
// Saddle cells (diagonally opposite corners on the same side) carry four
// crossings; only the first two in edge order are connected. The two valid
// interpretations of a saddle are not disambiguated, so isolines can be
// topologically wrong there. This is accepted: the lines are illustrative.
package contour

import (
	"errors"
	"math"

	"github.com/san-kum/losscape/internal/field"
)

var (
	ErrNoLevels = errors.New("contour: need at least one level")
	ErrBadPower = errors.New("contour: level bias power must be positive")
	ErrNilGrid  = errors.New("contour: nil sample grid")
)

// Point is a position in output pixel space.
type Point struct {
	X, Y float64
}

// Segment is one straight piece of an isoline.
type Segment struct {
	A, B  Point
	Level float64
}

// Rect is the output pixel rectangle the grid is stretched over. Grid row 0
// (VMin) lands on the bottom edge Y+H.
type Rect struct {
	X, Y, W, H float64
}

// Levels returns n strictly increasing thresholds in (min, max):
//
//	min + ((i+1)/(n+1))^power * (max-min)
//
// A power above 1 packs the levels towards min. A flat range yields none.
func Levels(min, max float64, n int, power float64) ([]float64, error) {
	if n < 1 {
		return nil, ErrNoLevels
	}
	if !(power > 0) {
		return nil, ErrBadPower
	}
	if !(max > min) {
		return nil, nil
	}
	levels := make([]float64, n)
	for i := range levels {
		t := math.Pow(float64(i+1)/float64(n+1), power)
		levels[i] = min + t*(max-min)
	}
	return levels, nil
}

// ExtractBiased builds the biased level schedule from the grid range and
// extracts every level.
func ExtractBiased(g *field.SampleGrid, n int, power float64, r Rect) ([]Segment, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	levels, err := Levels(g.Min(), g.Max(), n, power)
	if err != nil {
		return nil, err
	}
	return Extract(g, levels, r), nil
}

// Extract runs marching squares for each threshold over all (nx-1)*(ny-1)
// cells. A nil grid has no cells.
func Extract(g *field.SampleGrid, levels []float64, r Rect) []Segment {
	if g == nil {
		return nil
	}
	nx, ny := g.NX(), g.NY()
	xAt := func(i int) float64 { return r.X + float64(i)/float64(nx-1)*r.W }
	yAt := func(j int) float64 { return r.Y + (1-float64(j)/float64(ny-1))*r.H }

	var segs []Segment
	for _, t := range levels {
		for j := 0; j < ny-1; j++ {
			for i := 0; i < nx-1; i++ {
				// Corners counter-clockwise from (i, j).
				v00 := g.At(i, j) - t
				v10 := g.At(i+1, j) - t
				v11 := g.At(i+1, j+1) - t
				v01 := g.At(i, j+1) - t

				if math.IsNaN(v00 + v10 + v11 + v01) {
					continue
				}
				code := bit(v00, 1) | bit(v10, 2) | bit(v11, 4) | bit(v01, 8)
				if code == 0 || code == 15 {
					continue
				}

				x0, x1 := xAt(i), xAt(i+1)
				y0, y1 := yAt(j), yAt(j+1)

				var pts [4]Point
				k := 0
				if (code&1 != 0) != (code&2 != 0) {
					f := v00 / (v00 - v10)
					pts[k] = Point{lerp(x0, x1, f), y0}
					k++
				}
				if (code&2 != 0) != (code&4 != 0) {
					f := v10 / (v10 - v11)
					pts[k] = Point{x1, lerp(y0, y1, f)}
					k++
				}
				if (code&4 != 0) != (code&8 != 0) {
					f := v11 / (v11 - v01)
					pts[k] = Point{lerp(x1, x0, f), y1}
					k++
				}
				if (code&8 != 0) != (code&1 != 0) {
					f := v01 / (v01 - v00)
					pts[k] = Point{x0, lerp(y1, y0, f)}
					k++
				}
				if k < 2 {
					continue
				}
				segs = append(segs, Segment{A: pts[0], B: pts[1], Level: t})
			}
		}
	}
	return segs
}

func bit(v float64, mask int) int {
	if v > 0 {
		return mask
	}
	return 0
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
