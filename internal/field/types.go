package field

import (
	"fmt"
	"math"
)

// Func is a scalar field over the (u, v) parameter plane.
type Func func(u, v float64) float64

// Param is a point in parameter space. For the regression surface U is the
// slope a and V is the intercept b.
type Param struct {
	U float64 `yaml:"u" json:"u"`
	V float64 `yaml:"v" json:"v"`
}

func (p Param) String() string {
	return fmt.Sprintf("(a=%.3f, b=%.3f)", p.U, p.V)
}

// Point is a data point (x, y) in data space.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Domain is a rectangle in parameter space.
type Domain struct {
	UMin float64 `yaml:"u_min" json:"u_min"`
	UMax float64 `yaml:"u_max" json:"u_max"`
	VMin float64 `yaml:"v_min" json:"v_min"`
	VMax float64 `yaml:"v_max" json:"v_max"`
}

func (d Domain) Validate() error {
	for _, b := range []float64{d.UMin, d.UMax, d.VMin, d.VMax} {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return ErrInvalidDomain
		}
	}
	if d.UMin >= d.UMax || d.VMin >= d.VMax {
		return ErrInvalidDomain
	}
	return nil
}

// Contains reports whether p lies inside the closed domain.
func (d Domain) Contains(p Param) bool {
	return p.U >= d.UMin && p.U <= d.UMax && p.V >= d.VMin && p.V <= d.VMax
}

// SampleGrid holds nx*ny samples of a scalar field. It is never mutated
// after construction.
type SampleGrid struct {
	domain   Domain
	nx, ny   int
	values   []float64
	min, max float64
}

// NewSampleGrid wraps explicit row-major values (row j holds v_j).
// The slice is copied.
func NewSampleGrid(d Domain, nx, ny int, values []float64) (*SampleGrid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if nx < 2 || ny < 2 {
		return nil, ErrGridTooSmall
	}
	if len(values) != nx*ny {
		return nil, fmt.Errorf("%w: got %d, want %dx%d", ErrValueCount, len(values), nx, ny)
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	g := &SampleGrid{domain: d, nx: nx, ny: ny, values: vals}
	g.min, g.max = bounds(vals)
	return g, nil
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// NX is the number of samples along u.
func (g *SampleGrid) NX() int { return g.nx }

// NY is the number of samples along v.
func (g *SampleGrid) NY() int { return g.ny }

// Domain is the parameter rectangle the grid covers.
func (g *SampleGrid) Domain() Domain { return g.domain }

// Min is the smallest sample, ignoring NaN.
func (g *SampleGrid) Min() float64 { return g.min }

// Max is the largest sample, ignoring NaN.
func (g *SampleGrid) Max() float64 { return g.max }

// Range returns Max()-Min(); zero for a flat grid.
func (g *SampleGrid) Range() float64 { return g.max - g.min }

// At returns the sample at column i (u axis) and row j (v axis).
func (g *SampleGrid) At(i, j int) float64 {
	return g.values[j*g.nx+i]
}

// Values returns a copy of the row-major samples.
func (g *SampleGrid) Values() []float64 {
	out := make([]float64, len(g.values))
	copy(out, g.values)
	return out
}

// Coord maps a grid index to parameter space.
func (g *SampleGrid) Coord(i, j int) Param {
	d := g.domain
	return Param{
		U: d.UMin + float64(i)/float64(g.nx-1)*(d.UMax-d.UMin),
		V: d.VMin + float64(j)/float64(g.ny-1)*(d.VMax-d.VMin),
	}
}

// CellSize returns the parameter-space spacing between adjacent samples.
func (g *SampleGrid) CellSize() (du, dv float64) {
	d := g.domain
	return (d.UMax - d.UMin) / float64(g.nx-1), (d.VMax - d.VMin) / float64(g.ny-1)
}

// ArgMin returns the index of the first smallest sample in row-major order.
func (g *SampleGrid) ArgMin() (i, j int) {
	best := 0
	for k, v := range g.values {
		if v < g.values[best] {
			best = k
		}
	}
	return best % g.nx, best / g.nx
}
