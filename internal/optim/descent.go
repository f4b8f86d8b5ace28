package optim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/losscape/internal/field"
)

var (
	ErrDegenerate = errors.New("optim: data set has no unique least-squares line")
	ErrBadRate    = errors.New("optim: learning rate must be positive and finite")
	ErrBadSteps   = errors.New("optim: steps must be non-negative")
	ErrDiverged   = errors.New("optim: descent diverged")
)

// residuals returns the x coordinates and the residuals a*x + b - y.
func residuals(points []field.Point, p field.Param) (xs, rs []float64) {
	xs = make([]float64, len(points))
	rs = make([]float64, len(points))
	for i, pt := range points {
		xs[i] = pt.X
		rs[i] = p.U*pt.X + p.V - pt.Y
	}
	return xs, rs
}

// Gradient returns the partial derivatives of the MSE at p, with the slope
// derivative in U and the intercept derivative in V.
func Gradient(points []field.Point, p field.Param) (field.Param, error) {
	if len(points) == 0 {
		return field.Param{}, field.ErrNoPoints
	}
	xs, rs := residuals(points, p)
	n := float64(len(points))
	return field.Param{
		U: 2 / n * floats.Dot(xs, rs),
		V: 2 / n * floats.Sum(rs),
	}, nil
}

// Descend runs plain gradient descent from start and returns every visited
// point, start included, so the path holds steps+1 entries.
//
// If a step leaves the finite range (parameters or loss overflow), Descend
// stops there and returns the finite prefix of the path together with an
// error wrapping ErrDiverged.
func Descend(points []field.Point, start field.Param, lr float64, steps int) ([]field.Param, error) {
	f, err := field.MSE(points)
	if err != nil {
		return nil, err
	}
	if !(lr > 0) || math.IsInf(lr, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadRate, lr)
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSteps, steps)
	}

	path := make([]field.Param, 0, steps+1)
	p := start
	path = append(path, p)
	for i := 1; i <= steps; i++ {
		g, err := Gradient(points, p)
		if err != nil {
			return nil, err
		}
		p = field.Param{U: p.U - lr*g.U, V: p.V - lr*g.V}
		if !finite(p.U) || !finite(p.V) || !finite(f(p.U, p.V)) {
			return path, fmt.Errorf("%w: step %d at lr=%g", ErrDiverged, i, lr)
		}
		path = append(path, p)
	}
	return path, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Losses evaluates the MSE at every point of path.
func Losses(points []field.Point, path []field.Param) ([]float64, error) {
	f, err := field.MSE(points)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(path))
	for i, p := range path {
		out[i] = f(p.U, p.V)
	}
	return out, nil
}

// LeastSquares returns the exact minimum of the MSE surface.
func LeastSquares(points []field.Point) (field.Param, error) {
	if len(points) < 2 {
		return field.Param{}, fmt.Errorf("%w: need at least two points, have %d", ErrDegenerate, len(points))
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i], ys[i] = pt.X, pt.Y
	}
	if floats.Min(xs) == floats.Max(xs) {
		return field.Param{}, fmt.Errorf("%w: all x equal %g", ErrDegenerate, xs[0])
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return field.Param{U: beta, V: alpha}, nil
}

// RandomPoints draws n points with integer coordinates in [0, 10].
func RandomPoints(rng *rand.Rand, n int) []field.Point {
	pts := make([]field.Point, n)
	for i := range pts {
		pts[i] = field.Point{X: float64(rng.Intn(11)), Y: float64(rng.Intn(11))}
	}
	return pts
}
