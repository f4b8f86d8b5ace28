package field

// Sample evaluates f on an evenly spaced nx*ny grid covering the closed
// domain d, endpoints included on both axes. Rows are evaluated
// concurrently, so f must be safe for concurrent calls.
func Sample(f Func, d Domain, nx, ny int) (*SampleGrid, error) {
	if f == nil {
		return nil, ErrNilFunc
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if nx < 2 || ny < 2 {
		return nil, ErrGridTooSmall
	}

	vals := make([]float64, nx*ny)
	parallelFor(ny, minRowsPerWorker, func(start, end int) {
		for j := start; j < end; j++ {
			v := d.VMin + float64(j)/float64(ny-1)*(d.VMax-d.VMin)
			for i := 0; i < nx; i++ {
				u := d.UMin + float64(i)/float64(nx-1)*(d.UMax-d.UMin)
				vals[j*nx+i] = f(u, v)
			}
		}
	})

	g := &SampleGrid{domain: d, nx: nx, ny: ny, values: vals}
	g.min, g.max = bounds(vals)
	return g, nil
}

// MSE returns the mean squared error of the line y = u*x + v over points.
func MSE(points []Point) (Func, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	n := float64(len(pts))

	return func(a, b float64) float64 {
		sum := 0.0
		for _, p := range pts {
			r := a*p.X + b - p.Y
			sum += r * r
		}
		return sum / n
	}, nil
}
