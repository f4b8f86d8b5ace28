package field

import (
	"errors"
	"math"
	"testing"
)

var testDomain = Domain{UMin: -2.5, UMax: 2.5, VMin: -5, VMax: 12}

func TestMSE_KnownValue(t *testing.T) {
	f, err := MSE([]Point{{2, 8}, {4, 3}, {9, 6}})
	if err != nil {
		t.Fatalf("MSE: %v", err)
	}
	want := (64.0 + 9.0 + 36.0) / 3.0
	if got := f(0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("f(0,0) = %v, want %v", got, want)
	}
}

func TestMSE_CopiesPoints(t *testing.T) {
	pts := []Point{{1, 1}}
	f, _ := MSE(pts)
	pts[0] = Point{100, 100}
	if got := f(1, 0); got != 0 {
		t.Errorf("f(1,0) = %v after caller mutation, want 0", got)
	}
}

func TestMSE_NoPoints(t *testing.T) {
	if _, err := MSE(nil); !errors.Is(err, ErrNoPoints) {
		t.Errorf("MSE(nil) err = %v, want ErrNoPoints", err)
	}
}

func TestSample_Validation(t *testing.T) {
	f := func(u, v float64) float64 { return u + v }
	tests := []struct {
		name   string
		f      Func
		d      Domain
		nx, ny int
		want   error
	}{
		{"nil func", nil, testDomain, 4, 4, ErrNilFunc},
		{"u min == max", f, Domain{UMin: 1, UMax: 1, VMin: 0, VMax: 1}, 4, 4, ErrInvalidDomain},
		{"v min > max", f, Domain{UMin: 0, UMax: 1, VMin: 2, VMax: 1}, 4, 4, ErrInvalidDomain},
		{"nan bound", f, Domain{UMin: math.NaN(), UMax: 1, VMin: 0, VMax: 1}, 4, 4, ErrInvalidDomain},
		{"nx too small", f, testDomain, 1, 4, ErrGridTooSmall},
		{"ny too small", f, testDomain, 4, 0, ErrGridTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Sample(tt.f, tt.d, tt.nx, tt.ny); !errors.Is(err, tt.want) {
				t.Errorf("Sample() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSample_LayoutAndEndpoints(t *testing.T) {
	d := Domain{UMin: 0, UMax: 4, VMin: 10, VMax: 20}
	grid, err := Sample(func(u, v float64) float64 { return u*1000 + v }, d, 5, 3)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if grid.NX() != 5 || grid.NY() != 3 {
		t.Fatalf("dims = %dx%d, want 5x3", grid.NX(), grid.NY())
	}
	// Row j indexes v, column i indexes u.
	if got := grid.At(0, 0); got != 10 {
		t.Errorf("At(0,0) = %v, want 10", got)
	}
	if got := grid.At(4, 0); got != 4010 {
		t.Errorf("At(4,0) = %v, want 4010", got)
	}
	if got := grid.At(0, 2); got != 20 {
		t.Errorf("At(0,2) = %v, want 20", got)
	}
	if got := grid.Values()[1*5+2]; got != 2015 {
		t.Errorf("values[7] = %v, want 2015", got)
	}
	if grid.Min() != 10 || grid.Max() != 4020 {
		t.Errorf("min/max = %v/%v, want 10/4020", grid.Min(), grid.Max())
	}
}

func TestSample_MinMaxBoundEverySample(t *testing.T) {
	f, _ := MSE([]Point{{2, 8}, {4, 3}, {9, 6}})
	grid, err := Sample(f, testDomain, 30, 20)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for j := 0; j < grid.NY(); j++ {
		for i := 0; i < grid.NX(); i++ {
			v := grid.At(i, j)
			if v < grid.Min() || v > grid.Max() {
				t.Fatalf("sample (%d,%d)=%v outside [%v,%v]", i, j, v, grid.Min(), grid.Max())
			}
		}
	}
}

func TestSample_MinimumWithinOneCell(t *testing.T) {
	quadratics := []struct {
		name   string
		u0, v0 float64
		a, b   float64
		c      float64
	}{
		{"centered", 0, 0, 1, 1, 0},
		{"offset", 1.3, 7.2, 2, 0.5, 0.3},
		{"coupled", -1.1, -2.4, 1, 3, 0.2},
	}
	for _, q := range quadratics {
		for _, n := range []int{50, 64, 120} {
			f := func(u, v float64) float64 {
				du, dv := u-q.u0, v-q.v0
				return q.a*du*du + q.b*dv*dv + q.c*du*dv
			}
			grid, err := Sample(f, testDomain, n, n)
			if err != nil {
				t.Fatalf("%s: Sample: %v", q.name, err)
			}
			i, j := grid.ArgMin()
			p := grid.Coord(i, j)
			du, dv := grid.CellSize()
			if math.Abs(p.U-q.u0) > du || math.Abs(p.V-q.v0) > dv {
				t.Errorf("%s n=%d: argmin %v not within one cell (%.3f,%.3f) of (%v,%v)", q.name, n, p, du, dv, q.u0, q.v0)
			}
		}
	}
}

func TestNewSampleGrid(t *testing.T) {
	if _, err := NewSampleGrid(testDomain, 2, 2, []float64{1, 2, 3}); !errors.Is(err, ErrValueCount) {
		t.Errorf("err = %v, want ErrValueCount", err)
	}

	vals := []float64{5, 5, 5, 5}
	g, err := NewSampleGrid(testDomain, 2, 2, vals)
	if err != nil {
		t.Fatalf("NewSampleGrid: %v", err)
	}
	vals[0] = -1
	if g.At(0, 0) != 5 {
		t.Error("grid shares caller slice")
	}
	if g.Range() != 0 || g.Min() != 5 || g.Max() != 5 {
		t.Errorf("flat grid min/max = %v/%v, want 5/5", g.Min(), g.Max())
	}
}

func TestDomain_Contains(t *testing.T) {
	if !testDomain.Contains(Param{U: 2.5, V: -5}) {
		t.Error("corner should be inside closed domain")
	}
	if testDomain.Contains(Param{U: 2.6, V: 0}) {
		t.Error("u=2.6 should be outside")
	}
}

func TestSample_LargeGridMatchesSerial(t *testing.T) {
	f := func(u, v float64) float64 { return u*u - 3*v }
	g, err := Sample(f, testDomain, 37, 101)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for j := 0; j < g.NY(); j++ {
		for i := 0; i < g.NX(); i++ {
			p := g.Coord(i, j)
			if got, want := g.At(i, j), f(p.U, p.V); got != want {
				t.Fatalf("At(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 100, 1000} {
		hits := make([]int, n)
		parallelFor(n, 4, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}
