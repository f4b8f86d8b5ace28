package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/contour"
	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/raster"
)

var (
	ErrSurfaceTooSmall = errors.New("render: surface smaller than its padding")
	ErrInvalidOptions  = errors.New("render: invalid options")
)

// Bounds is the visible data-space window of the data plot.
type Bounds struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

// Options configures both plots.
type Options struct {
	Domain       field.Domain
	Data         Bounds
	NX, NY       int
	Levels       int
	BiasPower    float64
	Colormap     *colormap.Map
	FieldPad     float64
	DataPad      float64
	MarkerRadius float64
	Palette      Palette
}

func DefaultOptions() Options {
	return Options{
		Domain:       field.Domain{UMin: -2.5, UMax: 2.5, VMin: -5, VMax: 12},
		Data:         Bounds{XMin: 0, XMax: 10, YMin: 0, YMax: 10},
		NX:           120,
		NY:           120,
		Levels:       24,
		BiasPower:    2.25,
		Colormap:     colormap.PlasmaLite,
		FieldPad:     40,
		DataPad:      36,
		MarkerRadius: 5,
		Palette:      DefaultPalette,
	}
}

func (o Options) Validate() error {
	if err := o.Domain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.Data.XMin >= o.Data.XMax || o.Data.YMin >= o.Data.YMax {
		return fmt.Errorf("%w: data bounds min must be below max", ErrInvalidOptions)
	}
	if o.NX < 2 || o.NY < 2 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, field.ErrGridTooSmall)
	}
	if o.Levels < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, contour.ErrNoLevels)
	}
	if !(o.BiasPower > 0) {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, contour.ErrBadPower)
	}
	if o.Colormap == nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, raster.ErrNilColormap)
	}
	if o.FieldPad < 0 || o.DataPad < 0 {
		return fmt.Errorf("%w: negative padding", ErrInvalidOptions)
	}
	return nil
}

// FieldRenderer composes sampling, rasterization and contouring into full
// draw passes. It caches the sample grid until the data points change.
// Not safe for concurrent use.
type FieldRenderer struct {
	opts   Options
	points []field.Point
	grid   *field.SampleGrid
}

func NewFieldRenderer(opts Options, points []field.Point) (*FieldRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &FieldRenderer{opts: opts}
	if err := r.SetPoints(points); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FieldRenderer) Options() Options { return r.opts }

// SetPoints replaces the data set and invalidates the cached grid.
func (r *FieldRenderer) SetPoints(points []field.Point) error {
	if len(points) == 0 {
		return field.ErrNoPoints
	}
	r.points = append(r.points[:0:0], points...)
	r.grid = nil
	return nil
}

// Points returns a copy of the current data set.
func (r *FieldRenderer) Points() []field.Point {
	return append([]field.Point(nil), r.points...)
}

// Loss evaluates the MSE surface at p.
func (r *FieldRenderer) Loss(p field.Param) float64 {
	f, err := field.MSE(r.points)
	if err != nil {
		return math.NaN()
	}
	return f(p.U, p.V)
}

// Grid samples the MSE surface, reusing the cached grid when possible.
func (r *FieldRenderer) Grid() (*field.SampleGrid, error) {
	if r.grid != nil {
		return r.grid, nil
	}
	f, err := field.MSE(r.points)
	if err != nil {
		return nil, err
	}
	g, err := field.Sample(f, r.opts.Domain, r.opts.NX, r.opts.NY)
	if err != nil {
		return nil, fmt.Errorf("sample mse: %w", err)
	}
	r.grid = g
	return g, nil
}

// frame maps one plot's coordinate space onto the padded surface area.
type frame struct {
	x, y, w, h             float64
	xmin, xmax, ymin, ymax float64
}

func newFrame(s Surface, pad, xmin, xmax, ymin, ymax float64) (frame, error) {
	w, h := s.Size()
	f := frame{x: pad, y: pad, w: w - 2*pad, h: h - 2*pad, xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax}
	if f.w < 1 || f.h < 1 {
		return f, fmt.Errorf("%w: %.0fx%.0f with padding %.0f", ErrSurfaceTooSmall, w, h, pad)
	}
	return f, nil
}

func (f frame) toPx(x, y float64) (float64, float64) {
	px := f.x + (x-f.xmin)/(f.xmax-f.xmin)*f.w
	py := f.y + f.h - (y-f.ymin)/(f.ymax-f.ymin)*f.h
	return px, py
}

func (r *FieldRenderer) fieldFrame(s Surface) (frame, error) {
	d := r.opts.Domain
	return newFrame(s, r.opts.FieldPad, d.UMin, d.UMax, d.VMin, d.VMax)
}

// FieldToPixel maps a parameter point onto surface coordinates of the
// field plot.
func (r *FieldRenderer) FieldToPixel(s Surface, p field.Param) (x, y float64, err error) {
	f, err := r.fieldFrame(s)
	if err != nil {
		return 0, 0, err
	}
	x, y = f.toPx(p.U, p.V)
	return x, y, nil
}

func background(s Surface, pal Palette, f frame) {
	w, h := s.Size()
	s.FillRect(0, 0, w, h, pal.Background)
	s.StrokeRect(0.5, 0.5, w-1, h-1, pal.Frame, 1)
	s.StrokeRect(f.x, f.y, f.w, f.h, pal.Frame, 1)
}

// DrawField draws the heatmap, the isolines and the current marker.
func (r *FieldRenderer) DrawField(s Surface, current field.Param) error {
	f, err := r.fieldFrame(s)
	if err != nil {
		return err
	}
	g, err := r.Grid()
	if err != nil {
		return err
	}
	pal := r.opts.Palette
	background(s, pal, f)

	iw := max(1, int(math.Round(f.w)))
	ih := max(1, int(math.Round(f.h)))
	img, err := raster.Rasterize(g, r.opts.Colormap, iw, ih)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}
	s.Blit(img, int(math.Round(f.x)), int(math.Round(f.y)))

	segs, err := contour.ExtractBiased(g, r.opts.Levels, r.opts.BiasPower, contour.Rect{X: f.x, Y: f.y, W: f.w, H: f.h})
	if err != nil {
		return fmt.Errorf("contours: %w", err)
	}
	for _, seg := range segs {
		s.StrokeLine(seg.A.X, seg.A.Y, seg.B.X, seg.B.Y, pal.Contour, 1)
	}

	px, py := f.toPx(current.U, current.V)
	s.Marker(px, py, r.opts.MarkerRadius, pal.Marker, pal.MarkerRing, 2)

	_, h := s.Size()
	d := r.opts.Domain
	x0, _ := f.toPx(d.UMin, d.VMin)
	x1, _ := f.toPx(d.UMax, d.VMin)
	s.Text(x0, h-f.y+6, fmt.Sprintf("%.1f", d.UMin), AlignCenterTop, pal.Axis)
	s.Text(x1, h-f.y+6, fmt.Sprintf("%.1f", d.UMax), AlignCenterTop, pal.Axis)
	_, y0 := f.toPx(d.UMin, d.VMin)
	_, y1 := f.toPx(d.UMin, d.VMax)
	s.Text(f.x-6, y0, fmt.Sprintf("%.0f", d.VMin), AlignRightMiddle, pal.Axis)
	s.Text(f.x-6, y1, fmt.Sprintf("%.0f", d.VMax), AlignRightMiddle, pal.Axis)
	return nil
}

// DrawPath strokes the visited part of path (indices 0..upto) over the
// field plot.
func (r *FieldRenderer) DrawPath(s Surface, path []field.Param, upto int) error {
	f, err := r.fieldFrame(s)
	if err != nil {
		return err
	}
	upto = min(upto, len(path)-1)
	for i := 1; i <= upto; i++ {
		ax, ay := f.toPx(path[i-1].U, path[i-1].V)
		bx, by := f.toPx(path[i].U, path[i].V)
		s.StrokeLine(ax, ay, bx, by, r.opts.Palette.Trail, 1.5)
	}
	return nil
}

// DrawData draws the data points, the y=0 reference and the line
// y = a*x + b for the current parameters.
func (r *FieldRenderer) DrawData(s Surface, current field.Param) error {
	b := r.opts.Data
	f, err := newFrame(s, r.opts.DataPad, b.XMin, b.XMax, b.YMin, b.YMax)
	if err != nil {
		return err
	}
	pal := r.opts.Palette
	background(s, pal, f)

	zx0, zy0 := f.toPx(b.XMin, 0)
	zx1, zy1 := f.toPx(b.XMax, 0)
	s.StrokeLine(zx0, zy0, zx1, zy1, pal.ZeroLine, 2)

	for _, p := range r.points {
		px, py := f.toPx(p.X, p.Y)
		s.Marker(px, py, r.opts.MarkerRadius, pal.Point, nil, 0)
	}

	a, c := current.U, current.V
	lx0, ly0 := f.toPx(b.XMin, a*b.XMin+c)
	lx1, ly1 := f.toPx(b.XMax, a*b.XMax+c)
	s.StrokeLine(lx0, ly0, lx1, ly1, pal.FitLine, 2)

	_, h := s.Size()
	tx0, _ := f.toPx(b.XMin, b.YMin)
	tx1, _ := f.toPx(b.XMax, b.YMin)
	_, ty0 := f.toPx(b.XMin, b.YMin)
	_, ty1 := f.toPx(b.XMin, b.YMax)
	s.Text(tx0, h-f.y+6, label(b.XMin), AlignCenterTop, pal.Label)
	s.Text(tx1, h-f.y+6, label(b.XMax), AlignCenterTop, pal.Label)
	s.Text(f.x-6, ty0, label(b.YMin), AlignRightMiddle, pal.Label)
	s.Text(f.x-6, ty1, label(b.YMax), AlignRightMiddle, pal.Label)
	return nil
}

func label(v float64) string {
	return fmt.Sprintf("%g", v)
}
