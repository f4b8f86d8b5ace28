// Package export writes rendered plots to files: PNG and SVG through
// gonum/plot vector canvases, interactive HTML through go-echarts, and
// animated GIFs of a descent path.
package export

import (
	"image"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/san-kum/losscape/internal/render"
)

// LabelSize is the font size of axis labels in points.
const LabelSize = 11

// vgSurface adapts a gonum/plot canvas, whose origin is the bottom-left
// corner, to the top-left pixel coordinates of render.Surface.
type vgSurface struct {
	c    vg.Canvas
	w, h float64
	face font.Face
}

func newVGSurface(c vg.Canvas, w, h int) vgSurface {
	return vgSurface{
		c:    c,
		w:    float64(w),
		h:    float64(h),
		face: font.DefaultCache.Lookup(plot.DefaultFont, LabelSize),
	}
}

func (s *vgSurface) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(s.h - y)}
}

func (s *vgSurface) Size() (float64, float64) { return s.w, s.h }

func (s *vgSurface) rect(x, y, w, h float64) vg.Path {
	var p vg.Path
	p.Move(s.pt(x, y))
	p.Line(s.pt(x+w, y))
	p.Line(s.pt(x+w, y+h))
	p.Line(s.pt(x, y+h))
	p.Close()
	return p
}

func (s *vgSurface) FillRect(x, y, w, h float64, c color.Color) {
	s.c.SetColor(c)
	s.c.Fill(s.rect(x, y, w, h))
}

func (s *vgSurface) StrokeRect(x, y, w, h float64, c color.Color, width float64) {
	s.c.SetColor(c)
	s.c.SetLineWidth(vg.Length(width))
	s.c.Stroke(s.rect(x, y, w, h))
}

func (s *vgSurface) StrokeLine(x0, y0, x1, y1 float64, c color.Color, width float64) {
	var p vg.Path
	p.Move(s.pt(x0, y0))
	p.Line(s.pt(x1, y1))
	s.c.SetColor(c)
	s.c.SetLineWidth(vg.Length(width))
	s.c.Stroke(p)
}

func (s *vgSurface) Marker(cx, cy, r float64, fill, ring color.Color, ringWidth float64) {
	var p vg.Path
	center := s.pt(cx, cy)
	p.Move(vg.Point{X: center.X + vg.Length(r), Y: center.Y})
	p.Arc(center, vg.Length(r), 0, 2*math.Pi)
	p.Close()
	s.c.SetColor(fill)
	s.c.Fill(p)
	if ring != nil && ringWidth > 0 {
		s.c.SetColor(ring)
		s.c.SetLineWidth(vg.Length(ringWidth))
		s.c.Stroke(p)
	}
}

func (s *vgSurface) Blit(img *image.RGBA, x, y int) {
	b := img.Bounds()
	fx, fy := float64(x), float64(y)
	s.c.DrawImage(vg.Rectangle{
		Min: s.pt(fx, fy+float64(b.Dy())),
		Max: s.pt(fx+float64(b.Dx()), fy),
	}, img)
}

func (s *vgSurface) Text(x, y float64, str string, align render.Align, c color.Color) {
	width := float64(s.face.Width(str))
	ext := s.face.Extents()
	ascent := float64(ext.Ascent)
	switch align {
	case render.AlignCenterTop:
		x -= width / 2
		y += ascent
	case render.AlignRightMiddle:
		x -= width
		y += ascent / 2
	case render.AlignLeftMiddle:
		y += ascent / 2
	}
	s.c.SetColor(c)
	s.c.FillString(s.face, s.pt(x, y), str)
}

// PNGSurface rasterizes into an in-memory image at one pixel per point.
type PNGSurface struct {
	vgSurface
	canvas *vgimg.Canvas
}

func NewPNGSurface(w, h int) *PNGSurface {
	c := vgimg.NewWith(vgimg.UseWH(vg.Length(w), vg.Length(h)), vgimg.UseDPI(72))
	return &PNGSurface{vgSurface: newVGSurface(c, w, h), canvas: c}
}

// Image returns the backing image. It is shared, not copied.
func (s *PNGSurface) Image() image.Image { return s.canvas.Image() }

func (s *PNGSurface) WriteTo(w io.Writer) (int64, error) {
	return vgimg.PngCanvas{Canvas: s.canvas}.WriteTo(w)
}

// SVGSurface records vector drawing commands; the heatmap is embedded as
// an image.
type SVGSurface struct {
	vgSurface
	canvas *vgsvg.Canvas
}

func NewSVGSurface(w, h int) *SVGSurface {
	c := vgsvg.New(vg.Length(w), vg.Length(h))
	return &SVGSurface{vgSurface: newVGSurface(c, w, h), canvas: c}
}

func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	return s.canvas.WriteTo(w)
}

var (
	_ render.Surface = (*PNGSurface)(nil)
	_ render.Surface = (*SVGSurface)(nil)
)
