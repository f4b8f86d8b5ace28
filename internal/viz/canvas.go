package viz

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/losscape/internal/render"
)

// halfBlock paints its top half with the foreground colour and its bottom
// half with the background colour, giving two square-ish pixels per cell.
const halfBlock = "▀"

type label struct {
	r  rune
	fg color.RGBA
}

// Canvas is a colour pixel buffer rendered with half-block characters.
// A canvas of Width x Height cells holds Width x 2*Height pixels.
type Canvas struct {
	Width, Height int
	pix           []color.RGBA
	labels        map[[2]int]label
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	return &Canvas{
		Width:  w,
		Height: h,
		pix:    make([]color.RGBA, w*h*2),
		labels: make(map[[2]int]label),
	}
}

// Size reports the canvas in pixels.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.Width), float64(c.Height * 2)
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Width && y < c.Height*2
}

// At returns the pixel at (x, y); outside the canvas it is transparent.
func (c *Canvas) At(x, y int) color.RGBA {
	if !c.inside(x, y) {
		return color.RGBA{}
	}
	return c.pix[y*c.Width+x]
}

// Set blends col over the pixel at (x, y). Out of range writes are dropped.
func (c *Canvas) Set(x, y int, col color.Color) {
	if !c.inside(x, y) {
		return
	}
	i := y*c.Width + x
	c.pix[i] = over(c.pix[i], col)
}

// over composites src onto an opaque dst.
func over(dst color.RGBA, src color.Color) color.RGBA {
	r, g, b, a := src.RGBA()
	if a == 0xffff {
		return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
	}
	inv := 0xffff - a
	mix := func(d uint8, s uint32) uint8 {
		return uint8((uint32(d)*0x101*inv/0xffff + s) >> 8)
	}
	return color.RGBA{mix(dst.R, r), mix(dst.G, g), mix(dst.B, b), 0xff}
}

func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = color.RGBA{}
	}
	clear(c.labels)
}

// DrawLine draws a line using Bresenham's algorithm. The segment is clipped
// to the canvas first, so far-off endpoints cost nothing extra.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col color.Color) {
	c.line(float64(x0), float64(y0), float64(x1), float64(y1), col)
}

func (c *Canvas) line(x0, y0, x1, y1 float64, col color.Color) {
	w, h := c.Size()
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, -0.5, -0.5, w-0.5, h-0.5)
	if !ok {
		return
	}
	c.bresenham(round(x0), round(y0), round(x1), round(y1), col)
}

func (c *Canvas) bresenham(x0, y0, x1, y1 int, col color.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// clipSegment clips a segment to the rectangle [xmin,xmax]x[ymin,ymax]
// (Liang-Barsky). ok is false when no part is inside or a coordinate is
// not finite.
func clipSegment(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	if !finite(x0, y0, x1, y1, dx, dy) {
		return 0, 0, 0, 0, false
	}
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func round(v float64) int { return int(math.Round(v)) }

// clampPx rounds v and clamps it into [lo, hi] before the int conversion.
func clampPx(v float64, lo, hi int) int {
	return int(math.Round(math.Max(float64(lo), math.Min(v, float64(hi)))))
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if !finite(x, y, w, h) {
		return
	}
	x0, y0 := clampPx(x, 0, c.Width), clampPx(y, 0, c.Height*2)
	x1, y1 := clampPx(x+w, 0, c.Width), clampPx(y+h, 0, c.Height*2)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Set(px, py, col)
		}
	}
}

func (c *Canvas) StrokeRect(x, y, w, h float64, col color.Color, _ float64) {
	c.line(x, y, x+w, y, col)
	c.line(x+w, y, x+w, y+h, col)
	c.line(x+w, y+h, x, y+h, col)
	c.line(x, y+h, x, y, col)
}

// StrokeLine ignores the width; every line is one pixel wide.
func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64, col color.Color, _ float64) {
	c.line(x0, y0, x1, y1, col)
}

func (c *Canvas) Marker(cx, cy, r float64, fill, ring color.Color, ringWidth float64) {
	outer := r
	if ring != nil && ringWidth > 0 {
		outer = r + ringWidth
	}
	if !finite(cx, cy, outer) {
		return
	}
	w, h := c.Size()
	px0, px1 := clampPx(math.Floor(cx-outer), -1, int(w)), clampPx(math.Ceil(cx+outer), -1, int(w))
	py0, py1 := clampPx(math.Floor(cy-outer), -1, int(h)), clampPx(math.Ceil(cy+outer), -1, int(h))
	for py := py0; py <= py1; py++ {
		for px := px0; px <= px1; px++ {
			d := math.Hypot(float64(px)-cx, float64(py)-cy)
			switch {
			case d <= r:
				c.Set(px, py, fill)
			case d <= outer:
				c.Set(px, py, ring)
			}
		}
	}
}

func (c *Canvas) Blit(img *image.RGBA, x, y int) {
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			c.Set(x+px-b.Min.X, y+py-b.Min.Y, img.RGBAAt(px, py))
		}
	}
}

// Text writes s into the cell row holding pixel row y. Labels that would
// run off an edge are shifted back inside.
func (c *Canvas) Text(x, y float64, s string, align render.Align, col color.Color) {
	runes := []rune(s)
	n := len(runes)
	start := clampPx(x, 0, c.Width)
	switch align {
	case render.AlignCenterTop:
		start -= n / 2
	case render.AlignRightMiddle:
		start -= n
	}
	start = max(0, min(start, c.Width-n))
	row := min(clampPx(y, 0, c.Height*2)/2, c.Height-1)
	fg := over(color.RGBA{}, col)
	for i, r := range runes {
		if start+i >= 0 && start+i < c.Width {
			c.labels[[2]int{start + i, row}] = label{r: r, fg: fg}
		}
	}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			top := c.pix[2*row*c.Width+col]
			bottom := c.pix[(2*row+1)*c.Width+col]
			if l, ok := c.labels[[2]int{col, row}]; ok {
				b.WriteString(lipgloss.NewStyle().Foreground(hex(l.fg)).Background(hex(top)).Render(string(l.r)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render(halfBlock))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var _ render.Surface = (*Canvas)(nil)
