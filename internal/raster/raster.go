// Package raster turns a sampled scalar field into a heatmap image.
package raster

import (
	"errors"
	"image"
	"math"

	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/field"
)

// Epsilon keeps the normalization finite for a flat grid.
const Epsilon = 1e-9

var (
	ErrNilGrid     = errors.New("raster: nil sample grid")
	ErrNilColormap = errors.New("raster: nil colormap")
	ErrInvalidSize = errors.New("raster: output size must be at least 1x1")
)

// Intensity normalizes v into [0, 1] and applies a square-root stretch so
// that values near min get most of the color range.
func Intensity(v, min, max float64) float64 {
	t := (v - min) / (max - min + Epsilon)
	if t < 0 || math.IsNaN(t) {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Sqrt(t)
}

// Bilinear interpolates the grid at continuous index (gi, gj). Indices
// outside the grid are clamped to the edge.
func Bilinear(g *field.SampleGrid, gi, gj float64) float64 {
	nx, ny := g.NX(), g.NY()
	gi = clamp(gi, 0, float64(nx-1))
	gj = clamp(gj, 0, float64(ny-1))

	i0, j0 := int(math.Floor(gi)), int(math.Floor(gj))
	ti, tj := gi-float64(i0), gj-float64(j0)
	i1 := min(i0+1, nx-1)
	j1 := min(j0+1, ny-1)

	v0 := g.At(i0, j0)*(1-ti) + g.At(i1, j0)*ti
	v1 := g.At(i0, j1)*(1-ti) + g.At(i1, j1)*ti
	return v0*(1-tj) + v1*tj
}

// GridCoords maps output pixel (x, y) of a w*h image onto continuous grid
// indices. Pixel row 0 corresponds to the top of the domain (VMax).
func GridCoords(g *field.SampleGrid, x, y, w, h int) (gi, gj float64) {
	if w > 1 {
		gi = float64(x) / float64(w-1) * float64(g.NX()-1)
	}
	if h > 1 {
		gj = float64(h-1-y) / float64(h-1) * float64(g.NY()-1)
	}
	return gi, gj
}

// Rasterize renders g into a fresh w*h image. Output resolution is
// independent of grid resolution.
func Rasterize(g *field.SampleGrid, cm *colormap.Map, w, h int) (*image.RGBA, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	if cm == nil {
		return nil, ErrNilColormap
	}
	if w < 1 || h < 1 {
		return nil, ErrInvalidSize
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	vmin, vmax := g.Min(), g.Max()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gi, gj := GridCoords(g, x, y, w, h)
			c := cm.At(Intensity(Bilinear(g, gi, gj), vmin, vmax))
			idx := img.PixOffset(x, y)
			img.Pix[idx+0] = c.R
			img.Pix[idx+1] = c.G
			img.Pix[idx+2] = c.B
			img.Pix[idx+3] = 255
		}
	}
	return img, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
