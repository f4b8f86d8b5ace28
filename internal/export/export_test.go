package export

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/raster"
	"github.com/san-kum/losscape/internal/render"
)

var classic = []field.Point{{X: 2, Y: 8}, {X: 4, Y: 3}, {X: 9, Y: 6}}

func newRenderer(t *testing.T) *render.FieldRenderer {
	t.Helper()
	opts := render.DefaultOptions()
	opts.NX, opts.NY = 30, 30
	r, err := render.NewFieldRenderer(opts, classic)
	require.NoError(t, err)
	return r
}

func mustRaster(t *testing.T, g *field.SampleGrid, cm *colormap.Map, w, h int) *image.RGBA {
	t.Helper()
	img, err := raster.Rasterize(g, cm, w, h)
	require.NoError(t, err)
	return img
}

func TestPNGSurface_FieldPlot(t *testing.T) {
	r := newRenderer(t)
	s := NewPNGSurface(200, 160)
	w, h := s.Size()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 160.0, h)

	require.NoError(t, r.DrawField(s, field.Param{}))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())

	// The padding band is background, the centre is heatmap.
	bg := color.RGBAModel.Convert(img.At(10, 80)).(color.RGBA)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, bg)
	mid := color.RGBAModel.Convert(img.At(100, 80)).(color.RGBA)
	assert.NotEqual(t, bg, mid)
}

func TestPNGSurface_BlitIsNotFlipped(t *testing.T) {
	s := NewPNGSurface(40, 40)
	s.FillRect(0, 0, 40, 40, color.White)
	g, err := field.NewSampleGrid(field.Domain{UMin: 0, UMax: 1, VMin: 0, VMax: 1}, 2, 2, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	s.Blit(mustRaster(t, g, colormap.Greys, 20, 20), 10, 10)

	img := s.Image()
	top := color.GrayModel.Convert(img.At(20, 11)).(color.Gray)
	bottom := color.GrayModel.Convert(img.At(20, 28)).(color.Gray)
	assert.Less(t, top.Y, bottom.Y, "high values (dark) belong at the top")
}

func TestSVGSurface(t *testing.T) {
	r := newRenderer(t)
	s := NewSVGSurface(300, 200)
	require.NoError(t, r.DrawData(s, field.Param{U: 0.5, V: 1}))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestHeatmapHTML(t *testing.T) {
	r := newRenderer(t)
	g, err := r.Grid()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, HeatmapHTML(&buf, g, colormap.PlasmaLite, "MSE landscape"))
	html := buf.String()
	assert.Contains(t, html, "MSE landscape")
	assert.Contains(t, strings.ToLower(html), "#58508d")

	assert.ErrorIs(t, HeatmapHTML(&buf, nil, colormap.PlasmaLite, "x"), ErrNothingToExport)
}

func TestLossCurve(t *testing.T) {
	_, err := LossCurve(nil, "empty")
	assert.ErrorIs(t, err, ErrNothingToExport)

	p, err := LossCurve([]float64{10, 5, 2, 1}, "loss")
	require.NoError(t, err)
	assert.Equal(t, "loss", p.Title.Text)

	out := filepath.Join(t.TempDir(), "loss.png")
	require.NoError(t, SaveLossCurve(out, []float64{10, 5, 2, 1}, 300, 200))
}

func TestAnimateGIF(t *testing.T) {
	r := newRenderer(t)
	path := []field.Param{{U: 0, V: 0}, {U: 0.2, V: 1}, {U: 0.3, V: 2}}

	var buf bytes.Buffer
	require.NoError(t, AnimateGIF(&buf, r, path, 160, 120, 6))
	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
	assert.Equal(t, []int{6, 6, 6}, g.Delay)

	assert.ErrorIs(t, AnimateGIF(&buf, r, nil, 160, 120, 6), ErrNothingToExport)
}
