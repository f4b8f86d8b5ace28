package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/field"
)

var ErrNothingToExport = errors.New("export: nothing to export")

// HeatmapHTML writes an interactive heatmap page of g. Cells are
// coloured by a linear visual map over the anchors of cm.
func HeatmapHTML(w io.Writer, g *field.SampleGrid, cm *colormap.Map, title string) error {
	if g == nil || cm == nil {
		return ErrNothingToExport
	}
	nx, ny := g.NX(), g.NY()
	xs := make([]string, nx)
	for i := range xs {
		xs[i] = strconv.FormatFloat(g.Coord(i, 0).U, 'f', 2, 64)
	}
	ys := make([]string, ny)
	for j := range ys {
		ys[j] = strconv.FormatFloat(g.Coord(0, j).V, 'f', 2, 64)
	}

	data := make([]opts.HeatMapData, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, g.At(i, j)}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("grid=%dx%d min=%.4g max=%.4g", nx, ny, g.Min(), g.Max())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "a", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ys, Name: "b", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(g.Min()),
			Max:        float32(g.Max()),
			InRange:    &opts.VisualMapInRange{Color: cm.Hex()},
		}),
	)
	hm.SetXAxis(xs).AddSeries("mse", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	return nil
}
