package render

import (
	"image"
	"image/color"
)

// Align controls how Text is positioned relative to its anchor point.
type Align int

const (
	AlignCenterTop Align = iota // centered horizontally, text below the anchor
	AlignRightMiddle            // right edge on the anchor, vertically centered
	AlignLeftMiddle
)

// Surface is the drawing capability the renderer needs. Coordinates are
// logical pixels with the origin at the top-left corner. Device pixel
// ratio and physical sizing belong to the implementation.
type Surface interface {
	Size() (w, h float64)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h float64, c color.Color, width float64)
	StrokeLine(x0, y0, x1, y1 float64, c color.Color, width float64)
	// Marker draws a filled circle, optionally ringed when ringWidth > 0.
	Marker(cx, cy, r float64, fill, ring color.Color, ringWidth float64)
	// Blit copies img 1:1 with its top-left corner at (x, y).
	Blit(img *image.RGBA, x, y int)
	Text(x, y float64, s string, align Align, c color.Color)
}

// Palette holds the stroke and fill colors of both plots.
type Palette struct {
	Background color.Color
	Frame      color.Color
	Contour    color.Color
	Marker     color.Color
	MarkerRing color.Color
	Trail      color.Color
	Axis       color.Color
	Point      color.Color
	FitLine    color.Color
	ZeroLine   color.Color
	Label      color.Color
}

// DefaultPalette is a light style: white background, grey frame, dark marker.
var DefaultPalette = Palette{
	Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
	Frame:      color.RGBA{0xe5, 0xe7, 0xeb, 0xff},
	Contour:    color.NRGBA{0xff, 0xff, 0xff, 0xe6},
	Marker:     color.RGBA{0x11, 0x18, 0x27, 0xff},
	MarkerRing: color.RGBA{0xff, 0xff, 0xff, 0xff},
	Trail:      color.RGBA{0x0e, 0xa5, 0xe9, 0xff},
	Axis:       color.RGBA{0x37, 0x41, 0x51, 0xff},
	Point:      color.RGBA{0x25, 0x63, 0xeb, 0xff},
	FitLine:    color.RGBA{0x0e, 0xa5, 0xe9, 0xff},
	ZeroLine:   color.RGBA{0xe1, 0x1d, 0x48, 0xff},
	Label:      color.RGBA{0x6b, 0x72, 0x80, 0xff},
}
