package viz

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/render"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func TestCanvas_Size(t *testing.T) {
	c := NewCanvas(10, 4)
	w, h := c.Size()
	if w != 10 || h != 8 {
		t.Errorf("Size() = %v x %v, want 10 x 8", w, h)
	}
}

func TestCanvas_SetOutOfRange(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(-1, 0, red)
	c.Set(0, 4, red)
	c.Set(4, 0, red)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c.At(x, y) != (color.RGBA{}) {
				t.Fatalf("pixel (%d, %d) written", x, y)
			}
		}
	}
}

func TestCanvas_Blend(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0, white)
	c.Set(0, 0, color.NRGBA{0, 0, 0, 128})
	got := c.At(0, 0)
	if got.R < 120 || got.R > 135 || got.A != 255 {
		t.Errorf("half black over white = %v, want mid grey", got)
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 9, 9, red)
	for i := 0; i < 10; i++ {
		if c.At(i, i) != red {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
	if c.At(9, 0) == red {
		t.Error("unexpected pixel off the line")
	}
}

func TestCanvas_StrokeLineFarEndpoint(t *testing.T) {
	c := NewCanvas(10, 5)
	done := make(chan struct{})
	go func() {
		c.StrokeLine(0, 0, 1e12, 1e12, red, 1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StrokeLine did not return for a far endpoint")
	}
	for i := 0; i < 10; i++ {
		if c.At(i, i) != red {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
}

func TestCanvas_NonFiniteDrawsNothing(t *testing.T) {
	c := NewCanvas(10, 5)
	c.StrokeLine(0, 0, math.Inf(1), 3, red, 1)
	c.StrokeLine(math.NaN(), 0, 5, 5, red, 1)
	c.StrokeRect(0, 0, math.Inf(-1), 4, red, 1)
	c.FillRect(math.NaN(), 0, 4, 4, red)
	c.Marker(math.Inf(1), 2, 1.5, red, white, 1)
	c.Marker(-1e15, 1e15, 1.5, red, white, 1)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c.At(x, y) != (color.RGBA{}) {
				t.Fatalf("pixel (%d, %d) written", x, y)
			}
		}
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           [4]float64
		ok             bool
	}{
		{"inside", 1, 1, 5, 5, [4]float64{1, 1, 5, 5}, true},
		{"crosses right edge", 5, 5, 15, 5, [4]float64{5, 5, 10, 5}, true},
		{"spans both sides", -10, 2, 20, 2, [4]float64{0, 2, 10, 2}, true},
		{"entirely above", 1, -5, 9, -1, [4]float64{}, false},
		{"vertical outside", 12, 0, 12, 10, [4]float64{}, false},
		{"nan", math.NaN(), 0, 1, 1, [4]float64{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, 0, 0, 10, 10)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			got := [4]float64{x0, y0, x1, y1}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("clipped = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestCanvas_Marker(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Marker(10, 10, 2, red, white, 2)
	if c.At(10, 10) != red {
		t.Error("marker centre not filled")
	}
	if c.At(13, 10) != white {
		t.Errorf("ring pixel = %v, want white", c.At(13, 10))
	}
	if c.At(16, 10) != (color.RGBA{}) {
		t.Error("marker drawn beyond its ring")
	}
}

func TestCanvas_Blit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, red)
	c := NewCanvas(5, 5)
	c.Blit(img, 3, 4)
	if c.At(4, 5) != red {
		t.Errorf("blitted pixel = %v, want red", c.At(4, 5))
	}
}

func TestCanvas_TextStaysInside(t *testing.T) {
	c := NewCanvas(10, 3)
	c.Text(1, 100, "-5", render.AlignRightMiddle, white)
	if l, ok := c.labels[[2]int{0, 2}]; !ok || l.r != '-' {
		t.Errorf("label not clamped to the bottom-left cell: %v", c.labels)
	}
	c.Text(9, 0, "12", render.AlignLeftMiddle, white)
	if l, ok := c.labels[[2]int{9, 0}]; !ok || l.r != '2' {
		t.Errorf("label not clamped to the right edge: %v", c.labels)
	}
}

func TestCanvas_String(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Text(0, 0, "ab", render.AlignLeftMiddle, white)
	out := c.String()
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
	if got := strings.Count(out, halfBlock); got != 4 {
		t.Errorf("half blocks = %d, want 4", got)
	}
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Error("label text missing")
	}
}

func TestCanvas_RendersField(t *testing.T) {
	opts := render.DefaultOptions()
	opts.NX, opts.NY = 30, 30
	opts.FieldPad = fieldPad
	opts.MarkerRadius = 1.5
	opts.Palette = terminalPalette
	r, err := render.NewFieldRenderer(opts, []field.Point{{X: 2, Y: 8}, {X: 4, Y: 3}, {X: 9, Y: 6}})
	if err != nil {
		t.Fatal(err)
	}

	c := NewCanvas(40, 15)
	if err := r.DrawField(c, field.Param{}); err != nil {
		t.Fatalf("DrawField() error = %v", err)
	}
	if c.At(3, 3) != terminalPalette.Background {
		t.Errorf("padding pixel = %v, want background", c.At(3, 3))
	}
	if c.At(20, 15) == terminalPalette.Background {
		t.Error("plot area left empty")
	}
}
