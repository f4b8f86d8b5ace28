package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/render"
)

// AnimateGIF renders one field plot per path step, with the marker at the
// step and the trail so far, and encodes them as a looping GIF. delay is
// in 100ths of a second.
func AnimateGIF(w io.Writer, r *render.FieldRenderer, path []field.Param, width, height, delay int) error {
	if len(path) == 0 {
		return ErrNothingToExport
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(path)),
		Delay:     make([]int, 0, len(path)),
		LoopCount: 0,
	}
	for i, p := range path {
		s := NewPNGSurface(width, height)
		if err := r.DrawField(s, p); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := r.DrawPath(s, path, i); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		src := s.Image()
		pimg := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), src, src.Bounds().Min)

		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}
