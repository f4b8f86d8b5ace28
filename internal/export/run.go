package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/san-kum/losscape/internal/field"
)

// ErrNonFinite reports a run holding an infinite or NaN value, which JSON
// cannot encode.
var ErrNonFinite = errors.New("export: run holds a non-finite value")

// Run is the JSON record of one gradient descent.
type Run struct {
	Timestamp    time.Time     `json:"timestamp"`
	Points       []field.Point `json:"points"`
	LearningRate float64       `json:"learning_rate"`
	Steps        int           `json:"steps"`
	Start        field.Param   `json:"start"`
	Path         []field.Param `json:"path"`
	Losses       []float64     `json:"losses"`
	Optimum      *field.Param  `json:"optimum,omitempty"`
}

// Final returns the last visited parameters.
func (r *Run) Final() (field.Param, bool) {
	if len(r.Path) == 0 {
		return field.Param{}, false
	}
	return r.Path[len(r.Path)-1], true
}

func WriteRunJSON(w io.Writer, r *Run) error {
	if r == nil || len(r.Path) == 0 {
		return ErrNothingToExport
	}
	for i, p := range r.Path {
		if !finite(p.U) || !finite(p.V) {
			return fmt.Errorf("%w: path step %d", ErrNonFinite, i)
		}
	}
	for i, l := range r.Losses {
		if !finite(l) {
			return fmt.Errorf("%w: loss at step %d", ErrNonFinite, i)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func ReadRunJSON(rd io.Reader) (*Run, error) {
	var r Run
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
