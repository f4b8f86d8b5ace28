package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/losscape/internal/field"
)

var (
	ErrBadSearch    = errors.New("optim: each parameter needs a non-empty range")
	ErrNoCandidates = errors.New("optim: no candidate produced a finite score")
)

// Objective scores one assignment of hyper-parameters; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d names for %d ranges", ErrBadSearch, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadSearch, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search evaluates every combination of the ranges. Candidates whose
// objective fails or is not finite are skipped.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidates
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

const paramRate = "learning_rate"

// Tune picks the learning rate whose descent ends at the lowest loss.
func Tune(ctx context.Context, points []field.Point, start field.Param, rates []float64, steps int) (float64, float64, error) {
	f, err := field.MSE(points)
	if err != nil {
		return 0, 0, err
	}
	gs, err := NewGridSearch([]string{paramRate}, [][]float64{rates})
	if err != nil {
		return 0, 0, err
	}
	best, loss, err := gs.Search(ctx, func(_ context.Context, params map[string]float64) (float64, error) {
		path, err := Descend(points, start, params[paramRate], steps)
		if err != nil {
			return 0, err
		}
		end := path[len(path)-1]
		return f(end.U, end.V), nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("tune learning rate: %w", err)
	}
	return best[paramRate], loss, nil
}
