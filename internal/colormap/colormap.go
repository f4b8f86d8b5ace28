// Package colormap maps normalized scalars onto colors.
//
// A [Map] is a piecewise-linear RGB gradient through evenly spaced anchor
// colors. It is level-agnostic: any nonlinear emphasis (such
// as stretching values near a minimum) is applied by the caller before
// calling [Map.At].
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	ErrTooFewAnchors = errors.New("colormap: need at least 2 anchor colors")
	ErrUnknownMap    = errors.New("colormap: unknown map")
)

// Map interpolates between anchors spaced evenly along [0, 1].
type Map struct {
	Name    string
	anchors []colorful.Color
}

// New builds a map from hex anchors such as "#fff7ae".
func New(name string, anchors ...string) (*Map, error) {
	if len(anchors) < 2 {
		return nil, ErrTooFewAnchors
	}
	m := &Map{Name: name, anchors: make([]colorful.Color, len(anchors))}
	for i, h := range anchors {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap %s: anchor %d: %w", name, i, err)
		}
		m.anchors[i] = c
	}
	return m, nil
}

// MustNew is like New but panics on error. Used for the built-in maps.
func MustNew(name string, anchors ...string) *Map {
	m, err := New(name, anchors...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Map) String() string { return m.Name }

// At returns the color for t. Values outside [0, 1] saturate; NaN maps to 0.
func (m *Map) At(t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	n := len(m.anchors)
	s := t * float64(n-1)
	i := int(math.Floor(s))
	if i >= n-1 {
		return toRGBA(m.anchors[n-1])
	}
	f := s - float64(i)
	return toRGBA(m.anchors[i].BlendRgb(m.anchors[i+1], f))
}

// Hex returns the anchors as hex strings, first to last.
func (m *Map) Hex() []string {
	out := make([]string, len(m.anchors))
	for i, c := range m.anchors {
		out[i] = c.Hex()
	}
	return out
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Built-in maps.
var (
	// PlasmaLite runs from a light warm tone through pink and lavender to
	// deep violet.
	PlasmaLite = MustNew("plasma-lite", "#fff7ae", "#ffb3ba", "#c580de", "#58508d")

	Viridis = MustNew("viridis",
		"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725")

	Greys = MustNew("greys", "#ffffff", "#000000")
)

var registry = map[string]*Map{
	PlasmaLite.Name: PlasmaLite,
	Viridis.Name:    Viridis,
	Greys.Name:      Greys,
}

// Lookup returns a built-in map by name.
func Lookup(name string) (*Map, error) {
	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownMap, name, Names())
	}
	return m, nil
}

// Names lists the built-in maps in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
