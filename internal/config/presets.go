package config

import (
	"sort"

	"github.com/san-kum/losscape/internal/field"
)

// Preset is a named data set with a suggested descent start.
type Preset struct {
	Description string
	Points      []field.Point
	Start       field.Param
}

var Presets = map[string]*Preset{
	"classic": {
		Description: "three points, shallow negative slope",
		Points:      []field.Point{{X: 2, Y: 8}, {X: 4, Y: 3}, {X: 9, Y: 6}},
	},
	"rising": {
		Description: "five points close to y = x",
		Points:      []field.Point{{X: 1, Y: 1}, {X: 3, Y: 4}, {X: 5, Y: 5}, {X: 7, Y: 8}, {X: 9, Y: 9}},
		Start:       field.Param{U: -2, V: 10},
	},
	"flat": {
		Description: "constant y = 5",
		Points:      []field.Point{{X: 1, Y: 5}, {X: 4, Y: 5}, {X: 6, Y: 5}, {X: 9, Y: 5}},
		Start:       field.Param{U: 2, V: -4},
	},
	"spread": {
		Description: "six noisy points over the whole box",
		Points:      []field.Point{{X: 0, Y: 0}, {X: 2, Y: 10}, {X: 5, Y: 2}, {X: 6, Y: 6}, {X: 8, Y: 9}, {X: 10, Y: 4}},
		Start:       field.Param{U: 2, V: 10},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply replaces the data set and descent start of c with the preset's.
func (p *Preset) Apply(c *Config) {
	c.Points = append([]field.Point(nil), p.Points...)
	c.Descent.Start = p.Start
}
