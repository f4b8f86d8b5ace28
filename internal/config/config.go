package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/render"
)

const (
	DefaultGrid         = 120
	DefaultLevels       = 24
	DefaultBiasPower    = 2.25
	DefaultColormap     = "plasma-lite"
	DefaultStepMs       = 60
	DefaultWidth        = 600
	DefaultHeight       = 380
	DefaultLearningRate = 0.01
	DefaultSteps        = 200
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Domain    field.Domain    `yaml:"domain"`
	Data      render.Bounds   `yaml:"data"`
	Grid      GridConfig      `yaml:"grid"`
	Contours  ContourConfig   `yaml:"contours"`
	Colormap  string          `yaml:"colormap"`
	Animation AnimationConfig `yaml:"animation"`
	Output    OutputConfig    `yaml:"output"`
	Descent   DescentConfig   `yaml:"descent"`
	Points    []field.Point   `yaml:"points"`
	Seed      int64           `yaml:"seed"`
}

type GridConfig struct {
	NX int `yaml:"nx"`
	NY int `yaml:"ny"`
}

type ContourConfig struct {
	Levels    int     `yaml:"levels"`
	BiasPower float64 `yaml:"bias_power"`
}

type AnimationConfig struct {
	StepMs int `yaml:"step_ms"`
}

type OutputConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type DescentConfig struct {
	LearningRate float64     `yaml:"learning_rate"`
	Steps        int         `yaml:"steps"`
	Start        field.Param `yaml:"start"`
}

func DefaultConfig() *Config {
	opts := render.DefaultOptions()
	return &Config{
		Domain:   opts.Domain,
		Data:     opts.Data,
		Grid:     GridConfig{NX: DefaultGrid, NY: DefaultGrid},
		Contours: ContourConfig{Levels: DefaultLevels, BiasPower: DefaultBiasPower},
		Colormap: DefaultColormap,
		Animation: AnimationConfig{
			StepMs: DefaultStepMs,
		},
		Output: OutputConfig{Width: DefaultWidth, Height: DefaultHeight},
		Descent: DescentConfig{
			LearningRate: DefaultLearningRate,
			Steps:        DefaultSteps,
		},
		Points: append([]field.Point(nil), Presets["classic"].Points...),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields the render options do not cover and then the
// render options themselves.
func (c *Config) Validate() error {
	if len(c.Points) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, field.ErrNoPoints)
	}
	if c.Animation.StepMs <= 0 {
		return fmt.Errorf("%w: animation.step_ms must be positive, got %d", ErrInvalidConfig, c.Animation.StepMs)
	}
	if c.Output.Width < 1 || c.Output.Height < 1 {
		return fmt.Errorf("%w: output size %dx%d", ErrInvalidConfig, c.Output.Width, c.Output.Height)
	}
	if !(c.Descent.LearningRate > 0) {
		return fmt.Errorf("%w: descent.learning_rate must be positive", ErrInvalidConfig)
	}
	if c.Descent.Steps < 0 {
		return fmt.Errorf("%w: descent.steps must not be negative", ErrInvalidConfig)
	}
	if _, err := c.RenderOptions(); err != nil {
		return err
	}
	return nil
}

// RenderOptions converts the plot settings into renderer options.
func (c *Config) RenderOptions() (render.Options, error) {
	cm, err := colormap.Lookup(c.Colormap)
	if err != nil {
		return render.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	opts := render.DefaultOptions()
	opts.Domain = c.Domain
	opts.Data = c.Data
	opts.NX, opts.NY = c.Grid.NX, c.Grid.NY
	opts.Levels = c.Contours.Levels
	opts.BiasPower = c.Contours.BiasPower
	opts.Colormap = cm
	if err := opts.Validate(); err != nil {
		return render.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return opts, nil
}

func (c *Config) StepPeriod() time.Duration {
	return time.Duration(c.Animation.StepMs) * time.Millisecond
}
