package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/config"
	"github.com/san-kum/losscape/internal/export"
	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/optim"
	"github.com/san-kum/losscape/internal/pathio"
	"github.com/san-kum/losscape/internal/render"
	"github.com/san-kum/losscape/internal/viz"
)

var (
	logLevel   string
	configFile string
	preset     string
	// Config overrides
	cmapName     string
	levels       int
	biasPower    float64
	gridSize     int
	outWidth     int
	outHeight    int
	stepMs       int
	learningRate float64
	steps        int
	startA       float64
	startB       float64
	seed         int64
	// render
	dataPlot bool
	atA      float64
	atB      float64
	pathFile string
	// descend
	tune     bool
	rates    []float64
	lossPlot string
	pathOut  string
	runJSON  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "losscape",
		Short: "render and animate mean squared error landscapes",
		Long: `losscape samples the mean squared error of a line fit y = a*x + b over
the (a, b) plane, renders it as a heatmap with iso-loss contours, and
animates gradient descent paths across it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var level slog.Level
			switch logLevel {
			case "debug":
				level = slog.LevelDebug
			case "warn":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			default:
				level = slog.LevelInfo
			}
			handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunPicker(cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "data set preset")
	pf.StringVar(&cmapName, "colormap", config.DefaultColormap, "heatmap colormap")
	pf.IntVar(&levels, "levels", config.DefaultLevels, "number of contour levels")
	pf.Float64Var(&biasPower, "bias", config.DefaultBiasPower, "contour level bias power")
	pf.IntVar(&gridSize, "grid", config.DefaultGrid, "samples per axis")
	pf.IntVar(&outWidth, "width", config.DefaultWidth, "output width in pixels")
	pf.IntVar(&outHeight, "height", config.DefaultHeight, "output height in pixels")
	pf.IntVar(&stepMs, "step-ms", config.DefaultStepMs, "animation step period in milliseconds")
	pf.Float64Var(&learningRate, "lr", config.DefaultLearningRate, "gradient descent learning rate")
	pf.IntVar(&steps, "steps", config.DefaultSteps, "gradient descent steps")
	pf.Float64Var(&startA, "start-a", 0, "descent start slope")
	pf.Float64Var(&startB, "start-b", 0, "descent start intercept")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	renderCmd := &cobra.Command{
		Use:   "render [output.png|output.svg]",
		Short: "render the loss landscape or the data plot to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  renderImage,
	}
	renderCmd.Flags().BoolVar(&dataPlot, "data-plot", false, "draw the data points and fit line instead of the landscape")
	renderCmd.Flags().Float64Var(&atA, "a", 0, "slope of the current marker")
	renderCmd.Flags().Float64Var(&atB, "b", 0, "intercept of the current marker")
	renderCmd.Flags().StringVar(&pathFile, "path", "", "path file (b a per line, or a --json run record) drawn as a trail")

	htmlCmd := &cobra.Command{
		Use:   "html [output.html]",
		Short: "write an interactive heatmap page",
		Args:  cobra.ExactArgs(1),
		RunE:  writeHTML,
	}

	descendCmd := &cobra.Command{
		Use:   "descend",
		Short: "run gradient descent and print the path as b a lines",
		RunE:  runDescend,
	}
	descendCmd.Flags().BoolVar(&tune, "tune", false, "pick the learning rate by grid search first")
	descendCmd.Flags().Float64SliceVar(&rates, "rates", []float64{0.001, 0.003, 0.01, 0.02, 0.03}, "learning rates tried by --tune")
	descendCmd.Flags().StringVar(&lossPlot, "plot", "", "save the loss curve (png, svg, pdf)")
	descendCmd.Flags().StringVarP(&pathOut, "out", "o", "", "write the path to a file instead of stdout")
	descendCmd.Flags().StringVar(&runJSON, "json", "", "save the full run record as JSON")

	animateCmd := &cobra.Command{
		Use:   "animate [output.gif]",
		Short: "render a descent path as an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  animateGIF,
	}
	animateCmd.Flags().StringVar(&pathFile, "path", "", "path file (b a per line, or a --json run record); default runs gradient descent")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate gradient descent in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list data set presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPOINTS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(p.Points), p.Description)
			}
			return w.Flush()
		},
	}

	colormapsCmd := &cobra.Command{
		Use:   "colormaps",
		Short: "list colormaps",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range colormap.Names() {
				cm, _ := colormap.Lookup(name)
				fmt.Printf("%-12s %s\n", name, strings.Join(cm.Hex(), " "))
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [config.yaml]",
		Short: "write the effective configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			slog.Info("wrote config", "path", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(renderCmd, htmlCmd, descendCmd, animateCmd, liveCmd, presetsCmd, colormapsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the preset and finally any
// flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		slog.Debug("loaded config", "path", configFile)
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("colormap") {
		cfg.Colormap = cmapName
	}
	if flags.Changed("levels") {
		cfg.Contours.Levels = levels
	}
	if flags.Changed("bias") {
		cfg.Contours.BiasPower = biasPower
	}
	if flags.Changed("grid") {
		cfg.Grid.NX, cfg.Grid.NY = gridSize, gridSize
	}
	if flags.Changed("width") {
		cfg.Output.Width = outWidth
	}
	if flags.Changed("height") {
		cfg.Output.Height = outHeight
	}
	if flags.Changed("step-ms") {
		cfg.Animation.StepMs = stepMs
	}
	if flags.Changed("lr") {
		cfg.Descent.LearningRate = learningRate
	}
	if flags.Changed("steps") {
		cfg.Descent.Steps = steps
	}
	if flags.Changed("start-a") {
		cfg.Descent.Start.U = startA
	}
	if flags.Changed("start-b") {
		cfg.Descent.Start.V = startB
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("effective config", "points", len(cfg.Points), "grid", cfg.Grid.NX, "colormap", cfg.Colormap)
	return cfg, nil
}

func newRenderer(cfg *config.Config) (*render.FieldRenderer, error) {
	opts, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	return render.NewFieldRenderer(opts, cfg.Points)
}

func readPath(file string) ([]field.Param, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var path []field.Param
	if strings.EqualFold(filepath.Ext(file), ".json") {
		var run *export.Run
		if run, err = export.ReadRunJSON(f); err == nil {
			path = run.Path
		}
	} else {
		path, err = pathio.Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("%s: no valid rows found", file)
	}
	return path, nil
}

// descend runs gradient descent and keeps the finite part of a diverging
// path, logging where it stopped.
func descend(points []field.Point, start field.Param, lr float64, steps int) ([]field.Param, error) {
	path, err := optim.Descend(points, start, lr, steps)
	if errors.Is(err, optim.ErrDiverged) {
		slog.Warn("descent diverged, path truncated", "lr", lr, "steps", len(path)-1, "err", err)
		return path, nil
	}
	return path, err
}

// writeFile creates name and hands it to write, reporting close errors.
// The file is removed again if anything fails.
func writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(name)
		}
	}()
	return write(f)
}

type imageSurface interface {
	render.Surface
	io.WriterTo
}

func renderImage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	out := args[0]
	var s imageSurface
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".png":
		s = export.NewPNGSurface(cfg.Output.Width, cfg.Output.Height)
	case ".svg":
		s = export.NewSVGSurface(cfg.Output.Width, cfg.Output.Height)
	default:
		return fmt.Errorf("unsupported image format %q (use .png or .svg)", ext)
	}

	current := field.Param{U: atA, V: atB}
	var path []field.Param
	if pathFile != "" {
		if path, err = readPath(pathFile); err != nil {
			return err
		}
		if !cmd.Flags().Changed("a") && !cmd.Flags().Changed("b") {
			current = path[len(path)-1]
		}
	}

	start := time.Now()
	if dataPlot {
		err = r.DrawData(s, current)
	} else {
		err = r.DrawField(s, current)
		if err == nil && len(path) > 0 {
			err = r.DrawPath(s, path, len(path)-1)
		}
	}
	if err != nil {
		return err
	}

	if err := writeFile(out, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	}); err != nil {
		return err
	}
	slog.Info("rendered", "path", out, "width", cfg.Output.Width, "height", cfg.Output.Height,
		"mse", r.Loss(current), "elapsed", time.Since(start))
	return nil
}

func writeHTML(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	g, err := r.Grid()
	if err != nil {
		return err
	}
	title := "MSE landscape"
	if preset != "" {
		title += " (" + preset + ")"
	}
	if err := writeFile(args[0], func(w io.Writer) error {
		return export.HeatmapHTML(w, g, r.Options().Colormap, title)
	}); err != nil {
		return err
	}
	slog.Info("wrote heatmap", "path", args[0], "grid", g.NX())
	return nil
}

func runDescend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d := cfg.Descent
	if tune {
		best, loss, err := optim.Tune(context.Background(), cfg.Points, d.Start, rates, d.Steps)
		if err != nil {
			return err
		}
		slog.Info("tuned learning rate", "rate", best, "final_mse", loss)
		d.LearningRate = best
	}

	path, err := descend(cfg.Points, d.Start, d.LearningRate, d.Steps)
	if err != nil {
		return err
	}
	losses, err := optim.Losses(cfg.Points, path)
	if err != nil {
		return err
	}
	end := path[len(path)-1]
	run := &export.Run{
		Timestamp:    time.Now(),
		Points:       cfg.Points,
		LearningRate: d.LearningRate,
		Steps:        len(path) - 1,
		Start:        d.Start,
		Path:         path,
		Losses:       losses,
	}
	attrs := []any{"steps", len(path) - 1, "lr", d.LearningRate, "end", end.String(), "mse", losses[len(losses)-1]}
	if opt, err := optim.LeastSquares(cfg.Points); err == nil {
		run.Optimum = &opt
		attrs = append(attrs, "optimum", opt.String())
	}
	slog.Info("descent finished", attrs...)

	if pathOut != "" {
		if err := writeFile(pathOut, func(w io.Writer) error { return pathio.Format(w, path) }); err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(losses, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("MSE per step")))
	} else if err := pathio.Format(os.Stdout, path); err != nil {
		return err
	}

	if runJSON != "" {
		if err := writeFile(runJSON, func(w io.Writer) error { return export.WriteRunJSON(w, run) }); err != nil {
			return err
		}
		slog.Info("saved run", "path", runJSON)
	}

	if lossPlot != "" {
		if err := export.SaveLossCurve(lossPlot, losses, float64(cfg.Output.Width), float64(cfg.Output.Height)); err != nil {
			return err
		}
		slog.Info("saved loss curve", "path", lossPlot)
	}
	return nil
}

func animateGIF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	var path []field.Param
	if pathFile != "" {
		path, err = readPath(pathFile)
	} else {
		path, err = descend(cfg.Points, cfg.Descent.Start, cfg.Descent.LearningRate, cfg.Descent.Steps)
	}
	if err != nil {
		return err
	}

	delay := max(1, cfg.Animation.StepMs/10)
	start := time.Now()
	if err := writeFile(args[0], func(w io.Writer) error {
		return export.AnimateGIF(w, r, path, cfg.Output.Width, cfg.Output.Height, delay)
	}); err != nil {
		return err
	}
	slog.Info("wrote animation", "path", args[0], "frames", len(path), "elapsed", time.Since(start))
	return nil
}
