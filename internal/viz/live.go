package viz

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/losscape/internal/anim"
	"github.com/san-kum/losscape/internal/colormap"
	"github.com/san-kum/losscape/internal/config"
	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/optim"
	"github.com/san-kum/losscape/internal/render"
)

const (
	width          = 80
	height         = 24
	panelWidth     = 38
	resizeDebounce = 100 * time.Millisecond
	minPeriod      = 10 * time.Millisecond
	maxPeriod      = time.Second
	fieldPad       = 6
	randomPoints   = 3
)

// terminalPalette suits a dark terminal background.
var terminalPalette = render.Palette{
	Background: color.RGBA{0x0a, 0x0a, 0x0a, 0xff},
	Frame:      color.RGBA{0x44, 0x44, 0x66, 0xff},
	Contour:    color.NRGBA{0xff, 0xff, 0xff, 0xe6},
	Marker:     color.RGBA{0x11, 0x18, 0x27, 0xff},
	MarkerRing: color.RGBA{0xff, 0xff, 0xff, 0xff},
	Trail:      color.RGBA{0x0e, 0xa5, 0xe9, 0xff},
	Axis:       color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
	Point:      color.RGBA{0x25, 0x63, 0xeb, 0xff},
	FitLine:    color.RGBA{0x0e, 0xa5, 0xe9, 0xff},
	ZeroLine:   color.RGBA{0xe1, 0x1d, 0x48, 0xff},
	Label:      color.RGBA{0x88, 0x88, 0x99, 0xff},
}

type TickMsg time.Time

// resizeMsg fires once a burst of window size changes has settled.
type resizeMsg struct{ gen int }

// Model animates gradient descent over the MSE landscape. The animator
// decides when stepping stops; Model only keeps a tick in flight while
// the animator advances.
type Model struct {
	cfg      *config.Config
	renderer *render.FieldRenderer
	anim     *anim.Animator
	canvas   *Canvas
	rng      *rand.Rand
	theme    Theme
	styles   styles
	losses   []float64

	width, height      int
	pendingW, pendingH int
	resizeGen          int

	ticking  bool
	message  string
	showHelp bool
}

// NewModel builds the live view for cfg and loads a descent path from the
// configured start.
func NewModel(cfg *config.Config) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	theme := CurrentTheme
	for _, t := range Themes {
		if t.Colormap == cfg.Colormap {
			theme = t
			break
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := anim.New()
	if err := a.SetPeriod(cfg.StepPeriod()); err != nil {
		return Model{}, err
	}

	m := Model{
		cfg:    cfg,
		anim:   a,
		rng:    rand.New(rand.NewSource(seed)),
		width:  width,
		height: height,
	}
	if err := m.applyTheme(theme, cfg.Points); err != nil {
		return Model{}, err
	}
	m.canvas = NewCanvas(m.canvasSize())
	if err := m.descend(); err != nil {
		return Model{}, err
	}
	m.ticking = m.anim.Running()
	return m, nil
}

func (m *Model) applyTheme(t Theme, points []field.Point) error {
	opts, err := m.cfg.RenderOptions()
	if err != nil {
		return err
	}
	cm, err := colormap.Lookup(t.Colormap)
	if err != nil {
		return err
	}
	opts.Colormap = cm
	opts.FieldPad = fieldPad
	opts.MarkerRadius = 1.5
	opts.Palette = terminalPalette

	r, err := render.NewFieldRenderer(opts, points)
	if err != nil {
		return err
	}
	m.renderer = r
	m.theme = t
	m.styles = newStyles(t)
	return nil
}

// descend loads a fresh gradient-descent path for the current points.
func (m *Model) descend() error {
	d := m.cfg.Descent
	path, err := optim.Descend(m.renderer.Points(), d.Start, d.LearningRate, d.Steps)
	diverged := errors.Is(err, optim.ErrDiverged)
	if err != nil && !diverged {
		return err
	}
	if err := m.anim.SetPath(path); err != nil {
		return err
	}
	m.losses = []float64{m.renderer.Loss(path[0])}
	m.message = fmt.Sprintf("descending %d steps at lr=%g", d.Steps, d.LearningRate)
	if diverged {
		m.message = fmt.Sprintf("lr=%g diverges after %d steps", d.LearningRate, len(path)-1)
	}
	return nil
}

func (m Model) canvasSize() (int, int) {
	return max(10, m.width-panelWidth-3), max(5, m.height-2)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.anim.Period(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// startTicking schedules a tick unless one is already in flight.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.anim.Running() {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m Model) Init() tea.Cmd {
	if m.ticking {
		return m.tick()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resizeGen++
		m.pendingW, m.pendingH = msg.Width, msg.Height
		gen := m.resizeGen
		return m, tea.Tick(resizeDebounce, func(time.Time) tea.Msg { return resizeMsg{gen: gen} })
	case resizeMsg:
		if msg.gen == m.resizeGen {
			m.width, m.height = m.pendingW, m.pendingH
			m.canvas = NewCanvas(m.canvasSize())
		}
	case TickMsg:
		switch m.anim.Tick() {
		case anim.Advanced:
			m.losses = append(m.losses, m.renderer.Loss(m.anim.Current()))
			return m, m.tick()
		case anim.Exhausted:
			m.message = "descent complete"
		}
		m.ticking = false
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		return m.togglePause()
	case "r":
		m.anim.ResetToStart()
		m.rewindLosses()
		m.message = "reset to start (space to run)"
	case "d":
		if err := m.descend(); err != nil {
			m.message = err.Error()
			return m, nil
		}
		return m, m.startTicking()
	case "n":
		pts := optim.RandomPoints(m.rng, randomPoints)
		if err := m.renderer.SetPoints(pts); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.anim.Clear()
		m.losses = nil
		m.message = "new points (d to descend)"
	case "+", "=":
		m.setPeriod(m.anim.Period() * 4 / 5)
	case "-", "_":
		m.setPeriod(m.anim.Period() * 5 / 4)
	case "t":
		if err := m.applyTheme(NextTheme(m.theme.Name), m.renderer.Points()); err != nil {
			m.message = err.Error()
			return m, nil
		}
		SetTheme(m.theme.Name)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) togglePause() (Model, tea.Cmd) {
	switch {
	case !m.anim.HasPath():
		m.message = "no path loaded (d to descend)"
		return m, nil
	case m.anim.Exhausted():
		m.anim.ResetToStart()
		m.rewindLosses()
		_ = m.anim.Resume()
	case m.anim.Paused():
		_ = m.anim.Resume()
	default:
		_ = m.anim.Pause()
		return m, nil
	}
	m.message = ""
	return m, m.startTicking()
}

// rewindLosses keeps only the loss of the first path point.
func (m *Model) rewindLosses() {
	m.losses = m.losses[:min(1, len(m.losses))]
}

func (m *Model) setPeriod(d time.Duration) {
	d = max(minPeriod, min(d, maxPeriod))
	_ = m.anim.SetPeriod(d)
	m.message = fmt.Sprintf("step every %v", d)
}

func (m Model) status() string {
	switch {
	case !m.anim.HasPath():
		return m.styles.paused.Render("IDLE")
	case m.anim.Exhausted():
		return m.styles.running.Render("COMPLETE")
	case m.anim.Paused():
		return m.styles.paused.Render("PAUSED")
	}
	return m.styles.running.Render("RUNNING")
}

func (m Model) View() string {
	m.canvas.Clear()
	current := m.anim.Current()
	var canvasView string
	if err := m.renderer.DrawField(m.canvas, current); err != nil {
		canvasView = err.Error()
	} else {
		_ = m.renderer.DrawPath(m.canvas, m.anim.Path(), m.anim.Index())
		canvasView = m.canvas.String()
	}

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(GradientText("LOSSCAPE", m.theme.Primary, m.theme.Accent)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if n := m.anim.Len(); n > 1 {
		done := float64(m.anim.Index()) / float64(n-1)
		s.WriteString(st.label.Render("Step") + st.value.Render(fmt.Sprintf("%d/%d", m.anim.Index(), n-1)) + "\n")
		s.WriteString(ProgressBar(done, panelWidth-6, st.selected) + "\n")
	}
	s.WriteString(st.label.Render("a") + st.value.Render(fmt.Sprintf("%.4f", current.U)) + "\n")
	s.WriteString(st.label.Render("b") + st.value.Render(fmt.Sprintf("%.4f", current.V)) + "\n")
	s.WriteString(st.label.Render("MSE") + st.value.Render(fmt.Sprintf("%.4f", m.renderer.Loss(current))) + "\n")
	if opt, err := optim.LeastSquares(m.renderer.Points()); err == nil {
		s.WriteString(st.label.Render("Best") + st.value.Render(fmt.Sprintf("%.4f at %s", m.renderer.Loss(opt), opt)) + "\n")
	}

	if len(m.losses) > 1 {
		chart := asciigraph.Plot(m.losses, asciigraph.Height(5), asciigraph.Width(panelWidth-12), asciigraph.Caption("MSE"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.message != "" {
		s.WriteString("\n" + st.value.Render(m.message) + "\n")
	}
	s.WriteString(st.keyHint.Render("SP:Pause R:Reset D:Descend\nN:New points +/-:Speed\nT:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space  - Pause/Resume descent       ║
║  R      - Rewind to the first step   ║
║  D      - Descend again from start   ║
║  N      - New random data points     ║
║  + / -  - Faster / slower steps      ║
║  T      - Cycle themes and colormaps ║
║  ?      - Toggle this help           ║
║  Q      - Quit                       ║
╚══════════════════════════════════════╝`

// Run starts the live view full screen.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
