package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/losscape/internal/config"
)

const (
	stateMenu = iota
	stateLive
)

// Picker lists the data set presets and opens the live view on the chosen one.
type Picker struct {
	state, cursor int
	presets       []string
	base          *config.Config
	live          Model
	width, height int
	err           error
}

func NewPicker(base *config.Config) Picker {
	return Picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		base:    base,
		width:   width,
		height:  height,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateLive {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.menuKey(msg)
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
	}
	return p, nil
}

func (p Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (Picker, tea.Cmd) {
	cfg := *p.base
	config.GetPreset(p.presets[p.cursor]).Apply(&cfg)
	m, err := NewModel(&cfg)
	if err != nil {
		p.err = err
		return p, nil
	}
	m.width, m.height = p.width, p.height
	m.canvas = NewCanvas(m.canvasSize())
	p.live, p.state, p.err = m, stateLive, nil
	return p, m.Init()
}

func (p Picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}
	t := CurrentTheme
	h := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.Muted)
	key := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + h.Render("LOSSCAPE") + "\n    " + sub.Render("mean squared error landscapes") + "\n    " + sub.Render("─────────────────────────────") + "\n\n")
	for i, name := range p.presets {
		desc := config.GetPreset(name).Description
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", key.Render("▸"), lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(fmt.Sprintf("%-10s", name)), lipgloss.NewStyle().Foreground(t.Accent).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", sub.Render(fmt.Sprintf("  %-10s", name)), sub.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(t.Warning).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" select  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

func RunPicker(base *config.Config) error {
	_, err := tea.NewProgram(NewPicker(base), tea.WithAltScreen()).Run()
	return err
}
