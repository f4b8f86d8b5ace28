package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// styles derives the lipgloss styles of the live view from a theme.
type styles struct {
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	graph    lipgloss.Style
	keyHint  lipgloss.Style
	selected lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(panelWidth),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(8),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		keyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// GradientText colours each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, err := colorful.Hex(string(start))
	if err != nil {
		return text
	}
	b, err := colorful.Hex(string(end))
	if err != nil {
		return text
	}

	var result strings.Builder
	n := len(runes)
	for i, r := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		c := a.BlendRgb(b, t).Clamped()
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return result.String()
}

// ProgressBar renders the fraction done as a bar of the given width.
func ProgressBar(done float64, width int, style lipgloss.Style) string {
	filled := int(done * float64(width))
	filled = max(0, min(filled, width))
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}
