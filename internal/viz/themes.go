package viz

import "github.com/charmbracelet/lipgloss"

// Theme pairs the chrome colours of the live view with a heatmap colormap.
type Theme struct {
	Name     string
	Colormap string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
}

// Available themes
var (
	ThemePlasma = Theme{
		Name:     "plasma",
		Colormap: "plasma-lite",
		Primary:  lipgloss.Color("#c580de"),
		Accent:   lipgloss.Color("#ffb3ba"),
		Text:     lipgloss.Color("#f5f5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Border:   lipgloss.Color("#58508d"),
		Success:  lipgloss.Color("#5fd068"),
		Warning:  lipgloss.Color("#ffc048"),
	}

	ThemeViridis = Theme{
		Name:     "viridis",
		Colormap: "viridis",
		Primary:  lipgloss.Color("#35b779"),
		Accent:   lipgloss.Color("#fde725"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#31688e"),
		Border:   lipgloss.Color("#482777"),
		Success:  lipgloss.Color("#6ece58"),
		Warning:  lipgloss.Color("#fde725"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Colormap: "greys",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Border:   lipgloss.Color("#444444"),
		Success:  lipgloss.Color("#00ff00"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	// Default theme
	CurrentTheme = ThemePlasma

	Themes = []Theme{
		ThemePlasma,
		ThemeViridis,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePlasma
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after current in Themes, wrapping around.
func NextTheme(current string) Theme {
	for i, t := range Themes {
		if t.Name == current {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
