package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/auragen/internal/meditation"
)

// Theme defines the palette for one sanctuary.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Glow    string // breathing cue and progress fill
	Success string
	Warning string
	Danger  string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		GlowText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Glow)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true),

		Brand: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Bar: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 4),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 2),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(lipgloss.Color(t.Faint)).
			Padding(0, 1),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	GlowText    lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Title  lipgloss.Style
	Brand  lipgloss.Style
	Bar    lipgloss.Style
	Card   lipgloss.Style
	Button lipgloss.Style
	Badge  lipgloss.Style
}

var themes = map[string]Theme{
	meditation.DefaultTheme: defaultTheme(),
	"pine-forest":           pineForestTheme(),
	"misty-mountains":       mistyMountainsTheme(),
	"peaceful-lake":         peacefulLakeTheme(),
}

var themeOrder = []string{meditation.DefaultTheme, "pine-forest", "misty-mountains", "peaceful-lake"}

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return defaultTheme()
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func defaultTheme() Theme {
	// Night sky: indigo surfaces with a lavender accent.
	return Theme{
		Name:       meditation.DefaultTheme,
		Background: "#0f1020",
		Surface:    "#171a2e",
		Border:     "#3a3d63",
		Text:       "#e6e6f0",
		Muted:      "#9a9cb8",
		Faint:      "#5d607a",
		Accent:     "#b8a6ff",
		Glow:       "#7dd3fc",
		Success:    "#86efac",
		Warning:    "#fcd34d",
		Danger:     "#f87171",
	}
}

func pineForestTheme() Theme {
	return Theme{
		Name:       "pine-forest",
		Background: "#0b1a12",
		Surface:    "#12261b",
		Border:     "#2f5a3e",
		Text:       "#e3efe6",
		Muted:      "#9bb5a3",
		Faint:      "#5e7a66",
		Accent:     "#7fbf8e",
		Glow:       "#c6e6b3",
		Success:    "#a3d9a5",
		Warning:    "#e9c46a",
		Danger:     "#e76f51",
	}
}

func mistyMountainsTheme() Theme {
	return Theme{
		Name:       "misty-mountains",
		Background: "#14161c",
		Surface:    "#1d212b",
		Border:     "#4a5163",
		Text:       "#e8eaf0",
		Muted:      "#a3a9b8",
		Faint:      "#676d7c",
		Accent:     "#b4bfd6",
		Glow:       "#d8dee9",
		Success:    "#a3be8c",
		Warning:    "#ebcb8b",
		Danger:     "#bf616a",
	}
}

func peacefulLakeTheme() Theme {
	return Theme{
		Name:       "peaceful-lake",
		Background: "#08182a",
		Surface:    "#0e2238",
		Border:     "#24507a",
		Text:       "#e2eef9",
		Muted:      "#98b4cf",
		Faint:      "#5a7591",
		Accent:     "#6cb6e6",
		Glow:       "#a5dcf5",
		Success:    "#7dd3a8",
		Warning:    "#f2cc8f",
		Danger:     "#ef8a80",
	}
}
