package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmelo/healthguru/internal/config"
)

// Theme defines the color scheme for the terminal interface. Exactly one
// theme is active at a time.
type Theme struct {
	Name string

	// MarkdownStyle is the matching glamour style name.
	MarkdownStyle string

	// Base colors
	Surface lipgloss.Color
	Border  lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// DarkTheme is the default theme.
	DarkTheme = Theme{
		Name:          config.ThemeDark,
		MarkdownStyle: "dark",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme mirrors the web UI's light mode.
	LightTheme = Theme{
		Name:          config.ThemeLight,
		MarkdownStyle: "light",

		Surface: lipgloss.Color("#e9e9ed"),
		Border:  lipgloss.Color("#a8aecb"),

		Primary:   lipgloss.Color("#2e7de9"),
		Secondary: lipgloss.Color("#387068"),
		Accent:    lipgloss.Color("#9854f1"),
		Warning:   lipgloss.Color("#8c6c3e"),
		Error:     lipgloss.Color("#f52a65"),

		Text:     lipgloss.Color("#3760bf"),
		TextDim:  lipgloss.Color("#6172b0"),
		TextMute: lipgloss.Color("#a1a6c5"),
	}
)

var (
	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetTheme activates the named theme. Unknown names are ignored and false
// is returned.
func SetTheme(name string) bool {
	themeMu.Lock()
	defer themeMu.Unlock()

	switch name {
	case config.ThemeLight:
		currentTheme = LightTheme
	case config.ThemeDark:
		currentTheme = DarkTheme
	default:
		return false
	}
	return true
}

// ToggleTheme inverts the active theme and returns the new name. Toggling
// twice restores the original theme.
func ToggleTheme() string {
	themeMu.Lock()
	defer themeMu.Unlock()

	if currentTheme.Name == config.ThemeLight {
		currentTheme = DarkTheme
	} else {
		currentTheme = LightTheme
	}
	return currentTheme.Name
}
