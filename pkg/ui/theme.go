package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/orbital/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once
// at package init so every style helper can branch without
// re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a
// safe ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme is the style set for the orbital view. Styles are built once
// at startup; the render loop only applies them.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base       lipgloss.Style
	Header     lipgloss.Style
	StatusBar  lipgloss.Style
	MutedText  lipgloss.Style
	HoverName  lipgloss.Style
	EdgeText   lipgloss.Style
	EdgeBright lipgloss.Style
	PanelTitle lipgloss.Style
	Panel      lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.StatusBar = r.NewStyle().Foreground(t.Subtext)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.HoverName = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.EdgeText = r.NewStyle().Foreground(t.Muted)
	t.EdgeBright = r.NewStyle().Foreground(ThemeFg("#FFB86C")).Bold(true)

	t.PanelTitle = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// CategoryStyle returns a foreground style for one category, using the
// shared palette so the TUI matches snapshot exports.
func (t Theme) CategoryStyle(styles *model.StyleTable, category string) lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(ThemeFg(styles.Style(category).Color))
}

// TestTheme returns a theme suitable for use in tests (stdout renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
