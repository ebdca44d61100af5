// Package theme derives tempo's terminal styles from a chroma style, so the
// UI, the profile picker and highlighted YAML share one palette.
package theme

import (
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Default is the theme used when none is configured.
var Default = New("auto")

type Theme struct {
	ErrorStyle    lipgloss.Style
	FilterStyle   lipgloss.Style
	HelpStyle     lipgloss.Style
	LogoStyle     lipgloss.Style
	OutputStyle   lipgloss.Style
	PanelStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	SubtleStyle   lipgloss.Style
	TextStyle     lipgloss.Style
	TitleStyle    lipgloss.Style

	ChromaStyle *chroma.Style
	// Name is the resolved chroma style name.
	Name string
}

// New builds a theme from the chroma style called name. "auto" and the empty
// string pick github or github-dark from the terminal background; "dark" and
// "light" are shorthands for those. Unknown names fall back to chroma's
// fallback style.
func New(name string) *Theme {
	cs := newChromaStyle(name)

	accent := cs.fg(chroma.NameTag)
	subtle := cs.fg(chroma.Comment)
	text := cs.fg(chroma.Background)

	return &Theme{
		ErrorStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.GenericDeleted)).
			Bold(true),
		FilterStyle: lipgloss.NewStyle().
			Foreground(accent),
		HelpStyle: lipgloss.NewStyle().
			Foreground(cs.fgWithFactor(chroma.Background, 0.3)),
		LogoStyle: lipgloss.NewStyle().
			Foreground(cs.bg(chroma.Background)).
			Background(accent).
			Bold(true).
			Padding(0, 1),
		OutputStyle: lipgloss.NewStyle().
			Foreground(cs.fg(chroma.GenericInserted)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		PanelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1),
		SelectedStyle: lipgloss.NewStyle().
			Foreground(accent),
		SubtleStyle: lipgloss.NewStyle().
			Foreground(subtle),
		TextStyle: lipgloss.NewStyle().
			Foreground(text),
		TitleStyle: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		ChromaStyle: cs.style,
		Name:        cs.style.Name,
	}
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(name string) chromaStyle {
	s := styles.Get(resolveName(name))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

func (cs chromaStyle) fg(c chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) bg(c chroma.TokenType) lipgloss.Color {
	return lipgloss.Color(cs.style.Get(c).Background.String())
}

func (cs chromaStyle) fgWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	//nolint:misspell // Chroma naming.
	return lipgloss.Color(cs.style.Get(c).Colour.BrightenOrDarken(factor).String())
}

func resolveName(name string) string {
	switch name {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return "github"
		}

		if termenv.HasDarkBackground() {
			return "github-dark"
		}

		return "github"
	}

	return name
}
