package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// HuhTheme styles huh forms, such as the profile prompt, with t.
func HuhTheme(t *Theme) *huh.Theme {
	h := huh.ThemeBase()

	accent := t.SelectedStyle.GetForeground()
	subtle := t.SubtleStyle.GetForeground()
	errColor := t.ErrorStyle.GetForeground()

	h.Focused.Base = h.Focused.Base.BorderForeground(accent)
	h.Focused.Card = h.Focused.Base
	h.Focused.Title = h.Focused.Title.Foreground(accent).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(subtle)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(errColor)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(errColor)
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(accent)
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(accent)
	h.Focused.UnselectedOption = h.Focused.UnselectedOption.Foreground(t.TextStyle.GetForeground())
	h.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(accent).SetString("✓ ")
	h.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(subtle).SetString("• ")

	h.Focused.TextInput.Cursor = h.Focused.TextInput.Cursor.Foreground(accent)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(subtle)
	h.Focused.TextInput.Prompt = h.Focused.TextInput.Prompt.Foreground(accent)

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Card = h.Blurred.Base

	return h
}
