package cli

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/macropower/tempo/api/v1beta1/configs"
	"github.com/macropower/tempo/pkg/config"
	"github.com/macropower/tempo/pkg/ui/theme"
)

// ColorSchemeFunc styles help and errors with the configured theme. The
// configuration is read without validation or writes; any failure falls back
// to [theme.Default].
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	path, ok := os.LookupEnv(flagToEnvName("config"))
	if !ok || path == "" {
		path = configs.GetPath()
	}

	l, err := config.NewLoaderFromFile(path, configs.New, nil)
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	cfg, err := l.Load()
	if err != nil {
		return ThemeColorScheme(theme.Default, c)
	}

	return ThemeColorScheme(theme.New(cfg.UI.Theme), c)
}

func ThemeColorScheme(t *theme.Theme, c lipgloss.LightDarkFunc) fang.ColorScheme {
	text := t.TextStyle.GetForeground()
	accent := t.SelectedStyle.GetForeground()
	subtle := t.SubtleStyle.GetForeground()

	return fang.ColorScheme{
		Base:           text,
		Title:          t.TitleStyle.GetForeground(),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        t.LogoStyle.GetBackground(),
		Command:        accent,
		DimmedArgument: subtle,
		Comment:        subtle,
		Flag:           accent,
		Argument:       text,
		Description:    text,
		FlagDefault:    t.HelpStyle.GetForeground(),
		QuotedString:   t.FilterStyle.GetForeground(),
		ErrorHeader: [2]color.Color{
			t.LogoStyle.GetForeground(),
			t.ErrorStyle.GetForeground(),
		},
	}
}
