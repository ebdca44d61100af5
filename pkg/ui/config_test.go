package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/tempo/pkg/keys"
	"github.com/macropower/tempo/pkg/ui"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := ui.NewConfig()
	require.NotNil(t, cfg.KeyBinds)
	require.NotNil(t, cfg.HistorySize)
	assert.Equal(t, ui.DefaultHistorySize, *cfg.HistorySize)
	assert.Equal(t, "auto", cfg.Theme)
	assert.True(t, cfg.KeyBinds.Quit.Match("ctrl+c"))
	assert.True(t, cfg.KeyBinds.Toggle.Match(" "))
	require.NoError(t, cfg.Validate())
}

func TestConfig_EnsureDefaults_KeepsCustomBinds(t *testing.T) {
	t.Parallel()

	cfg := &ui.Config{
		KeyBinds: &ui.KeyBinds{
			Quit: keys.NewBind("", keys.New("q")),
		},
	}
	cfg.EnsureDefaults()

	assert.True(t, cfg.KeyBinds.Quit.Match("q"))
	assert.True(t, cfg.KeyBinds.Quit.Match("ctrl+c"))
	assert.Equal(t, "quit", cfg.KeyBinds.Quit.Description)
	assert.True(t, cfg.KeyBinds.Copy.Match("ctrl+y"))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		binds   *ui.KeyBinds
		wantErr bool
	}{
		"same key in different panels": {
			binds: &ui.KeyBinds{
				Submit: keys.NewBind("submit", keys.New("enter")),
				Accept: keys.NewBind("accept", keys.New("enter")),
			},
		},
		"common key reused by a panel": {
			binds: &ui.KeyBinds{
				Copy:   keys.NewBind("copy", keys.New("y")),
				Toggle: keys.NewBind("toggle", keys.New("y")),
			},
			wantErr: true,
		},
		"duplicate within a panel": {
			binds: &ui.KeyBinds{
				Up:   keys.NewBind("up", keys.New("w")),
				Down: keys.NewBind("down", keys.New("w")),
			},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := &ui.Config{KeyBinds: tc.binds}
			cfg.EnsureDefaults()

			err := cfg.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, keys.ErrDuplicateKey)

				return
			}

			require.NoError(t, err)
		})
	}
}
