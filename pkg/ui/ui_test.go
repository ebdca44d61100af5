package ui_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/loader"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/rule"
	"github.com/macropower/tempo/pkg/ui"
	"github.com/macropower/tempo/pkg/uitest"
)

func testProfiles() *profile.Collection {
	clk := rule.FixedClock(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local))

	return profile.NewCollection(
		profile.New("greet", profile.WithRules(
			rule.NewRaw("h", "hello"),
			rule.NewRaw("tem", "tempo"),
		)),
		profile.New("time", profile.WithRules(
			rule.NewDateTime(":now", "%Y-%m-%d", rule.WithClock(clk)),
		)),
	)
}

func update(t *testing.T, m *ui.Model, msgs ...tea.Msg) (*ui.Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model

		next, cmd = m.Update(msg)

		var ok bool

		m, ok = next.(*ui.Model)
		require.True(t, ok)
	}

	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func TestNewModel(t *testing.T) {
	t.Parallel()

	t.Run("selects first profile", func(t *testing.T) {
		t.Parallel()

		m := ui.NewModel(nil, testProfiles(), ui.WithInput("h, tem"))
		require.NotNil(t, m.Session())
		assert.Equal(t, "greet", m.Session().Label())
		assert.Equal(t, "hello, tempo", m.Output())
		require.NoError(t, m.Err())
	})

	t.Run("explicit profile", func(t *testing.T) {
		t.Parallel()

		m := ui.NewModel(nil, testProfiles(), ui.WithProfile("time"), ui.WithInput("h :now"))
		assert.Equal(t, "time", m.Session().Label())
		assert.Equal(t, "h 2024-01-01", m.Output())
	})

	t.Run("no profiles", func(t *testing.T) {
		t.Parallel()

		m := ui.NewModel(nil, nil, ui.WithInput("h"))
		assert.Nil(t, m.Session())
		require.ErrorIs(t, m.Err(), engine.ErrProfileNotFound)
		assert.Empty(t, m.Output())
		assert.Contains(t, uitest.PlainText(m.View()), "no profile")
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		m := ui.NewModel(nil, testProfiles(), ui.WithProfile("missing"))
		assert.Nil(t, m.Session())
		require.ErrorIs(t, m.Err(), engine.ErrProfileNotFound)
	})
}

func TestModel_Typing(t *testing.T) {
	t.Parallel()

	m := ui.NewModel(nil, testProfiles())
	m, _ = update(t, m, runes("h, tem"))

	assert.Equal(t, "hello, tempo", m.Output())
	assert.Contains(t, uitest.PlainText(m.View()), "hello, tempo")
}

func TestModel_CycleProfiles(t *testing.T) {
	t.Parallel()

	m := ui.NewModel(nil, testProfiles(), ui.WithInput("h :now"))

	m, _ = update(t, m, key(tea.KeyCtrlN))
	assert.Equal(t, "time", m.Session().Label())
	assert.Equal(t, "h 2024-01-01", m.Output())

	m, _ = update(t, m, key(tea.KeyCtrlN))
	assert.Equal(t, "greet", m.Session().Label())
	assert.Equal(t, "hello :now", m.Output())

	m, _ = update(t, m, key(tea.KeyCtrlP))
	assert.Equal(t, "time", m.Session().Label())
}

func TestModel_Rules(t *testing.T) {
	t.Parallel()

	profiles := testProfiles()
	m := ui.NewModel(nil, profiles, ui.WithInput("h, tem"))

	m, _ = update(t, m, key(tea.KeyTab), space)
	assert.Equal(t, "h, tempo", m.Output())
	assert.False(t, m.Session().Rules()[0].Enabled())

	// Typed keys go to the rules panel, not the input.
	m, _ = update(t, m, runes("x"))
	assert.Equal(t, "hello, tempo", m.Output())

	m, _ = update(t, m, key(tea.KeyShiftDown))
	require.Equal(t, 2, m.Session().Len())
	assert.Equal(t, "tem", m.Session().Rules()[0].Record().Raw)
	assert.Equal(t, "hello, tempo", m.Output())

	m, _ = update(t, m, key(tea.KeyUp), space)
	assert.Equal(t, "hello, tem", m.Output())

	orig, ok := profiles.Get("greet")
	require.True(t, ok)
	assert.True(t, orig.Rules()[1].Enabled())
	assert.Equal(t, "h", orig.Rules()[0].Record().Raw)

	m, _ = update(t, m, key(tea.KeyTab), runes("!"))
	assert.Equal(t, "hello, tem!", m.Output())
}

func TestModel_History(t *testing.T) {
	t.Parallel()

	m := ui.NewModel(nil, testProfiles())

	m, _ = update(t, m, runes("h"), key(tea.KeyEnter))
	m, _ = update(t, m, key(tea.KeyBackspace), runes("tem"), key(tea.KeyEnter))
	assert.Equal(t, []string{"h", "tem"}, m.History().Entries())

	m, _ = update(t, m, key(tea.KeyBackspace), key(tea.KeyBackspace), key(tea.KeyBackspace), runes("draft"))

	m, _ = update(t, m, key(tea.KeyUp))
	assert.Equal(t, "tempo", m.Output())

	m, _ = update(t, m, key(tea.KeyUp))
	assert.Equal(t, "hello", m.Output())

	m, _ = update(t, m, key(tea.KeyDown), key(tea.KeyDown))
	assert.Equal(t, "draft", m.Output())
}

func TestModel_Filter(t *testing.T) {
	t.Parallel()

	m := ui.NewModel(nil, testProfiles(), ui.WithInput("h :now"))

	m, _ = update(t, m, key(tea.KeyCtrlF))
	assert.Contains(t, uitest.PlainText(m.View()), "find:")

	m, _ = update(t, m, runes("tim"), key(tea.KeyEnter))
	assert.Equal(t, "time", m.Session().Label())
	assert.Equal(t, "h 2024-01-01", m.Output())

	// Input is focused again.
	m, _ = update(t, m, runes("!"))
	assert.Equal(t, "h 2024-01-01!", m.Output())

	m, _ = update(t, m, key(tea.KeyCtrlF), runes("gr"), key(tea.KeyEsc))
	assert.Equal(t, "time", m.Session().Label())
}

func TestFilterLabels(t *testing.T) {
	t.Parallel()

	labels := []string{"greet", "time", "timestamps"}

	assert.Equal(t, labels, ui.FilterLabels("", labels))
	assert.Equal(t, []string{"greet"}, ui.FilterLabels("grt", labels))
	assert.Empty(t, ui.FilterLabels("zzz", labels))
	assert.Contains(t, ui.FilterLabels("tim", labels), "timestamps")
}

func TestModel_Copy(t *testing.T) {
	t.Parallel()

	var copied string

	m := ui.NewModel(nil, testProfiles(), ui.WithInput("h"), ui.WithCopyFunc(func(s string) error {
		copied = s

		return nil
	}))

	m, cmd := update(t, m, key(tea.KeyCtrlY))
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "hello", copied)
	assert.Contains(t, uitest.PlainText(m.View()), "copied output")

	m, _ = update(t, m, ui.CopiedMsg{Err: errors.New("no clipboard")})
	assert.Contains(t, uitest.PlainText(m.View()), "copy failed: no clipboard")
}

func TestModel_Reload(t *testing.T) {
	t.Parallel()

	reloads := make(chan loader.Event, 1)

	m := ui.NewModel(nil, testProfiles(),
		ui.WithProfile("time"),
		ui.WithInput("h"),
		ui.WithReloads(reloads),
	)

	next := profile.NewCollection(
		profile.New("greet", profile.WithRules(rule.NewRaw("h", "hi"))),
		profile.New("time", profile.WithRules(rule.NewRaw("h", "hour"))),
	)

	m, cmd := update(t, m, ui.ReloadMsg{Profiles: next})
	require.NotNil(t, cmd)
	assert.Equal(t, "time", m.Session().Label())
	assert.Equal(t, "hour", m.Output())

	// The selected profile is gone, so the first one is used.
	m, _ = update(t, m, ui.ReloadMsg{Profiles: profile.NewCollection(
		profile.New("other", profile.WithRules(rule.NewRaw("h", "other"))),
	)})
	assert.Equal(t, "other", m.Session().Label())
	assert.Equal(t, "other", m.Output())

	m, _ = update(t, m, ui.ReloadMsg{Err: errors.New("bad file")})
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), "bad file")
	assert.Equal(t, "other", m.Session().Label())

	reloads <- loader.Event{Profiles: next}

	msg := cmd()
	reload, ok := msg.(ui.ReloadMsg)
	require.True(t, ok)
	assert.Equal(t, 2, reload.Profiles.Len())
}

func TestModel_Program(t *testing.T) {
	t.Parallel()

	m := ui.NewModel(nil, testProfiles())
	tm := uitest.NewTestModel(t, m, uitest.Compact)

	tm.Type("h, tem")
	out := uitest.WaitForText(t, tm.Output(), "hello, tempo")
	assert.Contains(t, out, "greet")

	final, ok := uitest.FinalModel(t, tm).(*ui.Model)
	require.True(t, ok)
	assert.Equal(t, "hello, tempo", final.Output())
}
