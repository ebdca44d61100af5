// Package ui provides tempo's interactive terminal front end.
//
// The UI works on a copy of the selected profile, so enabling, disabling and
// reordering rules never changes the loaded profiles.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/keys"
	"github.com/macropower/tempo/pkg/loader"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/ui/theme"
)

type (
	// ReloadMsg delivers reloaded profiles.
	ReloadMsg loader.Event

	// CopiedMsg reports the result of copying the output.
	CopiedMsg struct {
		Err error
	}
)

type focus int

const (
	focusInput focus = iota
	focusRules
	focusFilter
)

func (f focus) String() string {
	return map[focus]string{
		focusInput:  "input",
		focusRules:  "rules",
		focusFilter: "filter",
	}[f]
}

// Model is the bubbletea model of the UI.
type Model struct {
	err      error
	profiles *profile.Collection
	session  *profile.Profile
	kb       *KeyBinds
	theme    *theme.Theme
	history  *History
	copyFunc func(string) error
	reloads  <-chan loader.Event
	status   string
	output   string
	labels   []string
	matches  []string
	input    textinput.Model
	filter   textinput.Model
	cursor   int
	width    int
	height   int
	focus    focus
}

// ModelOpt is a functional option for configuring a [Model].
type ModelOpt func(*Model)

// WithProfile selects the profile with the given label at start.
func WithProfile(label string) ModelOpt {
	return func(m *Model) {
		m.selectProfile(label)
	}
}

// WithInput sets the initial input.
func WithInput(input string) ModelOpt {
	return func(m *Model) {
		m.input.SetValue(input)
		m.input.CursorEnd()
	}
}

// WithReloads makes the UI replace its profiles on every event from ch.
func WithReloads(ch <-chan loader.Event) ModelOpt {
	return func(m *Model) {
		m.reloads = ch
	}
}

// WithCopyFunc replaces the system clipboard.
func WithCopyFunc(fn func(string) error) ModelOpt {
	return func(m *Model) {
		m.copyFunc = fn
	}
}

// NewModel creates a [Model] over profiles. Without [WithProfile], the first
// profile by label is selected.
func NewModel(cfg *Config, profiles *profile.Collection, opts ...ModelOpt) *Model {
	if cfg == nil {
		cfg = NewConfig()
	}

	cfg.EnsureDefaults()

	if profiles == nil {
		profiles = profile.NewCollection()
	}

	th := theme.New(cfg.Theme)

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "type to expand"
	input.PromptStyle = th.SelectedStyle
	input.Focus()

	filter := textinput.New()
	filter.Prompt = "find: "
	filter.PromptStyle = th.FilterStyle

	m := &Model{
		profiles: profiles,
		labels:   profiles.Labels(),
		kb:       cfg.KeyBinds,
		theme:    th,
		history:  NewHistory(*cfg.HistorySize),
		copyFunc: clipboard.WriteAll,
		input:    input,
		filter:   filter,
		width:    80,
	}

	if len(m.labels) > 0 {
		m.selectProfile(m.labels[0])
	}

	for _, opt := range opts {
		opt(m)
	}

	m.recompute()

	return m
}

// NewProgram returns a new Tea program running m.
func NewProgram(ctx context.Context, m *Model, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting tempo ui")

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	return tea.NewProgram(m, opts...)
}

// Output returns the current expansion.
func (m *Model) Output() string {
	return m.output
}

// Err returns the current error, if any.
func (m *Model) Err() error {
	return m.err
}

// Session returns the UI's working copy of the selected profile.
func (m *Model) Session() *profile.Profile {
	return m.session
}

// History returns the submitted inputs.
func (m *Model) History() *History {
	return m.history
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForReload())
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-8)

		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("reload profiles: %w", msg.Err)
		} else {
			m.setProfiles(msg.Profiles)
			m.status = fmt.Sprintf("reloaded %d profiles", msg.Profiles.Len())
		}

		return m, m.waitForReload()

	case CopiedMsg:
		if msg.Err != nil {
			m.status = "copy failed: " + msg.Err.Error()
		} else {
			m.status = "copied output"
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.focus == focusFilter {
		m.filter, cmd = m.filter.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}

	return m, cmd
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.kb.Quit.Match(key) {
		return m, tea.Quit
	}

	if m.focus == focusFilter {
		return m.handleFilterKey(msg)
	}

	switch {
	case m.kb.Focus.Match(key):
		m.toggleFocus()

		return m, nil

	case m.kb.NextProfile.Match(key):
		m.cycleProfile(1)

		return m, nil

	case m.kb.PrevProfile.Match(key):
		m.cycleProfile(-1)

		return m, nil

	case m.kb.Filter.Match(key):
		m.focus = focusFilter
		m.input.Blur()
		m.filter.SetValue("")
		m.matches = m.labels

		return m, m.filter.Focus()

	case m.kb.Copy.Match(key):
		return m, m.copyOutput()
	}

	if m.focus == focusRules {
		m.handleRulesKey(key)

		return m, nil
	}

	switch {
	case m.kb.Submit.Match(key):
		m.history.Push(m.input.Value())
		m.status = ""

		return m, nil

	case m.kb.HistoryPrev.Match(key):
		if v, ok := m.history.Prev(m.input.Value()); ok {
			m.setInput(v)
		}

		return m, nil

	case m.kb.HistoryNext.Match(key):
		if v, ok := m.history.Next(); ok {
			m.setInput(v)
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.recompute()

	return m, cmd
}

func (m *Model) handleRulesKey(key string) {
	if m.session == nil || m.session.Len() == 0 {
		return
	}

	var err error

	switch {
	case m.kb.Up.Match(key):
		m.cursor = max(0, m.cursor-1)

	case m.kb.Down.Match(key):
		m.cursor = min(m.session.Len()-1, m.cursor+1)

	case m.kb.Toggle.Match(key):
		r := m.session.Rules()[m.cursor]
		err = m.session.SetEnabled(m.cursor, !r.Enabled())

	case m.kb.MoveUp.Match(key):
		if m.cursor > 0 {
			err = m.session.Move(m.cursor, m.cursor-1)
			m.cursor--
		}

	case m.kb.MoveDown.Match(key):
		if m.cursor < m.session.Len()-1 {
			err = m.session.Move(m.cursor, m.cursor+1)
			m.cursor++
		}
	}

	if err != nil {
		m.err = err

		return
	}

	m.recompute()
}

//nolint:ireturn // Must satisfy [tea.Model].
func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case m.kb.Cancel.Match(key):
		m.closeFilter()

		return m, nil

	case m.kb.Accept.Match(key):
		if len(m.matches) > 0 {
			m.selectProfile(m.matches[0])
			m.recompute()
		}

		m.closeFilter()

		return m, nil
	}

	var cmd tea.Cmd

	m.filter, cmd = m.filter.Update(msg)
	m.matches = FilterLabels(m.filter.Value(), m.labels)

	return m, cmd
}

func (m *Model) closeFilter() {
	m.filter.Blur()
	m.matches = nil
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusRules
		m.input.Blur()

		return
	}

	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) cycleProfile(step int) {
	n := len(m.labels)
	if n == 0 {
		return
	}

	i := 0
	if m.session != nil {
		for j, l := range m.labels {
			if l == m.session.Label() {
				i = j

				break
			}
		}
	}

	m.selectProfile(m.labels[((i+step)%n+n)%n])
	m.recompute()
}

// selectProfile makes a working copy of the profile with label. Unknown
// labels clear the selection.
func (m *Model) selectProfile(label string) {
	m.cursor = 0

	p, ok := m.profiles.Get(label)
	if !ok {
		m.session = nil

		return
	}

	m.session = p.Clone()
}

func (m *Model) setProfiles(c *profile.Collection) {
	selected := ""
	if m.session != nil {
		selected = m.session.Label()
	}

	m.profiles = c
	m.labels = c.Labels()

	if _, ok := c.Get(selected); !ok && len(m.labels) > 0 {
		selected = m.labels[0]
	}

	m.selectProfile(selected)
	m.recompute()
}

func (m *Model) setInput(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
	m.recompute()
}

func (m *Model) recompute() {
	m.output, m.err = engine.ApplyFormat(m.input.Value(), m.session)
}

func (m *Model) copyOutput() tea.Cmd {
	out := m.output
	copyFunc := m.copyFunc

	return func() tea.Msg {
		return CopiedMsg{Err: copyFunc(out)}
	}
}

func (m *Model) waitForReload() tea.Cmd {
	ch := m.reloads
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}

		return ReloadMsg(evt)
	}
}

// FilterLabels returns the labels matching pattern, best match first. An
// empty pattern matches every label.
func FilterLabels(pattern string, labels []string) []string {
	if pattern == "" {
		return labels
	}

	found := fuzzy.Find(pattern, labels)
	out := make([]string, 0, len(found))
	for _, match := range found {
		out = append(out, match.Str)
	}

	return out
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n\n")

	if m.focus == focusFilter {
		sb.WriteString(m.filterView())
	} else {
		sb.WriteString(m.input.View())
		sb.WriteString("\n\n")
		sb.WriteString(m.rulesView())
	}

	sb.WriteString("\n")
	sb.WriteString(m.outputView())
	sb.WriteString("\n")
	sb.WriteString(m.historyView())
	sb.WriteString(m.statusView())
	sb.WriteString("\n")
	sb.WriteString(m.theme.HelpStyle.Render(keys.HelpLine(m.width, m.helpBinds()...)))

	return sb.String()
}

func (m *Model) headerView() string {
	logo := m.theme.LogoStyle.Render("tempo")

	label := m.theme.SubtleStyle.Render("no profile")
	if m.session != nil {
		label = m.theme.TitleStyle.Render(m.session.Label())

		pos := fmt.Sprintf(" (%d/%d)", m.labelIndex()+1, len(m.labels))
		label += m.theme.SubtleStyle.Render(pos)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, logo, " ", label)
}

func (m *Model) labelIndex() int {
	for i, l := range m.labels {
		if m.session != nil && l == m.session.Label() {
			return i
		}
	}

	return 0
}

func (m *Model) filterView() string {
	var sb strings.Builder

	sb.WriteString(m.filter.View())
	sb.WriteString("\n")

	if len(m.matches) == 0 {
		sb.WriteString(m.theme.SubtleStyle.Render("  no matching profiles"))
		sb.WriteString("\n")
	}

	for i, l := range m.matches {
		if i == 0 {
			sb.WriteString(m.theme.SelectedStyle.Render("› " + l))
		} else {
			sb.WriteString("  " + l)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func (m *Model) rulesView() string {
	if m.session == nil || m.session.Len() == 0 {
		return m.theme.SubtleStyle.Render("  no rules") + "\n"
	}

	var sb strings.Builder
	for i, r := range m.session.Rules() {
		box := "[ ]"
		if r.Enabled() {
			box = "[x]"
		}

		line := fmt.Sprintf("%s %s", box, r.String())

		switch {
		case m.focus == focusRules && i == m.cursor:
			sb.WriteString(m.theme.SelectedStyle.Render("› " + line))
		case !r.Enabled():
			sb.WriteString(m.theme.SubtleStyle.Render("  " + line))
		default:
			sb.WriteString("  " + line)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func (m *Model) outputView() string {
	width := max(10, m.width-4)

	if m.err != nil {
		return m.theme.PanelStyle.Width(width).Render(m.theme.ErrorStyle.Render(m.err.Error()))
	}

	return m.theme.OutputStyle.Width(width).Render(m.output)
}

func (m *Model) historyView() string {
	entries := m.history.Entries()
	if len(entries) == 0 {
		return ""
	}

	const shown = 3

	var sb strings.Builder
	for _, e := range entries[max(0, len(entries)-shown):] {
		sb.WriteString(m.theme.SubtleStyle.Render("  ↺ " + e))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m *Model) statusView() string {
	if m.status == "" {
		return ""
	}

	return m.theme.SubtleStyle.Render(m.status) + "\n"
}

func (m *Model) helpBinds() []*keys.KeyBind {
	switch m.focus {
	case focusRules:
		return append(m.kb.rules(), m.kb.common()...)
	case focusFilter:
		return m.kb.filter()
	}

	return append(m.kb.input(), m.kb.common()...)
}
