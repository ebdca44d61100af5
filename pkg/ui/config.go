package ui

import (
	"errors"

	"github.com/macropower/tempo/pkg/keys"
)

// DefaultHistorySize is the number of submitted inputs kept by default.
const DefaultHistorySize = 20

// Config contains UI configuration.
type Config struct {
	// KeyBinds customizes the UI's key bindings.
	KeyBinds *KeyBinds `json:"keyBinds,omitempty" jsonschema:"title=Key Binds"`
	// HistorySize is the number of submitted inputs to remember.
	HistorySize *int `json:"historySize,omitempty" jsonschema:"title=History Size,minimum=0"`
	// Theme is a chroma style name, or one of auto, dark and light.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
}

// NewConfig creates a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()

	if c.HistorySize == nil {
		size := DefaultHistorySize
		c.HistorySize = &size
	}

	if c.Theme == "" {
		c.Theme = "auto"
	}
}

// Validate checks the key binds for conflicts.
func (c *Config) Validate() error {
	if c.KeyBinds == nil {
		return nil
	}

	return c.KeyBinds.Validate()
}

// KeyBinds are the UI's key bindings. Common binds work everywhere; input,
// rule and filter binds only while that panel has focus.
type KeyBinds struct {
	// Common.
	Quit        *keys.KeyBind `json:"quit,omitempty"`
	Focus       *keys.KeyBind `json:"focus,omitempty"`
	NextProfile *keys.KeyBind `json:"nextProfile,omitempty"`
	PrevProfile *keys.KeyBind `json:"prevProfile,omitempty"`
	Filter      *keys.KeyBind `json:"filter,omitempty"`
	Copy        *keys.KeyBind `json:"copy,omitempty"`

	// Input.
	Submit      *keys.KeyBind `json:"submit,omitempty"`
	HistoryPrev *keys.KeyBind `json:"historyPrev,omitempty"`
	HistoryNext *keys.KeyBind `json:"historyNext,omitempty"`

	// Rules.
	Up       *keys.KeyBind `json:"up,omitempty"`
	Down     *keys.KeyBind `json:"down,omitempty"`
	Toggle   *keys.KeyBind `json:"toggle,omitempty"`
	MoveUp   *keys.KeyBind `json:"moveUp,omitempty"`
	MoveDown *keys.KeyBind `json:"moveDown,omitempty"`

	// Filter.
	Accept *keys.KeyBind `json:"accept,omitempty"`
	Cancel *keys.KeyBind `json:"cancel,omitempty"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Quit, keys.NewBind("quit", keys.New("ctrl+c", keys.WithAlias("⌃c"))))
	keys.SetDefault(&kb.Focus, keys.NewBind("switch panel", keys.New("tab")))
	keys.SetDefault(&kb.NextProfile, keys.NewBind("next profile", keys.New("ctrl+n", keys.WithAlias("⌃n"))))
	keys.SetDefault(&kb.PrevProfile, keys.NewBind("previous profile", keys.New("ctrl+p", keys.WithAlias("⌃p"))))
	keys.SetDefault(&kb.Filter, keys.NewBind("find profile", keys.New("ctrl+f", keys.WithAlias("⌃f"))))
	keys.SetDefault(&kb.Copy, keys.NewBind("copy output", keys.New("ctrl+y", keys.WithAlias("⌃y"))))

	keys.SetDefault(&kb.Submit, keys.NewBind("submit", keys.New("enter")))
	keys.SetDefault(&kb.HistoryPrev, keys.NewBind("older input", keys.New("up", keys.WithAlias("↑"))))
	keys.SetDefault(&kb.HistoryNext, keys.NewBind("newer input", keys.New("down", keys.WithAlias("↓"))))

	keys.SetDefault(&kb.Up, keys.NewBind("up", keys.New("up", keys.WithAlias("↑")), keys.New("k", keys.Hidden())))
	keys.SetDefault(&kb.Down, keys.NewBind("down", keys.New("down", keys.WithAlias("↓")), keys.New("j", keys.Hidden())))
	keys.SetDefault(&kb.Toggle, keys.NewBind("toggle rule", keys.New(" ", keys.WithAlias("space")), keys.New("x", keys.Hidden())))
	keys.SetDefault(&kb.MoveUp, keys.NewBind("move rule up", keys.New("shift+up", keys.WithAlias("⇧↑")), keys.New("K", keys.Hidden())))
	keys.SetDefault(&kb.MoveDown, keys.NewBind("move rule down", keys.New("shift+down", keys.WithAlias("⇧↓")), keys.New("J", keys.Hidden())))

	keys.SetDefault(&kb.Accept, keys.NewBind("use profile", keys.New("enter")))
	keys.SetDefault(&kb.Cancel, keys.NewBind("cancel", keys.New("esc")))

	// Always ensure that ctrl+c quits.
	kb.Quit.AddKey(keys.New("ctrl+c", keys.Hidden()))
}

func (kb *KeyBinds) common() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Quit, kb.Focus, kb.NextProfile, kb.PrevProfile, kb.Filter, kb.Copy}
}

func (kb *KeyBinds) input() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Submit, kb.HistoryPrev, kb.HistoryNext}
}

func (kb *KeyBinds) rules() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Up, kb.Down, kb.Toggle, kb.MoveUp, kb.MoveDown}
}

func (kb *KeyBinds) filter() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Accept, kb.Cancel}
}

// Validate reports keys bound twice within one panel, counting the common
// binds in every panel.
func (kb *KeyBinds) Validate() error {
	return errors.Join(
		keys.Validate(append(kb.common(), kb.input()...)...),
		keys.Validate(append(kb.common(), kb.rules()...)...),
		keys.Validate(append(kb.common(), kb.filter()...)...),
	)
}
