// Package keys describes configurable key bindings and renders them as help.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Ellipsis marks truncated help text.
const Ellipsis = "…"

// ErrDuplicateKey is returned when one key code is bound twice.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a single key code, as reported by bubbletea's KeyMsg.String.
type Key struct {
	// Code is the key code identifier, e.g. "ctrl+c" or "enter".
	Code string `json:"code" jsonschema:"title=Code,minLength=1"`
	// Alias is shown in help instead of the code.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys work but are not shown in help.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is an action and the keys that trigger it.
type KeyBind struct {
	// Description is shown in help.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys trigger the action.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) *KeyBind {
	return &KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	if kb == nil {
		return ""
	}

	visible := make([]string, 0, len(kb.Keys))
	for _, k := range kb.Keys {
		if !k.Hidden {
			visible = append(visible, k.String())
		}
	}

	return strings.Join(visible, "/")
}

// Match reports whether key triggers the binding.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

// AddKey appends key unless its code is already bound.
func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// HelpItem renders "keys description", truncating the description to fit
// width. It returns an empty string when all keys are hidden.
func (kb *KeyBind) HelpItem(width int) string {
	keys := kb.String()
	if keys == "" {
		return ""
	}

	room := width - ansi.PrintableRuneWidth(keys) - 1
	if room <= 0 {
		return keys
	}

	return keys + " " + truncate.StringWithTail(kb.Description, uint(room), Ellipsis)
}

// SetDefault fills in a nil binding, or the empty parts of one, from def.
func SetDefault(kb **KeyBind, def *KeyBind) {
	if *kb == nil {
		c := *def
		*kb = &c

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}

	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}

// Validate reports every key code bound more than once across binds.
func Validate(binds ...*KeyBind) error {
	var errs []error

	seen := make(map[string]string)
	for _, kb := range binds {
		if kb == nil {
			continue
		}

		for _, k := range kb.Keys {
			if prev, ok := seen[k.Code]; ok {
				errs = append(errs, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateKey, k.Code, prev, kb.Description))

				continue
			}

			seen[k.Code] = kb.Description
		}
	}

	return errors.Join(errs...)
}

// HelpLine renders binds on one line separated by " • ", dropping items
// that do not fit width.
func HelpLine(width int, binds ...*KeyBind) string {
	const sep = " • "

	var (
		sb   strings.Builder
		used int
	)

	sepWidth := ansi.PrintableRuneWidth(sep)
	tailWidth := sepWidth + ansi.PrintableRuneWidth(Ellipsis)

	for _, kb := range binds {
		item := kb.HelpItem(width)
		if item == "" {
			continue
		}

		itemWidth := ansi.PrintableRuneWidth(item)
		if used > 0 {
			itemWidth += sepWidth
		}

		if used+itemWidth > width {
			if used > 0 && used+tailWidth <= width {
				sb.WriteString(sep + Ellipsis)
			}

			break
		}

		if used > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(item)

		used += itemWidth
	}

	return sb.String()
}
