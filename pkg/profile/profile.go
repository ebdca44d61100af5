package profile

import (
	"errors"
	"fmt"

	"github.com/macropower/tempo/api"
	"github.com/macropower/tempo/pkg/rule"
)

var (
	// ErrEmptyLabel is returned when a profile record has no label.
	ErrEmptyLabel = errors.New("profile label must not be empty")

	// ErrRuleIndex is returned when a rule index is out of range.
	ErrRuleIndex = errors.New("rule index out of range")
)

// Profile is an ordered, labeled list of rules.
type Profile struct {
	label string
	path  string
	rules []rule.Rule
}

// ProfileOpt is a functional option for configuring a [Profile].
type ProfileOpt func(*Profile)

// New creates a new profile with the given label.
func New(label string, opts ...ProfileOpt) *Profile {
	p := &Profile{label: label}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithPath sets the provenance of the profile, usually the file it was
// loaded from. The path is never interpreted.
func WithPath(path string) ProfileOpt {
	return func(p *Profile) {
		p.path = path
	}
}

// WithRules seeds the profile with rules, in order.
func WithRules(rules ...rule.Rule) ProfileOpt {
	return func(p *Profile) {
		p.rules = append(p.rules, rules...)
	}
}

// Label returns the profile's label.
func (p *Profile) Label() string {
	return p.label
}

// Path returns the profile's provenance.
func (p *Profile) Path() string {
	return p.path
}

// AddRule appends r to the end of the profile.
func (p *Profile) AddRule(r rule.Rule) {
	p.rules = append(p.rules, r)
}

// Apply folds the enabled rules over input, in order.
func (p *Profile) Apply(input string) string {
	out := input
	for _, r := range p.rules {
		if !r.Enabled() {
			continue
		}

		out = r.Format(out)
	}

	return out
}

// Rules returns the profile's rules. The slice is shared with the profile, so
// toggling a rule through it is visible to [Profile.Apply].
func (p *Profile) Rules() []rule.Rule {
	return p.rules
}

// Len returns the number of rules.
func (p *Profile) Len() int {
	return len(p.rules)
}

// Rule returns the rule at index i.
//
//nolint:ireturn // Rules are a sum type.
func (p *Profile) Rule(i int) (rule.Rule, error) {
	if i < 0 || i >= len(p.rules) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrRuleIndex, i, len(p.rules))
	}

	return p.rules[i], nil
}

// SetEnabled toggles the rule at index i.
func (p *Profile) SetEnabled(i int, enabled bool) error {
	r, err := p.Rule(i)
	if err != nil {
		return err
	}

	r.SetEnabled(enabled)

	return nil
}

// Move moves the rule at index from to index to, shifting the rules in
// between. The number of rules is unchanged.
func (p *Profile) Move(from, to int) error {
	if _, err := p.Rule(from); err != nil {
		return err
	}
	if _, err := p.Rule(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	r := p.rules[from]
	if from < to {
		copy(p.rules[from:to], p.rules[from+1:to+1])
	} else {
		copy(p.rules[to+1:from+1], p.rules[to:from])
	}

	p.rules[to] = r

	return nil
}

// SetClock sets the clock of every DateTime rule in the profile.
func (p *Profile) SetClock(c rule.Clock) {
	for _, r := range p.rules {
		if dt, ok := r.(*rule.DateTime); ok {
			dt.SetClock(c)
		}
	}
}

// Clone returns a deep copy of the profile. Editing the clone does not affect
// the original.
func (p *Profile) Clone() *Profile {
	c := &Profile{
		label: p.label,
		path:  p.path,
		rules: make([]rule.Rule, 0, len(p.rules)),
	}
	for _, r := range p.rules {
		c.rules = append(c.rules, r.Clone())
	}

	return c
}

func (p *Profile) String() string {
	return p.label
}

// Record is the persisted form of a [Profile].
type Record struct {
	// Label names the profile. It must be unique across the profile directory.
	Label string `json:"label" jsonschema:"title=Label,minLength=1" toml:"label"`
	// Path is an opaque provenance hint.
	Path string `json:"path,omitempty" jsonschema:"title=Path" toml:"path,omitempty"`
	// Matches lists the profile's rules, in the order they are applied.
	Matches []rule.Record `json:"matches,omitempty" jsonschema:"title=Rules" toml:"matches,omitempty"`
}

// Record returns the persisted form of the profile.
func (p *Profile) Record() Record {
	rec := Record{
		Label:   p.label,
		Path:    p.path,
		Matches: make([]rule.Record, 0, len(p.rules)),
	}
	for _, r := range p.rules {
		rec.Matches = append(rec.Matches, r.Record())
	}

	return rec
}

// FromRecord builds a [Profile] from its persisted form. The rule options are
// passed to every rule, e.g. [rule.WithClock].
func FromRecord(rec Record, opts ...rule.Opt) (*Profile, error) {
	if rec.Label == "" {
		return nil, ErrEmptyLabel
	}

	p := New(rec.Label, WithPath(rec.Path))
	for i, m := range rec.Matches {
		r, err := rule.FromRecord(m, opts...)
		if err != nil {
			return nil, fmt.Errorf("matches[%d]: %w", i, err)
		}

		p.AddRule(r)
	}

	return p, nil
}

// MarshalYAML serializes the profile record to YAML.
func (p *Profile) MarshalYAML() ([]byte, error) {
	b, err := api.MarshalYAML(p.Record())
	if err != nil {
		return nil, fmt.Errorf("marshal profile %q: %w", p.label, err)
	}

	return b, nil
}
