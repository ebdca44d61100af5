package rule

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the variant of a [Rule].
type Kind string

const (
	// KindRaw is the kind of a [Raw] rule.
	KindRaw Kind = "Raw"
	// KindDateTime is the kind of a [DateTime] rule.
	KindDateTime Kind = "DateTime"
)

// AllKinds lists every known [Kind].
var AllKinds = []Kind{KindRaw, KindDateTime}

var (
	// ErrUnknownKind is returned when a [Record] names a kind that does not exist.
	ErrUnknownKind = errors.New("unknown rule type")
	// ErrMissingField is returned when a [Record] omits the field its kind reads.
	ErrMissingField = errors.New("missing rule field")
)

// Rule is a single pattern-based transformation.
type Rule interface {
	// Format returns input with every occurrence of the rule's pattern
	// replaced.
	Format(input string) string
	// Enabled reports whether the rule takes part in a profile's apply.
	Enabled() bool
	// SetEnabled toggles the rule.
	SetEnabled(enabled bool)
	// Kind returns the variant of the rule.
	Kind() Kind
	// Record returns the persisted form of the rule.
	Record() Record
	// Clone returns an independent copy of the rule.
	Clone() Rule
	// String describes the rule for display.
	String() string
}

// Clock returns the current instant. It is read at most once per
// [DateTime.Format] call.
type Clock func() time.Time

// SystemClock is the default [Clock], backed by the local wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock returns a [Clock] that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

// Opt configures a [Rule] at construction time.
type Opt func(*options)

type options struct {
	clock    Clock
	disabled bool
}

// WithClock sets the [Clock] used by [DateTime] rules. Other kinds ignore it.
func WithClock(c Clock) Opt {
	return func(o *options) {
		o.clock = c
	}
}

// Disabled creates the rule in the disabled state.
func Disabled() Opt {
	return func(o *options) {
		o.disabled = true
	}
}

func newOptions(opts []Opt) *options {
	o := &options{clock: SystemClock}
	for _, opt := range opts {
		opt(o)
	}

	if o.clock == nil {
		o.clock = SystemClock
	}

	return o
}

// FromRecord builds the [Rule] described by rec.
func FromRecord(rec Record, opts ...Opt) (Rule, error) {
	if rec.IsEnabled != nil && !*rec.IsEnabled {
		opts = append(opts, Disabled())
	}

	switch rec.Type {
	case KindRaw:
		if rec.Replace == nil {
			return nil, fmt.Errorf("%w: %s rule %q requires replace", ErrMissingField, rec.Type, rec.Raw)
		}

		return NewRaw(rec.Raw, *rec.Replace, opts...), nil
	case KindDateTime:
		if rec.Format == nil {
			return nil, fmt.Errorf("%w: %s rule %q requires format", ErrMissingField, rec.Type, rec.Raw)
		}

		return NewDateTime(rec.Raw, *rec.Format, opts...), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Type)
}

// MustFromRecord is like [FromRecord] but panics on error.
func MustFromRecord(rec Record, opts ...Opt) Rule {
	r, err := FromRecord(rec, opts...)
	if err != nil {
		panic(err)
	}

	return r
}
