package rule

import (
	"fmt"
	"strings"
)

// Raw replaces a literal pattern with a fixed string.
type Raw struct {
	pattern string
	replace string
	enabled bool
}

// NewRaw creates an enabled [Raw] rule.
func NewRaw(pattern, replace string, opts ...Opt) *Raw {
	o := newOptions(opts)

	return &Raw{
		pattern: pattern,
		replace: replace,
		enabled: !o.disabled,
	}
}

// Format replaces every non-overlapping occurrence of the pattern, scanning
// left to right. An empty pattern is a no-op.
func (r *Raw) Format(input string) string {
	if r.pattern == "" {
		return input
	}

	return strings.ReplaceAll(input, r.pattern, r.replace)
}

func (r *Raw) Enabled() bool {
	return r.enabled
}

func (r *Raw) SetEnabled(enabled bool) {
	r.enabled = enabled
}

func (r *Raw) Kind() Kind {
	return KindRaw
}

// Pattern returns the literal searched for.
func (r *Raw) Pattern() string {
	return r.pattern
}

// Replacement returns the text substituted for the pattern.
func (r *Raw) Replacement() string {
	return r.replace
}

func (r *Raw) Record() Record {
	return Record{
		Type:      KindRaw,
		Raw:       r.pattern,
		Replace:   stringPtr(r.replace),
		IsEnabled: boolPtr(r.enabled),
	}
}

//nolint:ireturn // Must satisfy [Rule].
func (r *Raw) Clone() Rule {
	c := *r

	return &c
}

func (r *Raw) String() string {
	return fmt.Sprintf("%q → %q", r.pattern, r.replace)
}
