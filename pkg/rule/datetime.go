package rule

import (
	"fmt"
	"strings"

	"github.com/ncruces/go-strftime"
)

// DateTime replaces a literal pattern with the current time.
type DateTime struct {
	clock   Clock
	pattern string
	format  string
	enabled bool
}

// NewDateTime creates an enabled [DateTime] rule. The format uses strftime
// directives, see [github.com/ncruces/go-strftime].
func NewDateTime(pattern, format string, opts ...Opt) *DateTime {
	o := newOptions(opts)

	return &DateTime{
		pattern: pattern,
		format:  format,
		enabled: !o.disabled,
		clock:   o.clock,
	}
}

// Format reads the clock once and substitutes the rendered time for every
// occurrence of the pattern, so all occurrences share one value. The clock
// is not read when there is nothing to replace.
func (d *DateTime) Format(input string) string {
	if d.pattern == "" || !strings.Contains(input, d.pattern) {
		return input
	}

	return strings.ReplaceAll(input, d.pattern, d.Render())
}

// Render formats the current instant with the rule's format.
// Unknown directives are rendered however go-strftime renders them.
func (d *DateTime) Render() string {
	return strftime.Format(d.format, d.clock())
}

func (d *DateTime) Enabled() bool {
	return d.enabled
}

func (d *DateTime) SetEnabled(enabled bool) {
	d.enabled = enabled
}

func (d *DateTime) Kind() Kind {
	return KindDateTime
}

// Pattern returns the literal searched for.
func (d *DateTime) Pattern() string {
	return d.pattern
}

// TimeFormat returns the strftime format.
func (d *DateTime) TimeFormat() string {
	return d.format
}

// SetClock replaces the rule's [Clock]. A nil clock restores [SystemClock].
func (d *DateTime) SetClock(c Clock) {
	if c == nil {
		c = SystemClock
	}

	d.clock = c
}

func (d *DateTime) Record() Record {
	return Record{
		Type:      KindDateTime,
		Raw:       d.pattern,
		Format:    stringPtr(d.format),
		IsEnabled: boolPtr(d.enabled),
	}
}

//nolint:ireturn // Must satisfy [Rule].
func (d *DateTime) Clone() Rule {
	c := *d

	return &c
}

func (d *DateTime) String() string {
	return fmt.Sprintf("%q → now(%s)", d.pattern, d.format)
}
