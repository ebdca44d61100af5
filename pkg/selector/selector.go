package selector

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
)

var (
	// ErrNotBool is returned when a match expression cannot return a boolean.
	ErrNotBool = errors.New("match expression must return a boolean")

	// ErrNotCompiled is returned when a [Selector] is used before
	// [Selector.CompileMatch].
	ErrNotCompiled = errors.New("selector missing a compiled match expression")
)

// Selector names the profile to use when its CEL expression matches the
// input. See the package documentation for the expression environment.
type Selector struct {
	program cel.Program

	// Match is a CEL expression over the input text.
	Match string `json:"match" jsonschema:"title=Match Expression,minLength=1"`
	// Profile is the label of the profile to use when Match is true.
	Profile string `json:"profile" jsonschema:"title=Profile Label,minLength=1"`
}

// New creates a compiled [Selector].
func New(profileLabel, match string) (*Selector, error) {
	s := &Selector{
		Match:   match,
		Profile: profileLabel,
	}

	err := s.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", match, err)
	}

	return s, nil
}

// MustNew creates a compiled [Selector] and panics if there's an error.
func MustNew(profileLabel, match string) *Selector {
	s, err := New(profileLabel, match)
	if err != nil {
		panic(err)
	}

	return s
}

// CompileMatch compiles Match. It is a no-op once compiled.
func (s *Selector) CompileMatch() error {
	if s.program != nil {
		return nil
	}

	program, err := compile(s.Match)
	if err != nil {
		return err
	}

	s.program = program

	return nil
}

// Matches evaluates the expression. Evaluation errors and non-boolean
// results are treated as a non-match.
func (s *Selector) Matches(input string, labels []string) (bool, error) {
	if s.program == nil {
		return false, ErrNotCompiled
	}

	if labels == nil {
		labels = []string{}
	}

	result, _, err := s.program.Eval(map[string]any{
		"input":  input,
		"labels": labels,
	})
	if err != nil {
		slog.Debug("selector evaluation failed",
			slog.String("match", s.Match),
			slog.Any("error", err),
		)

		return false, nil
	}

	b, ok := result.Value().(bool)

	return ok && b, nil
}

func (s *Selector) String() string {
	return fmt.Sprintf("%s: %s", s.Profile, s.Match)
}

// Set is an ordered list of selectors. The first match wins.
type Set struct {
	selectors []*Selector
}

// NewSet compiles every selector.
func NewSet(selectors ...*Selector) (*Set, error) {
	for i, s := range selectors {
		err := s.CompileMatch()
		if err != nil {
			return nil, fmt.Errorf("selectors[%d]: %w", i, err)
		}
	}

	return &Set{selectors: selectors}, nil
}

// Select returns the profile of the first matching selector, or an empty
// label when none match.
func (s *Set) Select(input string, labels []string) (string, error) {
	for _, sel := range s.selectors {
		ok, err := sel.Matches(input, labels)
		if err != nil {
			return "", err
		}

		if ok {
			return sel.Profile, nil
		}
	}

	return "", nil
}

// Len returns the number of selectors.
func (s *Set) Len() int {
	return len(s.selectors)
}
