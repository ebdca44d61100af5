// Package engine runs a selected profile over input text.
//
// When no profile is selected, expansion fails with [ErrProfileNotFound]. The
// input is never returned unchanged as a fallback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macropower/tempo/pkg/log"
	"github.com/macropower/tempo/pkg/profile"
)

// ErrProfileNotFound is returned when no profile was selected or a label does
// not name a loaded profile.
var ErrProfileNotFound = errors.New("profile not found")

// ApplyFormat applies p to input. A nil profile is an error.
func ApplyFormat(input string, p *profile.Profile) (string, error) {
	if p == nil {
		return "", ErrProfileNotFound
	}

	return p.Apply(input), nil
}

// Resolve looks up label in c.
func Resolve(c *profile.Collection, label string) (*profile.Profile, error) {
	if label == "" {
		return nil, fmt.Errorf("%w: no profile selected", ErrProfileNotFound)
	}

	p, ok := c.Get(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, label)
	}

	return p, nil
}

// Selector picks a profile label for an input. It returns an empty label when
// it has no opinion.
type Selector interface {
	Select(input string, labels []string) (string, error)
}

// Engine resolves profiles from a [profile.Collection] and applies them.
type Engine struct {
	profiles       *profile.Collection
	selector       Selector
	defaultProfile string
}

// EngineOpt is a functional option for configuring an [Engine].
type EngineOpt func(*Engine)

// New creates a new [Engine] over the given collection.
func New(profiles *profile.Collection, opts ...EngineOpt) *Engine {
	if profiles == nil {
		profiles = profile.NewCollection()
	}

	e := &Engine{profiles: profiles}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithSelector consults s when the caller does not name a profile.
func WithSelector(s Selector) EngineOpt {
	return func(e *Engine) {
		e.selector = s
	}
}

// WithDefaultProfile uses label when neither the caller nor the selector
// names a profile.
func WithDefaultProfile(label string) EngineOpt {
	return func(e *Engine) {
		e.defaultProfile = label
	}
}

// Profiles returns the engine's collection.
func (e *Engine) Profiles() *profile.Collection {
	return e.profiles
}

// Select resolves the profile to use for input. An explicit label always
// wins; otherwise the selector is consulted, then the default profile.
func (e *Engine) Select(ctx context.Context, input, label string) (*profile.Profile, error) {
	logger := log.WithContext(ctx)

	if label != "" {
		return Resolve(e.profiles, label)
	}

	if e.selector != nil {
		selected, err := e.selector.Select(input, e.profiles.Labels())
		if err != nil {
			return nil, fmt.Errorf("select profile: %w", err)
		}

		if selected != "" {
			logger.DebugContext(ctx, "profile chosen by selector", slog.String("profile", selected))

			return Resolve(e.profiles, selected)
		}
	}

	if e.defaultProfile != "" {
		logger.DebugContext(ctx, "using default profile", slog.String("profile", e.defaultProfile))

		return Resolve(e.profiles, e.defaultProfile)
	}

	return nil, fmt.Errorf("%w: no profile selected", ErrProfileNotFound)
}

// Expand selects a profile for input and applies it.
func (e *Engine) Expand(ctx context.Context, input, label string) (string, error) {
	p, err := e.Select(ctx, input, label)
	if err != nil {
		return "", err
	}

	return ApplyFormat(input, p)
}
