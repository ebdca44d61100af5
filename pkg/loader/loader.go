// Package loader discovers profile records on disk and builds a
// [profile.Collection] from them.
//
// Every regular file below the root is one record, including files reached
// through symbolic links. Files ending in .toml are
// decoded as TOML, all others as YAML (which includes JSON). Names starting
// with a dot are skipped, as are directories with such names. The walk is
// lexical, and when two records share a label the one discovered last wins.
package loader

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/tempo/api"
	"github.com/macropower/tempo/pkg/log"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/rule"
)

// Loader reads profile records.
type Loader struct {
	tracer    trace.Tracer
	validator Validator
	ruleOpts  []rule.Opt
}

// LoaderOpt is a functional option for configuring a [Loader].
type LoaderOpt func(*Loader)

// New creates a new [Loader]. Records are validated against the generated
// profile schema unless [WithValidator] says otherwise.
func New(opts ...LoaderOpt) (*Loader, error) {
	v, err := RecordValidator()
	if err != nil {
		return nil, fmt.Errorf("create record validator: %w", err)
	}

	l := &Loader{
		tracer:    otel.Tracer("profile-loader"),
		validator: v,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// WithClock sets the clock of every loaded DateTime rule.
func WithClock(c rule.Clock) LoaderOpt {
	return func(l *Loader) {
		l.ruleOpts = append(l.ruleOpts, rule.WithClock(c))
	}
}

// WithValidator replaces the record validator. A nil validator disables
// validation.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// Load walks root and returns the resulting collection. An unreadable root
// or file is a [*FileError]; an invalid record is a [*FormatError]. A root
// that does not exist yields a [*FileError] wrapping [fs.ErrNotExist].
func Load(ctx context.Context, root string, opts ...LoaderOpt) (*profile.Collection, error) {
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return l.Load(ctx, root)
}

// Load walks root and returns the resulting collection.
func (l *Loader) Load(ctx context.Context, root string) (*profile.Collection, error) {
	ctx, span := l.tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.String("root", root),
	))
	defer span.End()

	logger := log.WithContext(ctx).With(slog.String("root", root))

	paths, err := Discover(root)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	profiles := profile.NewCollection()

	for _, path := range paths {
		p, err := l.LoadFile(ctx, path)
		if err != nil {
			span.RecordError(err)

			return nil, err
		}

		if prev := profiles.Add(p); prev != nil {
			logger.WarnContext(ctx, "duplicate profile label, later file wins",
				slog.String("profile", p.Label()),
				slog.String("replaced", prev.Path()),
				slog.String("path", p.Path()),
			)
		}
	}

	span.SetAttributes(attribute.Int("profiles", profiles.Len()))
	logger.DebugContext(ctx, "loaded profiles",
		slog.Int("files", len(paths)),
		slog.Int("profiles", profiles.Len()),
	)

	return profiles, nil
}

// LoadFile reads a single record. A record without a path gets path as its
// provenance.
func (l *Loader) LoadFile(ctx context.Context, path string) (*profile.Profile, error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	rec, err := DecodeRecord(path, data, l.validator)
	if err != nil {
		return nil, err
	}

	if rec.Path == "" {
		rec.Path = path
	}

	p, err := profile.FromRecord(rec, l.ruleOpts...)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	log.WithContext(ctx).DebugContext(ctx, "loaded profile",
		slog.String("profile", p.Label()),
		slog.String("path", path),
		slog.Int("rules", p.Len()),
	)

	return p, nil
}

// Discover returns the record files below root in lexical walk order. A root
// that is itself a file is returned as the only record. Symbolic links to
// files and directories are followed.
func Discover(root string) ([]string, error) {
	var paths []string

	err := walk(root, func(path string, isDir bool) error {
		if !isDir {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}
