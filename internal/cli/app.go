package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/macropower/tempo/api/v1beta1/configs"
	"github.com/macropower/tempo/pkg/config"
	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/loader"
	"github.com/macropower/tempo/pkg/profile"
)

// app is the state shared by tempo's commands.
type app struct {
	cfg        *configs.Config
	loader     *loader.Loader
	profiles   *profile.Collection
	profileDir string
	engineOpts []engine.EngineOpt
}

// newApp loads the configuration and the profiles it points at. A missing
// profile directory is an empty collection; malformed profiles are errors.
func newApp(ctx context.Context, ra *RootArgs) (*app, error) {
	cfg, err := config.LoadConfiguration(ra.GetConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	a := &app{
		cfg:        cfg,
		profileDir: cfg.GetProfileDir(),
	}

	if ra.ProfileDir != "" {
		a.profileDir = ra.ProfileDir
	}

	set, err := cfg.SelectorSet()
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	if set.Len() > 0 {
		a.engineOpts = append(a.engineOpts, engine.WithSelector(set))
	}

	if cfg.DefaultProfile != "" {
		a.engineOpts = append(a.engineOpts, engine.WithDefaultProfile(cfg.DefaultProfile))
	}

	a.loader, err = loader.New()
	if err != nil {
		return nil, fmt.Errorf("create profile loader: %w", err)
	}

	a.profiles, err = a.loadProfiles(ctx)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) loadProfiles(ctx context.Context) (*profile.Collection, error) {
	profiles, err := a.loader.Load(ctx, a.profileDir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "profile directory does not exist",
			slog.String("path", a.profileDir),
		)

		return profile.NewCollection(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	return profiles, nil
}

func (a *app) engine() *engine.Engine {
	return engine.New(a.profiles, a.engineOpts...)
}

// watch starts a [loader.Watcher] over the profile directory. It runs until
// ctx is done.
func (a *app) watch(ctx context.Context) (<-chan loader.Event, error) {
	w, err := loader.NewWatcher(a.loader, a.profileDir)
	if err != nil {
		return nil, fmt.Errorf("watch profiles: %w", err)
	}

	go func() {
		defer func() {
			err := w.Close()
			if err != nil {
				slog.Error("close profile watcher", slog.Any("error", err))
			}
		}()

		w.Run(ctx)
	}()

	return w.Events(), nil
}
