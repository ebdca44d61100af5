package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/tempo/pkg/log"
	"github.com/macropower/tempo/pkg/profile"
)

// DefaultDebounce is how long a [Watcher] waits for more changes before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// Event is the result of a reload.
type Event struct {
	Profiles *profile.Collection
	Err      error
}

// Watcher reloads the profiles below a root whenever a file changes.
type Watcher struct {
	loader   *Loader
	watcher  *fsnotify.Watcher
	events   chan Event
	root     string
	debounce time.Duration
}

// WatcherOpt is a functional option for configuring a [Watcher].
type WatcherOpt func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher watches root and all directories below it.
func NewWatcher(l *Loader, root string, opts ...WatcherOpt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		loader:   l,
		watcher:  fw,
		events:   make(chan Event, 1),
		root:     root,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	err = w.addTree(root)
	if err != nil {
		closeErr := fw.Close()

		return nil, errors.Join(err, closeErr)
	}

	return w, nil
}

// Events returns the channel reload results are delivered on. It is closed
// when [Watcher.Run] returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run handles filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	logger := log.WithContext(ctx).With(slog.String("root", w.root))

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			logger.DebugContext(ctx, "profile change", slog.String("event", evt.String()))

			if evt.Has(fsnotify.Create) {
				err := w.addTree(evt.Name)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					logger.WarnContext(ctx, "watch new directory", slog.Any("error", err))
				}
			}

			timer.Reset(w.debounce)

		case <-timer.C:
			profiles, err := w.loader.Load(ctx, w.root)

			select {
			case w.events <- Event{Profiles: profiles, Err: err}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			logger.ErrorContext(ctx, "watch profiles", slog.Any("error", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

// addTree watches path and every directory below it, following symbolic
// links. Files are ignored.
func (w *Watcher) addTree(path string) error {
	//nolint:wrapcheck // Wrapped by callers.
	return walk(path, func(p string, isDir bool) error {
		if !isDir {
			return nil
		}

		err := w.watcher.Add(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}

		return nil
	})
}
