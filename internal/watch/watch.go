// Package watch reruns a conversion whenever its input file changes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is the quiet period after the last event before fn runs.
const DefaultDebounce = 100 * time.Millisecond

// Options configures Run.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run calls fn each time path is written, created or renamed onto, after
// the events have settled for the debounce period. The parent directory is
// watched so that editors that replace the file are seen. A failing fn is
// logged and watching continues. Run returns when ctx is done.
func Run(ctx context.Context, path string, opts Options, fn func(context.Context) error) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WithStack(err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	log.Info("watching", "path", path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !relevant(event.Op) {
				continue
			}
			log.Debug("change", "path", path, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-timer.C:
			if err := fn(ctx); err != nil {
				log.Error("regenerate failed", "path", path, "error", err)
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
