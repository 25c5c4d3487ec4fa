// Package watcher renames SQL scripts as they appear in a watched
// directory. Only the directory itself is watched, not its children.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"sqlnamer/internal/orchestrator"
)

// Config contains watcher settings.
type Config struct {
	Debounce        time.Duration // Quiet period before a file is handled
	StableThreshold time.Duration // How long the size must hold still
	IgnorePatterns  []string      // Glob patterns matched against the base name
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:        500 * time.Millisecond,
		StableThreshold: time.Second,
		IgnorePatterns:  DefaultIgnorePatterns(),
	}
}

// Summary contains stats from a watch session.
type Summary struct {
	Renamed   int
	Unchanged int
	Failed    int
	Duration  time.Duration
}

// Handler processes one settled file. The watcher never runs two handlers
// at once.
type Handler func(path string) (orchestrator.Result, error)

// Watcher monitors one directory and feeds new SQL files to a Handler.
type Watcher struct {
	config    Config
	handler   Handler
	filter    *FileFilter
	stability *StabilityChecker
	log       zerolog.Logger

	handleMu sync.Mutex // serializes handler calls

	mu       sync.Mutex
	closing  bool
	inflight sync.WaitGroup
	summary  Summary
}

// New creates a Watcher.
func New(config Config, handler Handler, log zerolog.Logger) *Watcher {
	return &Watcher{
		config:    config,
		handler:   handler,
		filter:    NewFileFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(config.StableThreshold),
		log:       log,
	}
}

// Run watches dir until ctx is cancelled, then waits for any file already
// being handled and returns the session summary.
func (w *Watcher) Run(ctx context.Context, dir string) (*Summary, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(absDir); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", absDir, err)
	}
	w.log.Info().Str("directory", absDir).Msg("watching")

	start := time.Now()
	debouncer := NewDebouncer(w.config.Debounce, func(path string) {
		if !w.track() {
			return
		}
		defer w.inflight.Done()
		w.settle(ctx, path)
	})

	for {
		select {
		case <-ctx.Done():
			return w.shutdown(debouncer, start), nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return w.shutdown(debouncer, start), nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.filter.Accept(event.Name) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("event")
			debouncer.Add(event.Name)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return w.shutdown(debouncer, start), nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// Summary returns the counts so far.
func (w *Watcher) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.summary
}

func (w *Watcher) track() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closing {
		return false
	}
	w.inflight.Add(1)
	return true
}

func (w *Watcher) shutdown(debouncer *Debouncer, start time.Time) *Summary {
	debouncer.CancelAll()

	w.mu.Lock()
	w.closing = true
	w.mu.Unlock()
	w.inflight.Wait()

	summary := w.Summary()
	summary.Duration = time.Since(start)
	return &summary
}

// settle waits for path to stop changing, then hands it to the handler.
func (w *Watcher) settle(ctx context.Context, path string) {
	if err := w.stability.WaitForStable(ctx, path); err != nil {
		if errors.Is(err, ErrFileNotFound) || ctx.Err() != nil {
			w.log.Debug().Str("file", path).Err(err).Msg("file gone before it settled")
			return
		}
		w.log.Warn().Str("file", path).Err(err).Msg("skipping file")
		return
	}

	w.handleMu.Lock()
	defer w.handleMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	result, err := w.handler(path)
	w.record(result, err)
	if err != nil {
		w.log.Error().Str("file", path).Err(err).Msg("handler failed")
	}
}

func (w *Watcher) record(result orchestrator.Result, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case err != nil, result.Outcome == orchestrator.OutcomeFailed:
		w.summary.Failed++
	case result.Outcome == orchestrator.OutcomeRenamed:
		w.summary.Renamed++
	default:
		w.summary.Unchanged++
	}
}
