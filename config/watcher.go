package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/slighter12/unity-mcp-go/logger"
)

const defaultReloadDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// validated result to a callback. Invalid edits are logged and skipped.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(*Config)
	fs       *fsnotify.Watcher
}

// NewWatcher watches the directory holding path, since editors often replace
// files with a rename rather than writing in place.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("config watcher requires a change callback")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	return &Watcher{
		path:     absPath,
		debounce: defaultReloadDebounce,
		onChange: onChange,
		fs:       fsWatcher,
	}, nil
}

// Run blocks until ctx is cancelled or the underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error", "path", w.path, "error", err)
		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

// Close stops the watcher; Run returns shortly after.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		logger.Warn("Ignoring config change", "path", w.path, "error", err)
		return
	}
	logger.Info("Config reloaded", "path", w.path)
	w.onChange(cfg)
}
