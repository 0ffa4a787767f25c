// Package activity reads activity signals from a file and feeds them to a bonus oracle.
package activity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/logger"
)

// Setter receives activity updates.
type Setter interface {
	SetActivity(bonus.Activity)
}

// WriteSignal replaces the signal file with the activity name.
func WriteSignal(path string, a bonus.Activity) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create signal directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".activity-*")
	if err != nil {
		return fmt.Errorf("failed to create temp signal: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := fmt.Fprintln(tmpFile, a.String()); err != nil {
		return fmt.Errorf("failed to write signal: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close signal: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write signal: %w", err)
	}
	return nil
}

// ReadSignal parses the activity stored in the signal file.
func ReadSignal(path string) (bonus.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return bonus.ParseActivity(string(data))
}

// Watcher applies the signal file to a Setter whenever it changes.
type Watcher struct {
	path   string
	target Setter
}

// NewWatcher returns a watcher for the signal file at path.
func NewWatcher(path string, target Setter) *Watcher {
	return &Watcher{path: filepath.Clean(path), target: target}
}

// Run applies the current signal, then follows changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create signal directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil {
			// Best-effort watcher close.
			_ = cerr
		}
	}()
	// The directory is watched so rename-replaced files keep being seen.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.apply()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.apply()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("activity watcher error", "err", err)
		}
	}
}

func (w *Watcher) apply() {
	a, err := ReadSignal(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("ignoring activity signal", "path", w.path, "err", err)
		}
		return
	}
	logger.Debug("activity changed", "activity", a)
	w.target.SetActivity(a)
}
