//go:build linux

package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jhenstridge/go-inotify"
)

// Watch re-parses filename whenever it is rewritten and hands every valid
// result to onChange. Invalid rewrites are logged and skipped. The watch
// stops when stop is called.
func Watch(filename string, onChange func(*Config)) (stop func(), err error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}

	watcher, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create inotify watcher: %w", err)
	}

	// editors tend to replace the file, so watch the directory
	_, err = watcher.Watch(filepath.Dir(abs))
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("could not watch %s: %w", filepath.Dir(abs), err)
	}

	logger := slog.Default().With("module", "config")
	go func() {
		for ev := range watcher.Event {
			if !isConfigEvent(abs, ev.Name, ev.Mask) {
				continue
			}
			// give writers that close and reopen a moment to finish
			time.Sleep(100 * time.Millisecond)

			cfg, err := Parse(abs)
			if err != nil {
				logger.Warn("ignoring config change", "error", err)
				continue
			}
			logger.Info("config reloaded", "file", abs)
			onChange(cfg)
		}
	}()

	return func() {
		err := watcher.Close()
		if err != nil {
			logger.Warn("could not close config watcher", "error", err)
		}
	}, nil
}

// isConfigEvent reports whether an event on the watched directory finished
// writing abs. Directory watches name the entry relative to the directory.
func isConfigEvent(abs string, name string, mask inotify.Mask) bool {
	if mask&(inotify.IN_CLOSE_WRITE|inotify.IN_MOVED_TO) == 0 {
		return false
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(filepath.Dir(abs), name)
	}
	return filepath.Clean(name) == abs
}
