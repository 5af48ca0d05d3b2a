//go:build !linux

package config

import "log/slog"

// Watch needs inotify; elsewhere config changes require a restart.
func Watch(filename string, onChange func(*Config)) (stop func(), err error) {
	slog.Default().With("module", "config").Warn("config watching is only supported on linux", "file", filename)
	return func() {}, nil
}
