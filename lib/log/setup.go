package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Sink is the process logging sink: the logger, its adjustable level and
// whatever file it writes to.
type Sink struct {
	Logger *slog.Logger
	Level  *slog.LevelVar

	file *os.File
}

// ParseLevel maps debug/info/warn/error to a slog level. Unknown names are
// an error, an empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup builds the sink and installs it as the slog default. When path is
// non-empty the log is also appended to that file and colours are off.
func Setup(level string, path string, out io.Writer) (*Sink, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	s := &Sink{Level: &slog.LevelVar{}}
	s.Level.Set(lvl)

	colour := os.Getenv("NO_COLOR") == ""
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("could not create log directory for %s: %w", path, err)
		}
		s.file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file %s: %w", path, err)
		}
		out = io.MultiWriter(out, s.file)
		colour = false
	}

	s.Logger = slog.New(NewHandler(out, colour, &slog.HandlerOptions{Level: s.Level}))
	slog.SetDefault(s.Logger)
	return s, nil
}

// SetLevel changes the level of an already running sink.
func (s *Sink) SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	s.Level.Set(lvl)
	return nil
}

func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
