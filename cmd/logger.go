package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
)

const logFileName = "storeagent.log"

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func newLogger(output io.Writer, level slog.Level, noColor bool) *slog.Logger {
	handler := tint.NewHandler(output, &tint.Options{
		Level:      level,
		AddSource:  false,
		TimeFormat: "2006-01-02 15:04:05.000Z07:00",
		NoColor:    noColor,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}

// stderrLogger is used by the one-shot commands; stdout carries their result
func stderrLogger() *slog.Logger {
	level, err := parseLevel(logLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return newLogger(os.Stderr, level, os.Getenv("NO_COLOR") != "")
}

// fileLogger keeps the TUI screen clean by logging next to the config file
func fileLogger(dir string) (*slog.Logger, func(), error) {
	level, err := parseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	if level > slog.LevelInfo {
		level = slog.LevelInfo
	}

	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return newLogger(f, level, true), func() { _ = f.Close() }, nil
}
