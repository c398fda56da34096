package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string    // "debug"|"info"|"warn"|"error"
	Format string    // "text"|"json"
	Output io.Writer // defaults to os.Stdout
}

func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level),
		AddSource:   false,
		ReplaceAttr: replaceAttrsCompact,
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var h slog.Handler
	if strings.ToLower(opts.Format) == "text" {
		h = slog.NewTextHandler(out, handlerOpts)
	} else {
		h = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(h)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceAttrsCompact(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.Time(slog.TimeKey, a.Value.Time().UTC())
	}
	return a
}

// Discard is handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
