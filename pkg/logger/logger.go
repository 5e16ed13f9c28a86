package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger описывает минимальный интерфейс структурированного логгера,
// достаточный для использования в handler'ах, usecase'ах и CLI.
type Logger interface {
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type slogLogger struct {
	l *slog.Logger
}

// Default возвращает текстовый логгер уровня info в stderr.
func Default() Logger {
	return New(os.Stderr, "development", "info")
}

// New создаёт логгер на базе log/slog.
// В production пишет JSON, в остальных окружениях текст.
func New(w io.Writer, appEnv, level string) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(appEnv, "production") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &slogLogger{l: slog.New(h)}
}

// Slog возвращает *slog.Logger, лежащий под Logger, если он есть.
func Slog(l Logger) *slog.Logger {
	if s, ok := l.(*slogLogger); ok {
		return s.l
	}
	return slog.Default()
}

func (s *slogLogger) Info(msg string, fields map[string]any) {
	s.l.Info(msg, attrs(fields)...)
}

func (s *slogLogger) Warn(msg string, fields map[string]any) {
	s.l.Warn(msg, attrs(fields)...)
}

func (s *slogLogger) Error(msg string, fields map[string]any) {
	s.l.Error(msg, attrs(fields)...)
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields))
	for k, v := range fields {
		out = append(out, slog.Any(k, v))
	}
	return out
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
