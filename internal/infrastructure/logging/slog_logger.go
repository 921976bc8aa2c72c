package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

// SlogLogger implementa ports.Logger usando slog do stdlib
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger cria um novo logger em stdout
func NewSlogLogger(level, format string) ports.Logger {
	return NewSlogLoggerWithWriter(os.Stdout, level, format)
}

// NewSlogLoggerWithWriter cria um logger que escreve em w.
// format "text" usa o handler de texto; qualquer outro valor usa JSON.
func NewSlogLoggerWithWriter(w io.Writer, level, format string) ports.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &SlogLogger{logger: slog.New(handler)}
}

// NewNopLogger descarta todas as mensagens (testes)
func NewNopLogger() ports.Logger {
	return NewSlogLoggerWithWriter(io.Discard, "error", "text")
}

// ParseLevel converte o nível configurado em slog.Level (padrão: info)
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) With(args ...any) ports.Logger {
	return &SlogLogger{
		logger: l.logger.With(args...),
	}
}
