package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New creates a structured slog.Logger that writes text to stdout and JSON to
// dir/info.log and dir/error.log.
func New(level, dir string) (*slog.Logger, error) {
	handlerLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if dir == "" {
		dir = "logs"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	errorFile, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}

	infoFile, err := os.OpenFile(filepath.Join(dir, "info.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}

	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: handlerLevel})
	infoFileHandler := slog.NewJSONHandler(infoFile, &slog.HandlerOptions{Level: handlerLevel})
	errorFileHandler := slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	handler := NewMultiLevelHandler(handlerLevel, consoleHandler, infoFileHandler, errorFileHandler)
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record. Used by tests and tools.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// MultiLevelHandler routes logs to the console and info file, and errors to the error file as well.
type MultiLevelHandler struct {
	consoleHandler   slog.Handler
	infoFileHandler  slog.Handler
	errorFileHandler slog.Handler
	level            slog.Leveler
}

func NewMultiLevelHandler(level slog.Leveler, consoleHandler, infoFileHandler, errorFileHandler slog.Handler) *MultiLevelHandler {
	return &MultiLevelHandler{
		consoleHandler:   consoleHandler,
		infoFileHandler:  infoFileHandler,
		errorFileHandler: errorFileHandler,
		level:            level,
	}
}

func (h *MultiLevelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *MultiLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.consoleHandler.Handle(ctx, r); err != nil {
		return err
	}

	if err := h.infoFileHandler.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= slog.LevelError {
		return h.errorFileHandler.Handle(ctx, r)
	}

	return nil
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MultiLevelHandler{
		consoleHandler:   h.consoleHandler.WithAttrs(attrs),
		infoFileHandler:  h.infoFileHandler.WithAttrs(attrs),
		errorFileHandler: h.errorFileHandler.WithAttrs(attrs),
		level:            h.level,
	}
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	return &MultiLevelHandler{
		consoleHandler:   h.consoleHandler.WithGroup(name),
		infoFileHandler:  h.infoFileHandler.WithGroup(name),
		errorFileHandler: h.errorFileHandler.WithGroup(name),
		level:            h.level,
	}
}

func parseLevel(level string) (slog.Leveler, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, errors.New("invalid log level")
	}
}
