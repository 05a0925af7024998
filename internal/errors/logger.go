package errors

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Logger is a JSON slog logger that knows how to log AppErrors.
type Logger struct {
	logger *slog.Logger
}

// New returns a stdout logger for a level name such as "info".
func New(level string) (*Logger, error) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return nil, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", level)
	}
	return NewLogger(lvl), nil
}

func NewLogger(level slog.Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

// Discard drops every record.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.DiscardHandler)}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// LogError logs err at error level. An AppError contributes its type, code,
// message, cause and context as separate fields.
func (l *Logger) LogError(err error, message string, args ...any) {
	l.logger.Error(message, append(errorFields(err), args...)...)
}

func errorFields(err error) []any {
	appErr, ok := As(err)
	if !ok {
		return []any{"error", err.Error()}
	}
	fields := make([]any, 0, 8+2*len(appErr.Context))
	fields = append(fields,
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message)
	if appErr.Cause != nil {
		fields = append(fields, "cause", appErr.Cause.Error())
	}
	for k, v := range appErr.Context {
		fields = append(fields, k, v)
	}
	return fields
}

func (l *Logger) Debug(message string, args ...any) { l.logger.Debug(message, args...) }
func (l *Logger) Info(message string, args ...any)  { l.logger.Info(message, args...) }
func (l *Logger) Warn(message string, args ...any)  { l.logger.Warn(message, args...) }
