package log

import (
	"context"
	"errors"
	"log/slog"

	"pennywise/internal/core"
)

type ContextKey string

const LoggerContextKey ContextKey = "logger"

// IntoContext attaches logger to ctx for code that only receives a context.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to the default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger writes the book's command log lines with a fixed shape.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogCommand records a committed command.
func (sl *StructuredLogger) LogCommand(ctx context.Context, operation, kind, id string) {
	fields := NewFields().
		WithOperation(operation).
		WithEntity(kind, id)
	sl.logger.InfoContext(ctx, "Command committed", fields.ToSlice()...)
}

// LogRejected records a command that left the state untouched. Caller
// mistakes go to Warn, anything else to Error.
func (sl *StructuredLogger) LogRejected(ctx context.Context, operation string, err error) {
	fields := NewFields().
		WithOperation(operation).
		WithError(err)
	fields[FieldErrorType] = ErrorType(err)

	level := slog.LevelError
	if errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
		level = slog.LevelWarn
	}
	sl.logger.Logger.Log(ctx, level, "Command rejected", append([]any{FieldComponent, sl.logger.component}, fields.ToSlice()...)...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.Logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}

// ErrorType maps an error onto one of the ErrorType constants.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, core.ErrInvariant):
		return ErrorTypeInvariant
	default:
		return ErrorTypeInternal
	}
}
