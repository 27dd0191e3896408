package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the completion provider name.
	FieldProvider = "completion_provider"
	// FieldModel is the structured log field key for the completion model identifier.
	FieldModel = "completion_model"
	// FieldSource is the structured log field key for the profile source.
	FieldSource = "profile_source"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CompletionFields describes the completion provider and model.
func CompletionFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCompletionFields attaches the completion provider and model to the logger.
func WithCompletionFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CompletionFields(provider, model)...)
}

// WithSource attaches the profile source name to the logger.
func WithSource(logger *zap.Logger, source string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldSource, Value: source})...)
}
