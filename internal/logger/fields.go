package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldMode is the structured log field key for the scoring mode.
	FieldMode = "mode"
	// FieldJobID is the structured log field key for the posting identifier.
	FieldJobID = "job_id"
	// FieldCompany is the structured log field key for the posting company.
	FieldCompany = "company"
	// FieldRule is the structured log field key for a rule identifier.
	FieldRule = "rule"
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

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// EngineFields describes one evaluation: the scoring mode and the posting being scored.
// Empty values are ignored to keep log entries compact.
func EngineFields(mode, jobID, company string) []zap.Field {
	return StringFields(
		StringField{Key: FieldMode, Value: mode},
		StringField{Key: FieldJobID, Value: jobID},
		StringField{Key: FieldCompany, Value: company},
	)
}

// WithEngineFields attaches the evaluation fields to the provided logger.
func WithEngineFields(logger *zap.Logger, mode, jobID, company string) *zap.Logger {
	return WithFields(logger, EngineFields(mode, jobID, company)...)
}
