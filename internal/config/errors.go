package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ValidationError reports a missing, unknown or out of range configuration field.
type ValidationError struct {
	Document string
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Document != "" {
		b.WriteString(e.Document)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// RuleCompilationError reports a company pattern that is not a valid regular expression.
type RuleCompilationError struct {
	Rule    string
	Pattern string
	Err     error
}

func (e *RuleCompilationError) Error() string {
	return fmt.Sprintf("rules: %s: invalid pattern %q: %v", e.Rule, e.Pattern, e.Err)
}

func (e *RuleCompilationError) Unwrap() error { return e.Err }

// UnknownRuleTypeError reports a rule whose type is not allowed in its list.
type UnknownRuleTypeError struct {
	List  string
	Index int
	Type  string
}

func (e *UnknownRuleTypeError) Error() string {
	return fmt.Sprintf("rules: %s[%d]: unknown rule type %q", e.List, e.Index, e.Type)
}

func newValidationError(document, field, format string, args ...any) *ValidationError {
	return &ValidationError{Document: document, Field: field, Message: fmt.Sprintf(format, args...)}
}

// fromDecodeError converts strict decoding failures, such as unknown keys, into a ValidationError.
func fromDecodeError(document, field string, err error) error {
	var mErr *mapstructure.Error
	if errors.As(err, &mErr) && len(mErr.Errors) > 0 {
		return newValidationError(document, field, "%s", strings.Join(mErr.Errors, "; "))
	}
	return newValidationError(document, field, "%v", err)
}

// fromValidatorError converts the first validator failure into a ValidationError.
// Field names are reported with their document keys.
func fromValidatorError(document, prefix string, err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return newValidationError(document, prefix, "%v", err)
	}

	fe := vErrs[0]
	field := fe.Namespace()
	// Drop the struct type name.
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	if prefix != "" {
		field = prefix + "." + field
	}

	return newValidationError(document, field, "%s", describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be < %s", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "len":
		return fmt.Sprintf("must contain exactly %s item(s)", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
