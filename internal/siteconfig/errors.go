package siteconfig

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ContextField is the error context key holding the offending field path.
const ContextField = "field"

// IsValidationError reports whether err rejects malformed or missing configuration.
func IsValidationError(err error) bool {
	return errors.HasCategory(err, errors.CategoryValidation)
}

// IsMissingDependency reports whether err was caused by an external value not being supplied.
func IsMissingDependency(err error) bool {
	return errors.HasCategory(err, errors.CategoryDependency)
}

// FieldOf returns the field path recorded on a resolver error.
func FieldOf(err error) string {
	if c, ok := errors.AsClassified(err); ok {
		field, _ := c.Context().GetString(ContextField)
		return field
	}
	return ""
}

func invalid(field, format string, args ...any) error {
	label := field
	if label == "" {
		label = "config"
	}
	return errors.ValidationError(label + ": " + fmt.Sprintf(format, args...)).
		WithContext(ContextField, field).
		Build()
}

func missingDependency(field string, cause error) error {
	return errors.DependencyError(field + ": omitted and no external description was supplied").
		WithContext(ContextField, field).
		WithCause(cause).
		Build()
}
