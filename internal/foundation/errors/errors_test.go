package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("file", "docsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "docsite.yaml" {
			t.Errorf("expected context file=docsite.yaml, got %v", file)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		base := ValidationError("basePath is required").WithContext("field", "basePath").Build()
		wrapped := fmt.Errorf("resolve: %w", base)

		if c, ok := AsClassified(wrapped); !ok || !c.IsFatal() {
			t.Fatal("expected wrapped error to be a fatal classified error")
		}
		if !HasCategory(wrapped, CategoryValidation) {
			t.Error("expected validation category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to report internal category")
		}
		if base.CanRetry() {
			t.Error("validation errors must not be retryable")
		}
	})

	t.Run("WithContext returns a copy", func(t *testing.T) {
		orig := DependencyError("description not supplied").Build()
		derived := orig.WithContext("field", "locales./.description")

		if _, ok := orig.Context().GetString("field"); ok {
			t.Error("original error context must not change")
		}
		if field, _ := derived.Context().GetString("field"); field != "locales./.description" {
			t.Errorf("unexpected field %q", field)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "read failed").
			Retryable().
			WithContext("path", "/etc/docsite.yaml").
			Build()

		if err.Severity() != SeverityError || err.IsFatal() {
			t.Errorf("expected severity %s, got %s", SeverityError, err.Severity())
		}
		if !err.CanRetry() {
			t.Error("expected I/O failure to be retryable")
		}
		if err.RetryStrategy() != RetryBackoff {
			t.Errorf("expected retry strategy %s, got %s", RetryBackoff, err.RetryStrategy())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryNever},
			{"DependencyError", DependencyError("test"), CategoryDependency, SeverityFatal, RetryUserAction},
			{"WrapError", WrapError(errors.New("eio"), CategoryFileSystem, "test").Retryable(), CategoryFileSystem, SeverityError, RetryBackoff},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.RetryStrategy() != tt.retry {
					t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", 42).Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	if v, _ := merged.GetString("key1"); v != "value1" {
		t.Errorf("expected key1=value1, got %s", v)
	}
	if v, _ := merged.Get("key2"); v != 42 {
		t.Errorf("expected key2=42, got %v", v)
	}
	if v, _ := merged.GetString("shared"); v != "overridden" {
		t.Errorf("expected shared=overridden, got %s", v)
	}
	if _, ok := merged.GetString("key2"); ok {
		t.Error("GetString must not coerce non-string values")
	}
}
