// Package errors provides the classified error primitives used across docsite.
//
// Every failure the resolver, loader or CLI reports is a ClassifiedError carrying
// a category (config, validation, dependency, ...), a severity, a retry hint and a
// small structured context (for example the offending field path). The CLI adapter
// turns the category into a process exit code.
//
// Example usage:
//
//	err := errors.ValidationError("sidebar entry path must start with '/'").
//		WithContext("field", "theme.sidebar[1].path").
//		Build()
package errors
