// Package errors provides the classified error primitives used across blockref.
//
// A ClassifiedError carries a category, a severity, a retry strategy and a
// context map. Errors are constructed with the fluent ErrorBuilder:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "failed to write document").
//		WithContext("path", path).
//		Build()
//
// The CLIErrorAdapter turns classified errors into exit codes and log records.
package errors
