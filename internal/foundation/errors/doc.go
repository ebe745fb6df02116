// Package errors provides the classified error primitives used across docplugins.
//
// Errors carry a category (config, filesystem, markup, ...), a severity and a
// retry strategy. The site build treats every fatal error as terminal; markup
// errors are logged by the tag rewriters and the offending tag is skipped.
//
// Example usage:
//
//	err := errors.FileSystemError("cannot write card").
//		WithCause(writeErr).
//		WithContext("path", cardPath).
//		Build()
package errors
