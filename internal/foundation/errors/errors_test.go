package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "page title must be a string").
			WithSeverity(SeverityFatal).
			WithContext("page", "guide/intro.md").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "page title must be a string", err.Message())

		page, ok := err.Context().GetString("page")
		require.True(t, ok)
		assert.Equal(t, "guide/intro.md", page)
		assert.Equal(t, "[config:fatal] page title must be a string", err.Error())
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		base := FileSystemError("cannot create cache dir").Build()
		wrapped := fmt.Errorf("social plugin: %w", base)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryFileSystem))
		assert.Equal(t, CategoryFileSystem, GetCategory(wrapped))
		assert.Equal(t, SeverityFatal, GetSeverity(wrapped))
		assert.Equal(t, RetryNever, base.RetryStrategy())
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "write card").
			Fatal().
			WithContext("path", "target/cards/abc.png").
			WithContext("bytes", 1024).
			Build()

		assert.Equal(t, CategoryFileSystem, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, RetryNever, err.RetryStrategy())
		assert.ErrorIs(t, err, originalErr)
		assert.Contains(t, err.Error(), "permission denied")

		path, _ := err.Context().GetString("path")
		assert.Equal(t, "target/cards/abc.png", path)
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
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"MarkupError", MarkupError("test"), CategoryMarkup, SeverityWarning, RetryNever},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityFatal, RetryNever},
			{"RenderError", RenderError("test"), CategoryRender, SeverityFatal, RetryNever},
			{"BuildError", BuildError("test"), CategoryBuild, SeverityFatal, RetryNever},
			{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	t.Run("Context operations", func(t *testing.T) {
		var ctx ErrorContext
		ctx = ctx.Set("key1", "value1")
		ctx = ctx.Set("key2", 42)

		value1, ok := ctx.GetString("key1")
		assert.True(t, ok)
		assert.Equal(t, "value1", value1)

		_, ok = ctx.GetString("key2")
		assert.False(t, ok, "non-string values are not returned by GetString")

		_, ok = ctx.Get("nonexistent")
		assert.False(t, ok)
	})
}
