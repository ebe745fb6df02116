package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation error", ValidationError("unknown flag").Build(), 2},
		{"config error", ConfigError("site.name is required").Build(), 7},
		{"wrapped config error", fmt.Errorf("load: %w", ConfigError("bad").Build()), 7},
		{"filesystem error", FileSystemError("mkdir failed").Build(), 11},
		{"render error", RenderError("decode header").Build(), 11},
		{"internal error", InternalError("boom").Build(), 10},
		{"unclassified error", errors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"config error shows message", ConfigError("site.name is required").Build(), "Configuration error: site.name is required"},
		{"filesystem error shows message", FileSystemError("cannot write card").Build(), "Filesystem error: cannot write card"},
		{"internal error is hidden", InternalError("nil pointer").Build(), "Internal error occurred (use -v for details)"},
		{"unclassified error", errors.New("unknown error"), "Error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, adapter.FormatError(tt.err), tt.contains)
		})
	}

	assert.Empty(t, adapter.FormatError(nil))
}

func TestCLIErrorAdapter_VerboseShowsFullError(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, slog.Default())
	err := WrapError(errors.New("disk full"), CategoryInternal, "write failed").Build()
	assert.Equal(t, err.Error(), adapter.FormatError(err))
}

func TestCLIErrorAdapter_LogErrorIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	adapter.logError(ConfigError("title must be a string").WithContext("page", "a.md").Build())

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "category=config")
	assert.Contains(t, out, "page=a.md")
}
