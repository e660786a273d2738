package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	// Verify all expected error codes exist
	codes := []string{
		ErrConfig,
		ErrMSA,
		ErrFifo,
		ErrPerm,
		ErrSpawn,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .monctrl.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "msa error",
			code:       ErrMSA,
			message:    "Monitor status area version mismatch",
			suggestion: "Upgrade the collector or the console so versions match",
		},
		{
			name:       "fifo error",
			code:       ErrFifo,
			message:    "Cannot write to MON_CMD_FIFO",
			suggestion: "Check that the collector is running",
		},
		{
			name:       "permission error",
			code:       ErrPerm,
			message:    "Action not permitted for this operator",
			suggestion: "Ask the administrator to extend your permission profile",
		},
		{
			name:       "spawn error",
			code:       ErrSpawn,
			message:    "Viewer program failed to start",
			suggestion: "Check the program is installed and on PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorInterface(t *testing.T) {
	err := New(ErrConfig, "test message", "test suggestion")

	// Should implement error interface
	var _ error = err

	// Error() should return formatted message
	errStr := err.Error()
	assert.NotEmpty(t, errStr)
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name: "basic error formatting",
			err:  New(ErrConfig, "Invalid configuration", "Check .monctrl.yaml syntax"),
			expectedParts: []string{
				"Invalid configuration",
				"Check .monctrl.yaml syntax",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrMSA, "Attach failed", "Start the collector"),
			expectedParts: []string{
				"✗",
				"Attach failed",
			},
		},
		{
			name: "error without suggestion",
			err:  New(ErrSpawn, "Spawn failed", ""),
			expectedParts: []string{
				"Spawn failed",
			},
			notExpected: []string{
				"suggestion", // Should not include suggestion header if empty
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()

			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part, "output should contain %q", part)
			}

			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part, "output should not contain %q", part)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying mmap error")
	wrapped := Wrap(cause, "MSA attach failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrMSA, wrapped.Code, "Wrap should default to ErrMSA code")
	assert.Equal(t, "MSA attach failed", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("file not found")
	wrapped := WrapWithCode(cause, ErrConfig, "Failed to load config", "Create .monctrl.yaml file")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrConfig, wrapped.Code)
	assert.Equal(t, "Failed to load config", wrapped.Message)
	assert.Equal(t, "Create .monctrl.yaml file", wrapped.Suggestion)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestErrorWrappingPreservesCause(t *testing.T) {
	original := errors.New("original error")
	wrapped := WrapWithCode(original, ErrFifo, "Fifo write failed", "")

	// Should preserve the original cause
	assert.Equal(t, original, wrapped.Cause)

	// Error message should include cause information
	errStr := wrapped.Error()
	assert.Contains(t, errStr, "original error")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := WrapWithCode(cause, ErrSpawn, "Spawn failed", "")

	// Should implement Unwrap for errors.Is/errors.As
	unwrapped := wrapped.Unwrap()
	assert.Equal(t, cause, unwrapped)
}

func TestErrorsIs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrPerm, "Permission error", "")

	// errors.Is should work with wrapped errors
	assert.True(t, errors.Is(wrapped, cause))
}

func TestErrorsAs(t *testing.T) {
	wrapped := New(ErrConfig, "Config error", "Fix config")

	var monErr *Error
	ok := errors.As(wrapped, &monErr)

	assert.True(t, ok)
	assert.Equal(t, ErrConfig, monErr.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrMSA))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("open /afd/fifodir/MON_CMD_FIFO: no such file or directory"),
		ErrFifo,
		"Cannot reach the collector control pipe",
		"Run: monctrl version",
	)

	output := err.Error()
	lines := strings.Split(output, "\n")

	// First line should have failure symbol and main message
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "✗"), "First line should start with failure symbol")
	assert.Contains(t, lines[0], "Cannot reach the collector control pipe")
}

func TestExitError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantMsg string
	}{
		{
			name:    "zero exit code",
			code:    0,
			wantMsg: "exit code 0",
		},
		{
			name:    "non-zero exit code",
			code:    1,
			wantMsg: "exit code 1",
		},
		{
			name:    "signal exit code",
			code:    137,
			wantMsg: "exit code 137",
		},
		{
			name:    "negative exit code",
			code:    -1,
			wantMsg: "exit code -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExitError(tt.code)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestExitError_ImplementsError(t *testing.T) {
	var err error = NewExitError(42)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "42")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{
			name:     "ExitError returns code",
			err:      NewExitError(42),
			wantCode: 42,
			wantOk:   true,
		},
		{
			name:     "ExitError with zero",
			err:      NewExitError(0),
			wantCode: 0,
			wantOk:   true,
		},
		{
			name:     "standard error returns false",
			err:      errors.New("standard error"),
			wantCode: 0,
			wantOk:   false,
		},
		{
			name:     "nil error returns false",
			err:      nil,
			wantCode: 0,
			wantOk:   false,
		},
		{
			name:     "structured Error returns false",
			err:      New(ErrSpawn, "test", ""),
			wantCode: 0,
			wantOk:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
