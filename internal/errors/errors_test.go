package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("connection reset")
	appErr := ErrTransientServer.WithError(baseErr)

	assert.Equal(t, baseErr, appErr.Err)
	assert.Equal(t, TypeTransientServer, appErr.Type)
	assert.Nil(t, ErrTransientServer.Err, "sentinel must not be mutated")
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrRateLimit.WithContext("provider", "groq").WithContext("status", 429)

	assert.Equal(t, "groq", appErr.Context["provider"])
	assert.Equal(t, 429, appErr.Context["status"])
	assert.Nil(t, ErrRateLimit.Context)
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "simple error",
			err:      ErrUnknownModel,
			contains: []string{"UNKNOWN_MODEL", "unknown model"},
		},
		{
			name:     "error with underlying error",
			err:      ErrTransientServer.WithError(errors.New("i/o timeout")),
			contains: []string{"TRANSIENT_SERVER", "i/o timeout"},
		},
		{
			name: "error with status and body",
			err: ErrAuthentication.
				WithContext("status", 401).
				WithContext("body", `{"error":"invalid key"}`),
			contains: []string{"AUTHENTICATION", "[status 401]", "invalid key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, c := range tt.contains {
				assert.Contains(t, msg, c)
			}
		})
	}
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("gemini: %w", ErrMalformedResponse.WithContext("status", 200))

	assert.True(t, errors.Is(wrapped, ErrMalformedResponse))
	assert.False(t, errors.Is(wrapped, ErrRateLimit))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TypeRateLimit, TypeOf(fmt.Errorf("x: %w", ErrRateLimit)))
	assert.Equal(t, TypeInternal, TypeOf(errors.New("plain")))
	assert.Equal(t, TypeInternal, TypeOf(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(ErrTransientServer.WithError(errors.New("503"))))
	assert.False(t, IsRetryable(ErrMalformedResponse))
	assert.False(t, IsRetryable(ErrAuthentication))
	assert.False(t, IsRetryable(ErrUnknownProvider))
	assert.False(t, IsRetryable(errors.New("plain")))
}
