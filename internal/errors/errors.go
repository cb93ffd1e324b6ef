package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeInvalidInput      ErrorType = "INVALID_INPUT"
	TypeUnknownModel      ErrorType = "UNKNOWN_MODEL"
	TypeMissingCredential ErrorType = "MISSING_CREDENTIAL"
	TypeAuthentication    ErrorType = "AUTHENTICATION"
	TypeRateLimit         ErrorType = "RATE_LIMIT"
	TypeTransientServer   ErrorType = "TRANSIENT_SERVER"
	TypeMalformedResponse ErrorType = "MALFORMED_RESPONSE"
	TypeUnknownProvider   ErrorType = "UNKNOWN_PROVIDER"
	TypeConfiguration     ErrorType = "CONFIGURATION"
	TypeInternal          ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if status, ok := e.Context["status"].(int); ok && status != 0 {
			msg += fmt.Sprintf(" [status %d]", status)
		}
		if body, ok := e.Context["body"].(string); ok && body != "" {
			msg += fmt.Sprintf(" - %s", body)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same type, so sentinels work with errors.Is
// after WithError/WithContext have produced copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// WithMessage replaces the message while keeping type, context and suggestion
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    msg,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// TypeOf returns the ErrorType of the first AppError in the chain, or
// TypeInternal when err carries none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// IsRetryable reports whether a failed provider call may succeed on a new attempt.
func IsRetryable(err error) bool {
	switch TypeOf(err) {
	case TypeRateLimit, TypeTransientServer:
		return true
	default:
		return false
	}
}

// Input and configuration errors
var (
	ErrInvalidInput = NewAppError(TypeInvalidInput, "invalid generation input", nil).
			WithSuggestion("Check the analysis file: the repository name is required and percentages must be non-negative")

	ErrUnknownModel = NewAppError(TypeUnknownModel, "unknown model", nil).
			WithSuggestion("List the supported models with: readmegen models")

	ErrMissingCredential = NewAppError(TypeMissingCredential, "no API key configured for the selected provider", nil).
				WithSuggestion("Set GEMINI_API_KEY or GROQ_API_KEY in your environment or .env file")

	ErrConfigInvalid = NewAppError(TypeConfiguration, "configuration is invalid", nil).
				WithSuggestion("Review ~/.readmegen/config.toml or recreate it with: readmegen config init")
)

// Provider errors
var (
	ErrAuthentication = NewAppError(TypeAuthentication, "provider rejected the API key", nil).
				WithSuggestion("Verify the API key is valid and has access to the model")

	ErrRateLimit = NewAppError(TypeRateLimit, "provider rate limit or quota exceeded", nil).
			WithSuggestion("Wait a few minutes and try again, or check your API quota")

	ErrTransientServer = NewAppError(TypeTransientServer, "provider temporarily unavailable", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrMalformedResponse = NewAppError(TypeMalformedResponse, "provider returned a malformed response", nil).
				WithSuggestion("Try again or switch to another model")

	ErrUnknownProvider = NewAppError(TypeUnknownProvider, "provider returned an unexpected status", nil)
)

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
