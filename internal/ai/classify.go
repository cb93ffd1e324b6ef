package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
)

// RequestTimeout bounds every provider call.
const RequestTimeout = 30 * time.Second

const maxBodyExcerpt = 512

// ValidateOptions checks the adapter input contract before any network call.
func ValidateOptions(provider, prompt string, opts models.GenerationOptions, ceiling int) error {
	switch {
	case strings.TrimSpace(prompt) == "":
		return errors.ErrInvalidInput.WithMessage("prompt cannot be empty").WithContext("provider", provider)
	case opts.Temperature < 0 || opts.Temperature > 1:
		return errors.ErrInvalidInput.
			WithMessage(fmt.Sprintf("temperature must be between 0 and 1, got %v", opts.Temperature)).
			WithContext("provider", provider)
	case opts.MaxOutputTokens <= 0 || opts.MaxOutputTokens > ceiling:
		return errors.ErrInvalidInput.
			WithMessage(fmt.Sprintf("max output tokens must be between 1 and %d, got %d", ceiling, opts.MaxOutputTokens)).
			WithContext("provider", provider)
	}
	return nil
}

// ClassifyStatus maps a non-success HTTP status to the provider error taxonomy.
func ClassifyStatus(provider string, status int, body []byte) *errors.AppError {
	var base *errors.AppError
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		base = errors.ErrAuthentication
	case status == http.StatusTooManyRequests:
		base = errors.ErrRateLimit
	case status >= 500 && status <= 599:
		base = errors.ErrTransientServer
	default:
		base = errors.ErrUnknownProvider
	}
	return base.
		WithContext("provider", provider).
		WithContext("status", status).
		WithContext("body", Excerpt(body))
}

// ClassifyTransport maps a failure that produced no HTTP response. Timeouts,
// dropped connections and failed dials are transient. Any other refusal by the
// HTTP client, such as a bad URL scheme or a TLS verification failure, is not.
// Errors from outside the HTTP client mean the body could not be read or decoded.
func ClassifyTransport(provider string, err error) *errors.AppError {
	if isTimeout(err) || isConnectionFailure(err) {
		return errors.ErrTransientServer.WithError(err).WithContext("provider", provider)
	}
	var urlErr *url.Error
	if !stderrors.As(err, &urlErr) {
		return Malformed(provider, http.StatusOK, nil, err)
	}
	// An EOF is only a dropped connection when the HTTP client reports it. From
	// a decoder it means an empty or truncated body.
	if stderrors.Is(urlErr.Err, io.EOF) || stderrors.Is(urlErr.Err, io.ErrUnexpectedEOF) {
		return errors.ErrTransientServer.WithError(err).WithContext("provider", provider)
	}
	return errors.ErrUnknownProvider.WithError(err).WithContext("provider", provider)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// *url.Error satisfies net.Error itself, so only its Timeout answer counts.
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionFailure(err error) bool {
	if stderrors.Is(err, syscall.ECONNREFUSED) || stderrors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return stderrors.As(err, &opErr) || stderrors.As(err, &dnsErr)
}

// Malformed reports a 200 response whose success field is missing or empty.
func Malformed(provider string, status int, body []byte, cause error) *errors.AppError {
	appErr := errors.ErrMalformedResponse.
		WithContext("provider", provider).
		WithContext("status", status)
	if len(body) > 0 {
		appErr = appErr.WithContext("body", Excerpt(body))
	}
	if cause != nil {
		appErr = appErr.WithError(cause)
	}
	return appErr
}

// Excerpt trims a response body for diagnostics.
func Excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxBodyExcerpt {
		return s
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
