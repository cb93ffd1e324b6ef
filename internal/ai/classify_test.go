package ai

import (
	"context"
	"crypto/x509"
	stderrors "errors"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
)

func TestValidateOptions(t *testing.T) {
	valid := models.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 4096}

	tests := []struct {
		name    string
		prompt  string
		opts    models.GenerationOptions
		wantErr bool
	}{
		{name: "valid", prompt: "hi", opts: valid},
		{name: "bounds are inclusive", prompt: "hi", opts: models.GenerationOptions{Temperature: 1, MaxOutputTokens: 8192}},
		{name: "empty prompt", prompt: "  \n", opts: valid, wantErr: true},
		{name: "negative temperature", prompt: "hi", opts: models.GenerationOptions{Temperature: -0.1, MaxOutputTokens: 10}, wantErr: true},
		{name: "temperature above one", prompt: "hi", opts: models.GenerationOptions{Temperature: 1.1, MaxOutputTokens: 10}, wantErr: true},
		{name: "zero tokens", prompt: "hi", opts: models.GenerationOptions{Temperature: 0.5}, wantErr: true},
		{name: "tokens above ceiling", prompt: "hi", opts: models.GenerationOptions{Temperature: 0.5, MaxOutputTokens: 8193}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptions("gemini", tt.prompt, tt.opts, 8192)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errors.ErrorType
	}{
		{401, errors.TypeAuthentication},
		{403, errors.TypeAuthentication},
		{429, errors.TypeRateLimit},
		{500, errors.TypeTransientServer},
		{503, errors.TypeTransientServer},
		{400, errors.TypeUnknownProvider},
		{404, errors.TypeUnknownProvider},
		{302, errors.TypeUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			err := ClassifyStatus("groq", tt.status, []byte(`{"error":"x"}`))

			assert.Equal(t, tt.want, err.Type)
			assert.Equal(t, tt.status, err.Context["status"])
			assert.Equal(t, "groq", err.Context["provider"])
			assert.Equal(t, `{"error":"x"}`, err.Context["body"])
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyTransport(t *testing.T) {
	post := func(err error) error {
		return &url.Error{Op: "Post", URL: "https://api.example.com/v1", Err: err}
	}

	tests := []struct {
		name string
		err  error
		want *errors.AppError
	}{
		{"deadline exceeded", post(context.DeadlineExceeded), errors.ErrTransientServer},
		{"client timeout", post(timeoutError{}), errors.ErrTransientServer},
		{"refused dial", post(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}), errors.ErrTransientServer},
		{"connection reset", post(syscall.ECONNRESET), errors.ErrTransientServer},
		{"server hung up", post(io.EOF), errors.ErrTransientServer},
		{"unknown host", post(&net.DNSError{Err: "no such host", Name: "api.example.com"}), errors.ErrTransientServer},
		{"unsupported scheme", post(stderrors.New(`unsupported protocol scheme "ftp"`)), errors.ErrUnknownProvider},
		{"certificate rejected", post(x509.UnknownAuthorityError{}), errors.ErrUnknownProvider},
		{"decode failure", stderrors.New("invalid character '<' looking for beginning of value"), errors.ErrMalformedResponse},
		{"empty body", io.EOF, errors.ErrMalformedResponse},
		{"truncated body", io.ErrUnexpectedEOF, errors.ErrMalformedResponse},
		{"reset while reading the body", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, errors.ErrTransientServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyTransport("gemini", tt.err)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, "gemini", err.Context["provider"])
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt([]byte("  short \n")))

	long := strings.Repeat("é", 400)
	got := Excerpt([]byte(long))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), maxBodyExcerpt+3)
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(got, "...")))
}
