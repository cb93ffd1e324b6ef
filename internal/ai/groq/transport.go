package groq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 << 10

// unexpectedStatusError carries a response the OpenAI client would otherwise
// decode as a success: go-openai only fails on statuses below 200 or from 400.
type unexpectedStatusError struct {
	status int
	body   []byte
}

func (e *unexpectedStatusError) Error() string {
	return fmt.Sprintf("groq: unexpected status %d", e.status)
}

// transport sits under the OpenAI client. It restores an explicit zero
// temperature, which the client drops through omitempty, and rejects 3xx
// responses before the client decodes them.
type transport struct {
	next http.RoundTripper
}

func newTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &transport{next: next}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req, err := withTemperature(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusMultipleChoices || resp.StatusCode >= http.StatusBadRequest {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	return nil, &unexpectedStatusError{status: resp.StatusCode, body: body}
}

// withTemperature returns a copy of a chat completion request whose JSON body
// has "temperature": 0 when the field was omitted. Generate always sets a
// temperature, so an omitted field can only mean zero.
func withTemperature(req *http.Request) (*http.Request, error) {
	if req.Method != http.MethodPost || req.Body == nil || !strings.HasSuffix(req.URL.Path, "/chat/completions") {
		return req, nil
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if _, ok := fields["temperature"]; !ok {
			fields["temperature"] = json.RawMessage("0")
			if patched, err := json.Marshal(fields); err == nil {
				raw = patched
			}
		}
	}

	out := req.Clone(req.Context())
	out.Body = io.NopCloser(bytes.NewReader(raw))
	out.ContentLength = int64(len(raw))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(raw)), nil
	}
	return out, nil
}
