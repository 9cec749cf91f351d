// Package client talks to the third-party services behind the meal planner:
// a Nominatim geocoder, SerpAPI's google_maps engine, and OpenRouter chat completions.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Upstream names, used in errors and metrics.
const (
	UpstreamGeocoder = "geocoder"
	UpstreamPlaces   = "places"
	UpstreamChat     = "chat"
)

const maxResponseBytes = 4 << 20

// ErrNotFound is returned when an upstream answers successfully with no usable result.
var ErrNotFound = errors.New("not found")

// Observer records the outcome of upstream calls.
type Observer interface {
	ObserveUpstream(upstream string, elapsed time.Duration, err error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Upstream   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Upstream, e.StatusCode, e.Message)
}

// Option configures a client.
type Option func(*base)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *base) {
		if client != nil {
			b.client = client
		}
	}
}

// WithBaseURL overrides the upstream base URL.
func WithBaseURL(baseURL string) Option {
	return func(b *base) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			b.baseURL = baseURL
		}
	}
}

// WithObserver reports every call to o.
func WithObserver(o Observer) Option {
	return func(b *base) {
		b.observer = o
	}
}

type base struct {
	name     string
	client   *http.Client
	baseURL  string
	observer Observer
}

func newBase(name, defaultURL string, timeout time.Duration, opts []Option) base {
	b := base{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultURL,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// do sends req and decodes a JSON body into out. The raw body is returned so
// callers can surface unexpected payloads.
func (b *base) do(req *http.Request, out any) (raw []byte, err error) {
	started := time.Now()
	defer func() {
		if b.observer != nil {
			b.observer.ObserveUpstream(b.name, time.Since(started), err)
		}
	}()

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", b.name, redactQuery(err))
	}
	defer resp.Body.Close()

	raw, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", b.name, err)
	}

	if resp.StatusCode >= 400 {
		return raw, &StatusError{Upstream: b.name, StatusCode: resp.StatusCode, Message: extractError(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, fmt.Errorf("could not decode %s response: %w", b.name, err)
		}
	}
	return raw, nil
}

// extractError pulls a human readable message out of an error body.
// Both {"error":"..."} and {"error":{"message":"..."}} shapes are understood.
func extractError(body []byte) string {
	if len(body) == 0 {
		return "upstream returned an error"
	}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		if msg, ok := errorMessage(payload.Error); ok {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}

// errorMessage reads an "error" value that is either a string or an object with "message".
func errorMessage(raw json.RawMessage) (string, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, text != ""
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message, obj.Message != ""
	}
	return "", false
}

// redactQuery drops the query string from URLs embedded in transport errors;
// it may carry API keys.
func redactQuery(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	if u, perr := url.Parse(uerr.URL); perr == nil {
		u.RawQuery = ""
		u.User = nil
		uerr.URL = u.String()
	}
	return err
}
