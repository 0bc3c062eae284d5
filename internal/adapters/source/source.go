// Package source fetches the survey response feed from its HTTP endpoint.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/feedback/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// ErrFetch marks every ingestion failure.
var ErrFetch = errors.New("fetch responses failed")

// Kind classifies an ingestion failure.
type Kind string

// Failure kinds.
const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

// FetchError describes why a load failed.
type FetchError struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: %s returned status %d", ErrFetch, e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s %s: %v", ErrFetch, e.Kind, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %s %s", ErrFetch, e.Kind, e.URL)
	}
}

// Unwrap exposes the cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Is matches ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Source loads the complete response set.
type Source interface {
	Load(ctx context.Context) ([]model.Response, error)
}

// HTTPSource loads responses with a single GET of a JSON array.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// Option applies a configuration option to the HTTPSource.
type Option func(*HTTPSource)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// NewHTTPSource creates a source reading from url.
func NewHTTPSource(url string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the endpoint the source reads from.
func (s *HTTPSource) URL() string { return s.url }

// Load performs one retrieval. Any failure is returned as a *FetchError and
// no partial result is returned.
func (s *HTTPSource) Load(ctx context.Context) ([]model.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: s.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: s.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var cause error
		if len(snippet) > 0 {
			cause = errors.New(string(snippet))
		}
		return nil, &FetchError{Kind: KindStatus, URL: s.url, Status: resp.StatusCode, Err: cause}
	}

	var out []model.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &FetchError{Kind: KindDecode, URL: s.url, Status: resp.StatusCode, Err: err}
	}
	if out == nil {
		// A literal null body is not an array.
		return nil, &FetchError{Kind: KindDecode, URL: s.url, Status: resp.StatusCode, Err: errors.New("body is not a JSON array")}
	}
	return out, nil
}
