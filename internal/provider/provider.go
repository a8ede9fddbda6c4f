// Package provider talks to the upstream movie and book metadata APIs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/d60-Lab/shelf/internal/model"
)

// ErrUpstream wraps every failure coming from an upstream API.
var ErrUpstream = errors.New("upstream provider error")

// ErrNotFound is returned when the upstream has no record for the id.
var ErrNotFound = errors.New("upstream record not found")

// Metadata is the provider-neutral shape of one external record.
type Metadata struct {
	ID          string            `json:"id"`
	Type        model.ContentType `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Year        string            `json:"year,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Genre       string            `json:"genre,omitempty"`
	Authors     string            `json:"authors,omitempty"`
	Director    string            `json:"director,omitempty"`
	Rating      float64           `json:"rating,omitempty"`
}

type Provider interface {
	Search(ctx context.Context, query string) ([]Metadata, error)
	Lookup(ctx context.Context, id string) (Metadata, error)
}

// Registry routes a content type to its provider.
type Registry map[model.ContentType]Provider

func (r Registry) For(t model.ContentType) (Provider, bool) {
	p, ok := r[t]
	return p, ok
}

// NewHTTPClient returns a traced client with a hard timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
}

// yearOf keeps the leading year of "1997" or "1997-06-26".
func yearOf(date string) string {
	if date == "" {
		return ""
	}
	return strings.SplitN(date, "-", 2)[0]
}
