package auth

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type Option func(*Manager)

// WithHTTPClient sets the http client used for token requests
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithClock sets the time source used for expiry decisions
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithExpiryMargin sets how long before the reported expiry a token stops being reused
func WithExpiryMargin(margin time.Duration) Option {
	return func(m *Manager) {
		m.margin = margin
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTracerProvider sets the tracer provider of token requests; the global provider is used otherwise
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(m *Manager) {
		m.tracerProvider = provider
	}
}
