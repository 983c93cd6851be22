package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultExpiryMargin is subtracted from the provider reported token lifetime.
	DefaultExpiryMargin = 60 * time.Second
	defaultTimeout      = 30 * time.Second
	refreshKey          = "token"
)

// Manager caches the process-wide access token and refreshes it when it expires.
type Manager struct {
	config         Config
	httpClient     *http.Client
	now            func() time.Time
	margin         time.Duration
	logger         *logrus.Entry
	tracerProvider trace.TracerProvider

	mux        sync.RWMutex
	credential Credential
	flight     singleflight.Group
}

// Token returns a valid access token, fetching a new one when the cached token is absent or expired.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if cred := m.Credential(); cred.Valid(m.now()) {
		return cred.Token, nil
	}
	// one refresh in flight; it is detached from caller cancellation, each caller stops waiting on its own ctx
	ch := m.flight.DoChan(refreshKey, func() (interface{}, error) {
		if cred := m.Credential(); cred.Valid(m.now()) {
			return cred, nil
		}
		return m.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(Credential).Token, nil
	}
}

// Credential returns a copy of the cached credential
func (m *Manager) Credential() Credential {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return m.credential
}

// Reset drops the cached credential so the next Token call fetches a new one
func (m *Manager) Reset() {
	m.mux.Lock()
	m.credential = Credential{}
	m.mux.Unlock()
	m.logger.Debug("cached token discarded")
}

// ResetIf drops the cached credential only while it still holds token; a newer token is kept
func (m *Manager) ResetIf(token string) bool {
	m.mux.Lock()
	if token == "" || m.credential.Token != token {
		m.mux.Unlock()
		return false
	}
	m.credential = Credential{}
	m.mux.Unlock()
	m.logger.Debug("rejected token discarded")
	return true
}

func (m *Manager) refresh(ctx context.Context) (Credential, error) {
	cfg := &clientcredentials.Config{
		ClientID:     m.config.ClientID,
		ClientSecret: m.config.ClientSecret,
		TokenURL:     m.config.TokenURL(),
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	m.logger.WithField("url", cfg.TokenURL).Debug("requesting new token")
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	token, err := cfg.Token(ctx)
	if err != nil {
		authErr := newAuthenticationError(err)
		m.logger.WithError(authErr).Error("token request failed")
		return Credential{}, authErr
	}
	lifetime, err := expiresIn(token)
	if err != nil {
		m.logger.WithError(err).Error("token response rejected")
		return Credential{}, &AuthenticationError{Err: err}
	}
	cred := Credential{
		Token:     token.AccessToken,
		ExpiresAt: m.now().Add(lifetime - m.margin),
	}
	if lifetime <= m.margin {
		m.logger.WithField("expires_in", lifetime.String()).Warn("token lifetime does not exceed expiry margin, it will not be reused")
	}

	m.mux.Lock()
	m.credential = cred
	m.mux.Unlock()
	m.logger.WithField("expires", humanize.Time(cred.ExpiresAt)).Info("token refreshed")
	return cred, nil
}

// expiresIn reads the provider reported lifetime from the raw token response.
// A missing or non positive value would cache the token forever, so it is rejected.
func expiresIn(token *oauth2.Token) (time.Duration, error) {
	var seconds int64
	switch actual := token.Extra("expires_in").(type) {
	case float64:
		seconds = int64(actual)
	case int64:
		seconds = actual
	case json.Number:
		v, err := actual.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid expires_in %q: %w", actual, err)
		}
		seconds = v
	case string:
		v, err := strconv.ParseInt(actual, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid expires_in %q: %w", actual, err)
		}
		seconds = v
	case nil:
		return 0, errors.New("token response missing expires_in")
	default:
		return 0, fmt.Errorf("unsupported expires_in type %T", actual)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("invalid expires_in %d", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

// New creates a token manager for the supplied client credentials.
func New(config Config, options ...Option) *Manager {
	ret := &Manager{
		config:     config,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
		margin:     DefaultExpiryMargin,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		ret.logger = logrus.NewEntry(logger)
	}
	base := ret.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	var traceOptions []otelhttp.Option
	if ret.tracerProvider != nil {
		traceOptions = append(traceOptions, otelhttp.WithTracerProvider(ret.tracerProvider))
	}
	ret.httpClient = withCredentials(ret.httpClient, config, otelhttp.NewTransport(base, traceOptions...))
	return ret
}
