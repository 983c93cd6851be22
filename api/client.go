package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-Id"
)

type (
	// TokenSource returns a bearer token that is valid at the time of the call.
	TokenSource interface {
		Token(ctx context.Context) (string, error)
	}

	// Resetter is implemented by token sources that can drop a token rejected upstream.
	Resetter interface {
		ResetIf(token string) bool
	}

	// Query holds URL query parameters; values must be string or bool.
	Query map[string]interface{}

	// Client issues requests against BaseURL.
	Client struct {
		baseURL    string
		tokens     TokenSource
		httpClient *http.Client
		timeout    time.Duration
		logger     *logrus.Entry
		tracer     trace.TracerProvider
	}
)

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, query Query) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body)
}

// Request sends method to BaseURL+path and returns the JSON response body.
func (c *Client) Request(ctx context.Context, method, path string, query Query, body interface{}) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return nil, &UnsupportedMethodError{Method: method}
	}
	URL, err := c.url(path, query)
	if err != nil {
		return nil, err
	}
	var payload io.Reader
	if method == http.MethodPost && body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v %v body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create %v %v request: %w", method, path, err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID})
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Error("api request failed")
		return nil, fmt.Errorf("api request %v %v failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v %v response: %w", method, path, err)
	}
	logger = logger.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(started).String()})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("api request rejected")
		if resp.StatusCode == http.StatusUnauthorized {
			if resetter, ok := c.tokens.(Resetter); ok {
				resetter.ResetIf(token)
			}
		}
		return nil, &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}
	logger.Debug("api request completed")
	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON response from %v %v: %s", method, path, truncate(data, 256))
	}
	return json.RawMessage(data), nil
}

func (c *Client) url(path string, query Query) (string, error) {
	URL := c.baseURL + path
	if len(query) == 0 {
		return URL, nil
	}
	values := url.Values{}
	for key, value := range query {
		switch actual := value.(type) {
		case string:
			if actual == "" {
				continue
			}
			values.Set(key, actual)
		case bool:
			values.Set(key, strconv.FormatBool(actual))
		default:
			return "", fmt.Errorf("unsupported query parameter %v type: %T", key, value)
		}
	}
	if encoded := values.Encode(); encoded != "" {
		URL += "?" + encoded
	}
	return URL, nil
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}

// New creates a client for baseURL authenticating with tokens.
func New(baseURL string, tokens TokenSource, options ...Option) *Client {
	ret := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.httpClient == nil {
		var traceOptions []otelhttp.Option
		if ret.tracer != nil {
			traceOptions = append(traceOptions, otelhttp.WithTracerProvider(ret.tracer))
		}
		ret.httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport, traceOptions...)}
	}
	if ret.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		ret.logger = logrus.NewEntry(logger)
	}
	return ret
}
