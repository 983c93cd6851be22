package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type tokenServer struct {
	*httptest.Server
	requests atomic.Int32
	mux      sync.Mutex
	status   int
	body     string
	delay    time.Duration
	lastReq  *http.Request
	lastForm string
}

func newTokenServer(t *testing.T, status int, body string) *tokenServer {
	ret := &tokenServer{status: status, body: body}
	ret.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ret.requests.Add(1)
		_ = r.ParseForm()
		ret.mux.Lock()
		ret.lastReq = r
		ret.lastForm = r.PostForm.Encode()
		status, body, delay := ret.status, ret.body, ret.delay
		ret.mux.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ret.Close)
	return ret
}

func (s *tokenServer) respond(status int, body string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.status, s.body = status, body
}

func newTestManager(baseURL string, now time.Time) *Manager {
	return New(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		APIKey:       "api-key",
		BaseURL:      baseURL,
	}, WithClock(func() time.Time { return now }))
}

func TestManager_Token_ReusesValidToken(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":1799}`)
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	manager := newTestManager(server.URL, now)
	manager.credential = Credential{Token: "cached", ExpiresAt: now.Add(5 * time.Minute)}

	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", token)
	assert.EqualValues(t, 0, server.requests.Load())
}

func TestManager_Token_RefreshesExpiredToken(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","token_type":"Bearer","expires_in":1799}`)
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	manager := newTestManager(server.URL, now)
	manager.credential = Credential{Token: "stale", ExpiresAt: now.Add(-time.Second)}

	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.EqualValues(t, 1, server.requests.Load())

	token, err = manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.EqualValues(t, 1, server.requests.Load(), "refreshed token should be served from cache")
}

func TestManager_Token_NeverReusesAtExpiry(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":1799}`)
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	manager := newTestManager(server.URL, now)
	manager.credential = Credential{Token: "edge", ExpiresAt: now}

	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.EqualValues(t, 1, server.requests.Load())
}

func TestManager_Token_ExpiryMargin(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":300}`)
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	manager := newTestManager(server.URL, now)

	_, err := manager.Token(context.Background())
	require.NoError(t, err)
	cred := manager.Credential()
	assert.Equal(t, now.Add(240*time.Second), cred.ExpiresAt)
	assert.NotEqual(t, now.Add(300*time.Second), cred.ExpiresAt)
}

func TestManager_Token_RequestShape(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":1799}`)
	manager := newTestManager(server.URL+"/", time.Now())

	_, err := manager.Token(context.Background())
	require.NoError(t, err)

	server.mux.Lock()
	defer server.mux.Unlock()
	req := server.lastReq
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/identity/v2/oauth2/token", req.URL.Path)
	assert.Equal(t, "api-key", req.Header.Get("x-api-key"))
	user, password, ok := req.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "client-id", user)
	assert.Equal(t, "client-secret", password)
	assert.Equal(t, "grant_type=client_credentials", server.lastForm)
}

func TestManager_Token_ConcurrentRefreshCollapses(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"shared","expires_in":1799}`)
	server.delay = 100 * time.Millisecond
	manager := New(Config{ClientID: "id", ClientSecret: "secret", APIKey: "key", BaseURL: server.URL})

	const callers = 20
	var wg sync.WaitGroup
	start := make(chan struct{})
	tokens := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tokens[i], errs[i] = manager.Token(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, server.requests.Load())
	for i := 0; i < callers; i++ {
		assert.NoError(t, errs[i])
		assert.Equal(t, "shared", tokens[i])
	}
}

func TestManager_Token_FailureKeepsCachedCredential(t *testing.T) {
	server := newTokenServer(t, http.StatusUnauthorized, `{"error":"invalid_client"}`)
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	manager := newTestManager(server.URL, now)
	previous := Credential{Token: "previous", ExpiresAt: now.Add(-time.Minute)}
	manager.credential = previous

	token, err := manager.Token(context.Background())
	assert.Empty(t, token)
	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, `{"error":"invalid_client"}`, authErr.Body)
	assert.Equal(t, previous, manager.Credential())
	assert.EqualValues(t, 1, server.requests.Load())

	server.respond(http.StatusOK, `{"access_token":"recovered","expires_in":1799}`)
	token, err = manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", token)
}

func TestManager_Token_RejectsMalformedResponse(t *testing.T) {
	var testCases = []struct {
		description string
		body        string
	}{
		{description: "missing expires_in", body: `{"access_token":"abc"}`},
		{description: "zero expires_in", body: `{"access_token":"abc","expires_in":0}`},
		{description: "missing access_token", body: `{"expires_in":1799}`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			server := newTokenServer(t, http.StatusOK, testCase.body)
			manager := newTestManager(server.URL, time.Now())

			_, err := manager.Token(context.Background())
			var authErr *AuthenticationError
			assert.True(t, errors.As(err, &authErr), testCase.description)
			assert.True(t, manager.Credential().IsZero(), testCase.description)
		})
	}
}

func TestManager_Token_TransportFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	manager := newTestManager("http://"+addr, time.Now())
	_, err = manager.Token(context.Background())
	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Zero(t, authErr.StatusCode)
	assert.NotNil(t, authErr.Unwrap())
}

func TestManager_Token_CallerCancellation(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"slow","expires_in":1799}`)
	server.delay = 200 * time.Millisecond
	manager := New(Config{ClientID: "id", ClientSecret: "secret", APIKey: "key", BaseURL: server.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := manager.Token(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "slow", token)
	assert.EqualValues(t, 1, server.requests.Load(), "waiting caller should join the detached refresh")
}

func TestManager_Reset(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":1799}`)
	now := time.Now()
	manager := newTestManager(server.URL, now)
	manager.credential = Credential{Token: "cached", ExpiresAt: now.Add(time.Hour)}

	manager.Reset()
	assert.True(t, manager.Credential().IsZero())
	token, err := manager.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestManager_Token_RawBasicCredentials(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":1799}`)
	manager := New(Config{
		ClientID:     "id:1",
		ClientSecret: "s+e/c=r%t",
		APIKey:       "api-key",
		BaseURL:      server.URL,
	})

	_, err := manager.Token(context.Background())
	require.NoError(t, err)

	server.mux.Lock()
	defer server.mux.Unlock()
	expect := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:1:s+e/c=r%t"))
	assert.Equal(t, expect, server.lastReq.Header.Get("Authorization"))
	assert.Equal(t, "grant_type=client_credentials", server.lastForm)
}

func TestManager_Token_RejectsNon200Success(t *testing.T) {
	var testCases = []struct {
		description string
		status      int
	}{
		{description: "created", status: http.StatusCreated},
		{description: "accepted", status: http.StatusAccepted},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			server := newTokenServer(t, testCase.status, `{"access_token":"abc","expires_in":1799}`)
			manager := newTestManager(server.URL, time.Now())

			token, err := manager.Token(context.Background())
			assert.Empty(t, token)
			var authErr *AuthenticationError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, testCase.status, authErr.StatusCode)
			assert.Equal(t, `{"access_token":"abc","expires_in":1799}`, authErr.Body)
			assert.True(t, manager.Credential().IsZero())
		})
	}
}

func TestManager_ResetIf(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"new","expires_in":1799}`)
	now := time.Now()
	manager := newTestManager(server.URL, now)
	manager.credential = Credential{Token: "new", ExpiresAt: now.Add(time.Hour)}

	assert.False(t, manager.ResetIf("old"))
	assert.Equal(t, "new", manager.Credential().Token)
	assert.False(t, manager.ResetIf(""))

	assert.True(t, manager.ResetIf("new"))
	assert.True(t, manager.Credential().IsZero())
}

func TestManager_Token_Traced(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	server := newTokenServer(t, http.StatusOK, `{"access_token":"fresh","expires_in":1799}`)
	manager := New(Config{ClientID: "id", ClientSecret: "secret", APIKey: "key", BaseURL: server.URL},
		WithTracerProvider(provider))

	_, err := manager.Token(context.Background())
	require.NoError(t, err)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name, http.MethodPost)
}
