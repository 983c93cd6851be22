package auth

import (
	"fmt"
	"io"
	"net/http"
)

const apiKeyHeader = "x-api-key"

// tokenTransport sends the client credentials as raw Basic auth together with the subscription key,
// and only lets a 200 token response through.
type tokenTransport struct {
	clientID     string
	clientSecret string
	apiKey       string
	base         http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.clientID, t.clientSecret)
	clone.Header.Set(apiKeyHeader, t.apiKey)
	resp, err := t.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
}

func withCredentials(client *http.Client, config Config, base http.RoundTripper) *http.Client {
	ret := *client
	ret.Transport = &tokenTransport{
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		apiKey:       config.APIKey,
		base:         base,
	}
	return &ret
}
