// Package auth owns the OAuth2 client-credentials access token used for every
// call to the Investec API.
//
// A Manager lazily fetches the token on first use, serves it from memory while it
// is valid and refreshes it synchronously once it expires. The reported lifetime
// is shortened by a safety margin (60 seconds by default) so a token is never sent
// close to its real expiry. Concurrent callers that observe a missing or expired
// token share a single in-flight refresh:
//
//	manager := auth.New(auth.Config{ClientID: id, ClientSecret: secret, APIKey: key, BaseURL: baseURL})
//	token, err := manager.Token(ctx)
//
// Failures are reported as *AuthenticationError and never replace the cached credential.
package auth
