package auth

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// AuthenticationError reports a failed token exchange: a non-200 answer from the
// token endpoint, a malformed token response or a transport failure.
type AuthenticationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("authentication failed: token endpoint returned %d: %s", e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
	return "authentication failed"
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func newAuthenticationError(err error) *AuthenticationError {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return authErr
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		ret := &AuthenticationError{Body: string(retrieveErr.Body), Err: err}
		if retrieveErr.Response != nil {
			ret.StatusCode = retrieveErr.Response.StatusCode
		}
		return ret
	}
	return &AuthenticationError{Err: err}
}
