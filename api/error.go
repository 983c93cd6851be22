package api

import "fmt"

// RequestError reports a non-2xx response from the banking API.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api request %v %v failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// UnsupportedMethodError is returned for any HTTP method other than GET or POST.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported method: %v", e.Method)
}
