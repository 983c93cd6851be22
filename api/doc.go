// Package api executes bearer-authenticated JSON requests against the Investec API.
//
// Client obtains a token from a TokenSource for every call, attaches it as a
// Bearer credential and returns the raw JSON response body. Non-2xx answers are
// reported as *RequestError carrying the upstream status code and body.
package api
