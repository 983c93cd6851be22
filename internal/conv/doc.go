// Package conv collects tiny helper functions that are not part of the public API
// but aid internal conversions.
//
// At the moment it only exposes `AsInt` which coerces the numeric shapes a
// JSON-RPC id can take after decoding into a plain `int`.
package conv
