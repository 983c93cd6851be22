// Package tool defines the agent facing tool surface.
//
// Registry holds tools together with the JSON input schema derived from their
// typed input structs; Banking registers one tool per Investec private banking
// endpoint. Each tool returns the upstream JSON response re-indented for readability.
package tool
