// Package server provides the MCP server that exposes a tool registry to an agent.
//
// It speaks JSON-RPC 2.0 over the transports of github.com/viant/jsonrpc and
// supports the initialize, ping, tools/list, tools/call and logging/setLevel
// methods together with the initialized and cancelled notifications.
//
//	s, _ := server.New(server.WithRegistry(registry))
//	log.Fatal(s.Stdio(ctx).ListenAndServe())
package server
