package server

import (
	"github.com/openbank-tools/investec-mcp/tool"
	"github.com/sirupsen/logrus"
	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcp-protocol/schema"
)

// Option is a function that configures the server.
type Option func(s *Server)

// WithImplementation sets the server implementation.
func WithImplementation(implementation schema.Implementation) Option {
	return func(s *Server) {
		s.info = implementation
	}
}

// WithRegistry sets the tools exposed by the server.
func WithRegistry(registry *tool.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithInstructions sets the instructions returned by initialize.
func WithInstructions(instructions string) Option {
	return func(s *Server) {
		s.instructions = &instructions
	}
}

// WithProtocolVersion sets the protocol version.
func WithProtocolVersion(version string) Option {
	return func(s *Server) {
		s.protocolVersion = version
	}
}

// WithLoggerName sets the logger name.
func WithLoggerName(name string) Option {
	return func(s *Server) {
		s.loggerName = name
	}
}

// WithLogger sets the process logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStdioOptions sets stdio transport options.
func WithStdioOptions(options ...stdio.Option) Option {
	return func(s *Server) {
		s.stdioServerOption = append(s.stdioServerOption, options...)
	}
}
