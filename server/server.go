package server

import (
	"context"
	"errors"
	"io"

		"github.com/openbank-tools/investec-mcp/tool"
	"github.com/sirupsen/logrus"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcp-protocol/syncmap"
)

// Server represents MCP protocol handler
type Server struct {
	activeContexts  *syncmap.Map[int, *activeContext]
	info            schema.Implementation
	registry        *tool.Registry
	instructions    *string
	protocolVersion string
	loggerName      string
	logger          *logrus.Entry
	stdioServer
}

// CancelOperation cancels the in-flight request with id
func (s *Server) CancelOperation(id int) {
	if active, ok := s.activeContexts.Get(id); ok {
		s.activeContexts.Delete(id)
		active.CancelFunc()
	}
}

// NewHandler creates a new handler instance
func (s *Server) NewHandler(ctx context.Context, transport transport.Transport) transport.Handler {
	return s.newHandler(ctx, transport)
}

func (s *Server) newHandler(_ context.Context, notifier transport.Notifier) *Handler {
	ret := &Handler{
		Server:   s,
		Notifier: notifier,
		level:    &levelHolder{},
	}
	ret.Logger = NewLogger(s.loggerName, ret.level, notifier)
	return ret
}

// New creates a new Server instance
func New(options ...Option) (*Server, error) {
	s := &Server{
		info: schema.Implementation{
			Name:    "investec",
			Version: "0.1",
		},
		loggerName:      "investec",
		protocolVersion: schema.LatestProtocolVersion,
		activeContexts:  syncmap.NewMap[int, *activeContext](),
	}
	for _, option := range options {
		option(s)
	}
	if s.registry == nil {
		return nil, errors.New("no tool registry specified")
	}
	if s.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		s.logger = logrus.NewEntry(logger)
	}
	return s, nil
}
