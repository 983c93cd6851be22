package investec

import (
	"context"

	"github.com/openbank-tools/investec-mcp/api"
	"github.com/openbank-tools/investec-mcp/auth"
	"github.com/openbank-tools/investec-mcp/server"
	"github.com/openbank-tools/investec-mcp/tool"
	"github.com/sirupsen/logrus"
	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcp-protocol/schema"
)

const (
	serviceName    = "investec"
	serviceVersion = "0.1.0"
	instructions   = "Tools for the Investec private banking API: accounts, balances, transactions, profiles, beneficiaries, transfers, payments and documents."
)

// Service composes the token manager, api client, tools and MCP server
type Service struct {
	options  *Options
	logger   *logrus.Logger
	tokens   *auth.Manager
	client   *api.Client
	registry *tool.Registry
	server   *server.Server
}

// Tokens returns the token manager
func (s *Service) Tokens() *auth.Manager {
	return s.tokens
}

// Registry returns the registered tools
func (s *Service) Registry() *tool.Registry {
	return s.registry
}

// Stdio returns the stdio server
func (s *Service) Stdio(ctx context.Context) *stdio.Server {
	return s.server.Stdio(ctx)
}

// New creates a service for validated options
func New(options *Options, logger *logrus.Logger) (*Service, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	entry := logrus.NewEntry(logger)
	entry.WithFields(logrus.Fields{
		"baseURL":      options.BaseURL,
		"clientId":     options.ClientID,
		"clientSecret": mask(options.ClientSecret),
		"apiKey":       mask(options.APIKey),
	}).Debug("configuration loaded")

	tokens := auth.New(auth.Config{
		ClientID:     options.ClientID,
		ClientSecret: options.ClientSecret,
		APIKey:       options.APIKey,
		BaseURL:      options.BaseURL,
	}, auth.WithLogger(entry.WithField("component", "auth")))

	client := api.New(options.BaseURL, tokens,
		api.WithTimeout(options.RequestTimeout),
		api.WithLogger(entry.WithField("component", "api")))

	registry := tool.NewRegistry()
	if err := tool.NewBanking(client).Register(registry); err != nil {
		return nil, err
	}
	srv, err := server.New(
		server.WithImplementation(schema.Implementation{Name: serviceName, Version: serviceVersion}),
		server.WithRegistry(registry),
		server.WithInstructions(instructions),
		server.WithLoggerName(serviceName),
		server.WithLogger(entry.WithField("component", "server")),
	)
	if err != nil {
		return nil, err
	}
	return &Service{
		options:  options,
		logger:   logger,
		tokens:   tokens,
		client:   client,
		registry: registry,
		server:   srv,
	}, nil
}
