package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openbank-tools/investec-mcp/internal/conv"
	"github.com/sirupsen/logrus"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
)

// ListTools handles the tools/list method
func (h *Handler) ListTools(ctx context.Context, request *jsonrpc.Request) (*schema.ListToolsResult, *jsonrpc.Error) {
	return &schema.ListToolsResult{Tools: h.registry.Definitions()}, nil
}

// CallTool handles the tools/call method; tool failures are reported as an error result, not a protocol error
func (h *Handler) CallTool(ctx context.Context, request *jsonrpc.Request) (*schema.CallToolResult, *jsonrpc.Error) {
	callRequest := &schema.CallToolRequest{
		Id:      schema.RequestId(conv.AsInt(request.Id)),
		Jsonrpc: request.Jsonrpc,
		Method:  request.Method,
	}
	if err := json.Unmarshal(request.Params, &callRequest.Params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
	}
	name := callRequest.Params.Name
	aTool, ok := h.registry.Lookup(name)
	if !ok {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("unknown tool: %v", name), request.Params)
	}
	logger := h.logger.WithField("tool", name)
	started := time.Now()
	result, rpcErr := aTool.Handler(ctx, callRequest)
	logger = logger.WithField("elapsed", time.Since(started).String())
	if rpcErr != nil {
		logger.WithField("error", rpcErr.Message).Error("tool call rejected")
		return nil, rpcErr
	}
	if result.IsError != nil && *result.IsError {
		message := resultText(result)
		logger.WithField("error", message).Error("tool call failed")
		_ = h.Logger.Error(ctx, map[string]interface{}{"tool": name, "error": message})
		return result, nil
	}
	logger.WithFields(logrus.Fields{"bytes": len(resultText(result))}).Debug("tool call completed")
	return result, nil
}

func resultText(result *schema.CallToolResult) string {
	var texts []string
	for _, elem := range result.Content {
		switch content := elem.(type) {
		case schema.TextContent:
			texts = append(texts, content.Text)
		case *schema.TextContent:
			texts = append(texts, content.Text)
		}
	}
	return strings.Join(texts, "\n")
}
