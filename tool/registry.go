package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"
	"github.com/viant/mcp-protocol/syncmap"
)

type (
	// Handler executes a tool with raw call arguments and returns its text result.
	Handler func(ctx context.Context, arguments map[string]interface{}) (string, error)

	// Tool is a registered, callable tool.
	Tool struct {
		*protoserver.ToolEntry
		call Handler
	}

	// Registry keeps protocol tool entries in registration order.
	Registry struct {
		registry *protoserver.Registry
		tools    *syncmap.Map[string, *Tool]
		mux      sync.Mutex
		names    []string
	}
)

// Name returns the tool name
func (t *Tool) Name() string {
	return t.Metadata.Name
}

// InputSchema returns the tool input schema
func (t *Tool) InputSchema() schema.ToolInputSchema {
	return t.Metadata.InputSchema
}

// Call decodes arguments and runs the tool
func (t *Tool) Call(ctx context.Context, arguments map[string]interface{}) (string, error) {
	return t.call(ctx, arguments)
}

// Add registers a tool; names must be unique
func (r *Registry) Add(tool *Tool) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	name := tool.Name()
	if _, ok := r.tools.Get(name); ok {
		return fmt.Errorf("tool %v already registered", name)
	}
	r.registry.RegisterTool(tool.ToolEntry)
	r.tools.Put(name, tool)
	r.names = append(r.names, name)
	return nil
}

// Lookup returns a tool by name
func (r *Registry) Lookup(name string) (*Tool, bool) {
	return r.tools.Get(name)
}

// Definitions returns the tools/list entries in registration order
func (r *Registry) Definitions() []schema.Tool {
	r.mux.Lock()
	defer r.mux.Unlock()
	ret := make([]schema.Tool, 0, len(r.names))
	for _, name := range r.names {
		if entry, ok := r.registry.ToolRegistry.Get(name); ok {
			ret = append(ret, entry.Metadata)
		}
	}
	return ret
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	return r.tools.Size()
}

// Register adds a typed tool: its input schema is derived from I and call arguments are decoded into I.
func Register[I any](r *Registry, name, description string, fn func(ctx context.Context, input *I) (string, error)) error {
	var inSchema schema.ToolInputSchema
	if err := inSchema.Load(new(I)); err != nil {
		return fmt.Errorf("failed to derive input schema for tool %v: %w", name, err)
	}
	call := func(ctx context.Context, arguments map[string]interface{}) (string, error) {
		input := new(I)
		if len(arguments) > 0 {
			data, err := json.Marshal(arguments)
			if err != nil {
				return "", &ArgumentError{Tool: name, Err: err}
			}
			if err := json.Unmarshal(data, input); err != nil {
				return "", &ArgumentError{Tool: name, Err: err}
			}
		}
		return fn(ctx, input)
	}
	return r.Add(&Tool{
		ToolEntry: &protoserver.ToolEntry{
			Handler: resultHandler(call),
			Metadata: schema.Tool{
				Name:        name,
				Description: &description,
				InputSchema: inSchema,
			},
		},
		call: call,
	})
}

// resultHandler adapts call to the protocol handler; failures become error results, not protocol errors.
func resultHandler(call Handler) protoserver.ToolHandlerFunc {
	return func(ctx context.Context, request *schema.CallToolRequest) (*schema.CallToolResult, *jsonrpc.Error) {
		text, err := call(ctx, request.Params.Arguments)
		if err != nil {
			return NewErrorResult(err), nil
		}
		return NewTextResult(text), nil
	}
}

// NewTextResult creates a single text content result
func NewTextResult(text string) *schema.CallToolResult {
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{
			schema.TextContent{Type: "text", Text: text},
		},
	}
}

// NewErrorResult creates an error result carrying err text
func NewErrorResult(err error) *schema.CallToolResult {
	result := NewTextResult(err.Error())
	isError := true
	result.IsError = &isError
	return result
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		registry: protoserver.NewRegistry(),
		tools:    syncmap.NewMap[string, *Tool](),
	}
}
