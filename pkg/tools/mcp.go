package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/effective-security/xlog"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddToServer exposes every tool of r on server.
func AddToServer(server *mcp.Server, r *Registry) {
	for _, t := range r.List() {
		server.AddTool(t.MCPTool(), r.MCPHandler(t.Name))
		logger.KV(xlog.DEBUG, "status", "registered_tool", "tool", t.Name)
	}
}

// MCPTool describes t with an object schema of required properties. The
// server validates arguments against it before the handler runs.
func (t *Tool) MCPTool() *mcp.Tool {
	props := make(map[string]*jsonschema.Schema, len(t.Params))
	required := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		prop := &jsonschema.Schema{Description: p.Description}
		if len(p.Types) > 0 {
			prop.Types = p.Types
		} else {
			prop.Type = "string"
		}
		props[p.Name] = prop
		required = append(required, p.Name)
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: props,
	}
	if len(required) > 0 {
		schema.Required = required
	}

	return &mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}
}

// MCPHandler returns a handler that runs the tool called name. Tool errors
// come back as error results, never as protocol errors.
func (r *Registry) MCPHandler(name string) func(context.Context, *mcp.ServerSession, *mcp.CallToolParamsFor[map[string]any]) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]any]) (*mcp.CallToolResult, error) {
		var raw map[string]any
		if params != nil {
			raw = params.Arguments
		}
		out, err := r.Call(ctx, name, StringArgs(raw))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(out), nil
	}
}

// StringArgs converts decoded JSON arguments to strings. Agents often send
// IDs as numbers; 1234 becomes "1234". Nulls are dropped.
func StringArgs(raw map[string]any) Args {
	args := make(Args, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			args[k] = v
		case float64:
			args[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			args[k] = strconv.FormatBool(v)
		case json.Number:
			args[k] = v.String()
		default:
			b, err := json.Marshal(v)
			if err != nil {
				args[k] = fmt.Sprint(v)
				continue
			}
			args[k] = string(b)
		}
	}
	return args
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
