package internal

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type contextKey string

const mcpHeadersKey contextKey = "mcp_headers"

// GetMCPHeaders returns headers the MCP transport attached to the
// call context, or nil.
func GetMCPHeaders(ctx context.Context) map[string]string {
	if headers, ok := ctx.Value(mcpHeadersKey).(map[string]string); ok {
		return headers
	}
	return nil
}

// SetMCPHeaders attaches headers to the context. They are applied to
// the outgoing request after all declared header parameters, so they
// win on conflicts.
func SetMCPHeaders(ctx context.Context, headers map[string]string) context.Context {
	return context.WithValue(ctx, mcpHeadersKey, headers)
}

// ParseArguments extracts the argument map from a tool call. A call
// with no arguments yields an empty map, never nil.
func ParseArguments(request mcp.CallToolRequest) map[string]interface{} {
	args := request.GetArguments()
	if args == nil {
		return make(map[string]interface{})
	}
	return args
}
