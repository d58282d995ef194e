package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/internal"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// OpenAPITool executes one HTTP operation as an MCP tool. All failure
// modes surface as error results; Run never returns a Go error and
// never panics across the invocation boundary.
type OpenAPITool struct {
	tool         mcp.Tool
	route        ir.HTTPRoute
	paramMap     map[string]ir.ParamMapping
	outputSchema ir.Schema
	wrapResult   bool
	runtime      *Runtime
}

func NewOpenAPITool(
	name string,
	description string,
	inputSchema ir.Schema,
	outputSchema ir.Schema,
	wrapResult bool,
	route ir.HTTPRoute,
	paramMap map[string]ir.ParamMapping,
	runtime *Runtime,
) *OpenAPITool {
	inputSchemaJSON, _ := json.Marshal(inputSchema)

	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithRawInputSchema(inputSchemaJSON),
	}
	if outputSchema != nil {
		outputSchemaJSON, _ := json.Marshal(outputSchema)
		opts = append(opts, mcp.WithRawOutputSchema(outputSchemaJSON))
	}

	return &OpenAPITool{
		tool:         mcp.NewTool(name, opts...),
		route:        route,
		paramMap:     paramMap,
		outputSchema: outputSchema,
		wrapResult:   wrapResult,
		runtime:      runtime,
	}
}

func (t *OpenAPITool) Tool() mcp.Tool {
	return t.tool
}

func (t *OpenAPITool) SetTool(tool mcp.Tool) {
	t.tool = tool
}

// ParamMap exposes the argument-to-location mapping for inspection.
func (t *OpenAPITool) ParamMap() map[string]ir.ParamMapping {
	return t.paramMap
}

func (t *OpenAPITool) Run(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
	requestID := uuid.NewString()
	logger := t.runtime.Logger

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("request_id", requestID).
				Str("tool", t.tool.Name).
				Msgf("tool execution panicked: %v", r)
			result = errorResult(fmt.Sprintf("Internal error: %v", r))
			err = nil
		}
	}()

	args := internal.ParseArguments(request)

	if t.runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.runtime.Timeout)
		defer cancel()
	}

	builder := NewRequestBuilder(t.route, t.paramMap, t.runtime.BaseURL, logger)
	httpReq, err := builder.Build(ctx, args)
	if err != nil {
		return errorResult("Failed to build request: " + err.Error()), nil
	}

	// Transport-provided headers override declared header parameters.
	for k, v := range internal.GetMCPHeaders(ctx) {
		httpReq.Header.Set(k, v)
	}

	logger.Debug().
		Str("request_id", requestID).
		Str("tool", t.tool.Name).
		Str("method", httpReq.Method).
		Str("url", httpReq.URL.String()).
		Msg("dispatching upstream request")

	start := time.Now()
	resp, err := t.runtime.Client.Do(httpReq)
	if err != nil {
		logger.Warn().
			Str("request_id", requestID).
			Str("tool", t.tool.Name).
			Err(err).
			Msg("upstream request failed")
		return requestErrorResult(err), nil
	}

	logger.Debug().
		Str("request_id", requestID).
		Str("tool", t.tool.Name).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream response received")

	processor := NewResponseProcessor(t.outputSchema, t.wrapResult, logger)
	return processor.Process(resp)
}
