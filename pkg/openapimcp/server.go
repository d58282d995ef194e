package openapimcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/executor"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/factory"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/mapper"
)

// Server bridges an OpenAPI document onto MCP: routes become tools,
// resources, or resource templates according to the configured route
// maps, and invocations are proxied to the upstream API.
type Server struct {
	mcpServer *server.MCPServer
	mapper    *mapper.RouteMapper
	factory   *factory.ComponentFactory
	options   *ServerOptions
}

func NewServer(spec []byte, opts ...ServerOption) (*Server, error) {
	options := defaultServerOptions()
	for _, opt := range opts {
		opt(options)
	}

	routes, err := options.Parser.ParseSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}

	m := mapper.NewRouteMapper(options.RouteMaps)
	if options.RouteMapFunc != nil {
		m = m.WithMapFunc(options.RouteMapFunc)
	}

	client := newHeaderClient(options.HTTPClient, options.BaseHeaders)
	runtime := executor.NewRuntime(client, options.BaseURL).
		WithTimeout(options.Timeout).
		WithLogger(options.Logger)

	f := factory.NewComponentFactory(runtime)
	if options.CustomNames != nil {
		f = f.WithCustomNames(options.CustomNames)
	}
	if options.ComponentFunc != nil {
		f = f.WithComponentFunc(options.ComponentFunc)
	}

	mcpServer := server.NewMCPServer(
		options.ServerName,
		options.ServerVersion,
	)

	s := &Server{
		mcpServer: mcpServer,
		mapper:    m,
		factory:   f,
		options:   options,
	}

	if err := s.registerComponents(routes); err != nil {
		return nil, fmt.Errorf("failed to register components: %w", err)
	}

	return s, nil
}

func (s *Server) registerComponents(routes []ir.HTTPRoute) error {
	mappedRoutes := s.mapper.MapRoutes(routes)

	components, err := s.factory.CreateComponents(mappedRoutes)
	if err != nil {
		return err
	}

	for _, component := range components {
		switch c := component.(type) {
		case *executor.OpenAPITool:
			s.mcpServer.AddTool(c.Tool(), s.createToolHandler(c))

		case *executor.OpenAPIResource:
			s.mcpServer.AddResource(c.Resource(), s.createResourceHandler(c))

		case *executor.OpenAPIResourceTemplate:
			s.mcpServer.AddResourceTemplate(c.Template(), s.createResourceTemplateHandler(c))
		}
	}

	s.options.Logger.Info().
		Int("routes", len(routes)).
		Int("components", len(components)).
		Msg("registered components")

	return nil
}

func (s *Server) createToolHandler(tool *executor.OpenAPITool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return tool.Run(ctx, request)
	}
}

func (s *Server) createResourceHandler(resource *executor.OpenAPIResource) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		content, err := resource.Read(ctx)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      resource.Resource().URI,
				MIMEType: "application/json",
				Text:     content,
			},
		}, nil
	}
}

func (s *Server) createResourceTemplateHandler(template *executor.OpenAPIResourceTemplate) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		content, err := template.ReadURI(ctx, request.Params.URI)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     content,
			},
		}, nil
	}
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer exposes the underlying MCP server for custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}
