package openapimcp

import (
	"net/http"
	"time"

	"github.com/phuslu/log"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/executor"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/factory"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/mapper"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/parser"
)

type ServerOptions struct {
	HTTPClient    executor.HTTPClient
	BaseURL       string
	BaseHeaders   http.Header
	Timeout       time.Duration
	Logger        *log.Logger
	RouteMaps     []mapper.RouteMap
	RouteMapFunc  mapper.RouteMapFunc
	CustomNames   map[string]string
	ComponentFunc factory.ComponentFunc
	Parser        parser.Parser
	ServerName    string
	ServerVersion string
}

func defaultServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPClient:    executor.NewDefaultHTTPClient(),
		BaseHeaders:   make(http.Header),
		Timeout:       executor.DefaultRequestTimeout,
		Logger:        &log.DefaultLogger,
		RouteMaps:     mapper.DefaultRouteMappings(),
		Parser:        parser.NewParser(),
		ServerName:    "openapi-mcp-server",
		ServerVersion: "1.0.0",
	}
}

type ServerOption func(*ServerOptions)

func WithHTTPClient(client executor.HTTPClient) ServerOption {
	return func(opts *ServerOptions) {
		opts.HTTPClient = client
	}
}

func WithBaseURL(url string) ServerOption {
	return func(opts *ServerOptions) {
		opts.BaseURL = url
	}
}

// WithBaseHeaders sets headers attached to every upstream request,
// typically static auth.
func WithBaseHeaders(headers http.Header) ServerOption {
	return func(opts *ServerOptions) {
		opts.BaseHeaders = headers
	}
}

func WithTimeout(timeout time.Duration) ServerOption {
	return func(opts *ServerOptions) {
		opts.Timeout = timeout
	}
}

func WithLogger(logger *log.Logger) ServerOption {
	return func(opts *ServerOptions) {
		opts.Logger = logger
	}
}

func WithRouteMaps(maps []mapper.RouteMap) ServerOption {
	return func(opts *ServerOptions) {
		opts.RouteMaps = maps
	}
}

func WithRouteMapFunc(fn mapper.RouteMapFunc) ServerOption {
	return func(opts *ServerOptions) {
		opts.RouteMapFunc = fn
	}
}

func WithCustomNames(names map[string]string) ServerOption {
	return func(opts *ServerOptions) {
		opts.CustomNames = names
	}
}

func WithComponentFunc(fn factory.ComponentFunc) ServerOption {
	return func(opts *ServerOptions) {
		opts.ComponentFunc = fn
	}
}

func WithParser(p parser.Parser) ServerOption {
	return func(opts *ServerOptions) {
		opts.Parser = p
	}
}

func WithServerInfo(name, version string) ServerOption {
	return func(opts *ServerOptions) {
		opts.ServerName = name
		opts.ServerVersion = version
	}
}
