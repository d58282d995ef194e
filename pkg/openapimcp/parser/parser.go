package parser

import "github.com/restmap/openapi-mcp/pkg/openapimcp/ir"

// Parser extracts the route model from an OpenAPI document. Route
// extraction runs once at registration time; the routes it returns are
// treated as immutable by everything downstream.
type Parser interface {
	ParseSpec(spec []byte) ([]ir.HTTPRoute, error)
}

// NewParser returns a parser for OpenAPI 3.x documents (JSON or YAML).
func NewParser() Parser {
	return newV3Parser()
}
