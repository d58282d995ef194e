package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/internal"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// OpenAPIResource exposes a parameterless GET route as an MCP
// resource. JSON responses are pretty-printed for readability.
type OpenAPIResource struct {
	resource mcp.Resource
	route    ir.HTTPRoute
	runtime  *Runtime
}

func NewOpenAPIResource(
	name string,
	description string,
	route ir.HTTPRoute,
	runtime *Runtime,
) *OpenAPIResource {
	resource := mcp.NewResource(
		fmt.Sprintf("resource://%s", name),
		name,
		mcp.WithResourceDescription(description),
		mcp.WithMIMEType("application/json"),
	)

	return &OpenAPIResource{
		resource: resource,
		route:    route,
		runtime:  runtime,
	}
}

func (r *OpenAPIResource) Resource() mcp.Resource {
	return r.resource
}

func (r *OpenAPIResource) SetResource(resource mcp.Resource) {
	r.resource = resource
}

func (r *OpenAPIResource) Read(ctx context.Context) (string, error) {
	return r.readURL(ctx, r.route.Path)
}

func (r *OpenAPIResource) readURL(ctx context.Context, urlPath string) (string, error) {
	fullURL := urlPath
	if r.runtime.BaseURL != "" {
		fullURL = strings.TrimSuffix(r.runtime.BaseURL, "/") + "/" + strings.TrimPrefix(urlPath, "/")
	}

	if _, err := url.Parse(fullURL); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if r.runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runtime.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", err
	}

	for k, v := range internal.GetMCPHeaders(ctx) {
		req.Header.Set(k, v)
	}

	resp, err := r.runtime.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", NewHTTPError(resp.StatusCode, body)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		var decoded interface{}
		if json.Unmarshal(body, &decoded) == nil {
			if pretty, err := json.MarshalIndent(decoded, "", "  "); err == nil {
				return string(pretty), nil
			}
		}
	}

	return string(body), nil
}
