package executor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// OpenAPIResourceTemplate exposes a parameterized GET route as an MCP
// resource template. The URI template appends path parameters in
// sorted order; ReadURI relies on that order to recover them.
type OpenAPIResourceTemplate struct {
	template mcp.ResourceTemplate
	route    ir.HTTPRoute
	paramMap map[string]ir.ParamMapping
	runtime  *Runtime
}

func NewOpenAPIResourceTemplate(
	name string,
	description string,
	route ir.HTTPRoute,
	paramMap map[string]ir.ParamMapping,
	runtime *Runtime,
) *OpenAPIResourceTemplate {
	uriTemplate := buildURITemplate(name, sortedPathParameters(route))

	template := mcp.NewResourceTemplate(
		uriTemplate,
		name,
		mcp.WithTemplateDescription(description),
		mcp.WithTemplateMIMEType("application/json"),
	)

	return &OpenAPIResourceTemplate{
		template: template,
		route:    route,
		paramMap: paramMap,
		runtime:  runtime,
	}
}

func (rt *OpenAPIResourceTemplate) Template() mcp.ResourceTemplate {
	return rt.template
}

func (rt *OpenAPIResourceTemplate) SetTemplate(template mcp.ResourceTemplate) {
	rt.template = template
}

func (rt *OpenAPIResourceTemplate) GetRoute() ir.HTTPRoute {
	return rt.route
}

// ReadURI resolves a concrete URI produced from this template and
// reads the upstream route with the recovered path parameters.
func (rt *OpenAPIResourceTemplate) ReadURI(ctx context.Context, uri string) (string, error) {
	params, err := rt.RecoverPathParams(uri)
	if err != nil {
		return "", err
	}
	return rt.ReadWithParams(ctx, params)
}

// ReadWithParams substitutes the given path parameters and performs
// the GET.
func (rt *OpenAPIResourceTemplate) ReadWithParams(ctx context.Context, params map[string]string) (string, error) {
	urlPath := rt.route.Path
	for name, value := range params {
		urlPath = strings.ReplaceAll(urlPath, "{"+name+"}", value)
	}

	if strings.Contains(urlPath, "{") {
		return "", fmt.Errorf("unresolved path parameters in %q", urlPath)
	}

	resource := &OpenAPIResource{route: rt.route, runtime: rt.runtime}
	return resource.readURL(ctx, urlPath)
}

// RecoverPathParams maps the trailing URI segments back onto the
// route's path parameters. Names are matched in reverse sorted order
// against the last segments, the inverse of how buildURITemplate laid
// them out. A URI whose segment count diverges from the template is
// rejected.
func (rt *OpenAPIResourceTemplate) RecoverPathParams(uri string) (map[string]string, error) {
	names := sortedPathParameters(rt.route)
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	trimmed := strings.TrimSuffix(uri, "/")
	segments := strings.Split(trimmed, "/")
	if len(segments) < len(names) {
		return nil, fmt.Errorf("uri %q has fewer segments than the %d template parameters", uri, len(names))
	}

	reversed := append([]string{}, names...)
	sort.Sort(sort.Reverse(sort.StringSlice(reversed)))

	params := make(map[string]string, len(names))
	for i, name := range reversed {
		segment := segments[len(segments)-1-i]
		if segment == "" {
			return nil, fmt.Errorf("uri %q has an empty segment for parameter %q", uri, name)
		}
		params[name] = segment
	}

	return params, nil
}

func sortedPathParameters(route ir.HTTPRoute) []string {
	var names []string
	for _, param := range route.Parameters {
		if param.In == ir.ParameterInPath {
			names = append(names, param.Name)
		}
	}
	sort.Strings(names)
	return names
}

func buildURITemplate(name string, pathParams []string) string {
	if len(pathParams) == 0 {
		return fmt.Sprintf("resource://%s", name)
	}

	vars := make([]string, len(pathParams))
	for i, param := range pathParams {
		vars[i] = "{" + param + "}"
	}

	return fmt.Sprintf("resource://%s/%s", name, strings.Join(vars, "/"))
}
