package factory

import (
	"github.com/restmap/openapi-mcp/pkg/openapimcp/executor"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/mapper"
)

// ComponentFunc observes every component right after creation, before
// registration. Used for per-component customization hooks.
type ComponentFunc func(route ir.HTTPRoute, component interface{})

// ComponentFactory turns extracted routes into MCP components. A
// factory instance owns its name counters, so two factories never
// influence each other's deduplication.
type ComponentFactory struct {
	runtime     *executor.Runtime
	nameCounter map[string]map[string]int
	customNames map[string]string
	componentFn ComponentFunc
}

func NewComponentFactory(runtime *executor.Runtime) *ComponentFactory {
	return &ComponentFactory{
		runtime:     runtime,
		nameCounter: make(map[string]map[string]int),
		customNames: make(map[string]string),
	}
}

func (cf *ComponentFactory) WithCustomNames(names map[string]string) *ComponentFactory {
	if normalized := normalizeCustomNames(names); normalized != nil {
		cf.customNames = normalized
	}
	return cf
}

func (cf *ComponentFactory) WithComponentFunc(fn ComponentFunc) *ComponentFactory {
	cf.componentFn = fn
	return cf
}

func (cf *ComponentFactory) CreateComponents(mappedRoutes []mapper.MappedRoute) ([]interface{}, error) {
	var components []interface{}

	for _, mapped := range mappedRoutes {
		switch mapped.MCPType {
		case mapper.MCPTypeTool:
			tool, err := cf.CreateTool(mapped.Route, mapped.MCPTags)
			if err != nil {
				return nil, err
			}
			components = append(components, tool)

		case mapper.MCPTypeResource:
			resource, err := cf.CreateResource(mapped.Route, mapped.MCPTags)
			if err != nil {
				return nil, err
			}
			components = append(components, resource)

		case mapper.MCPTypeResourceTemplate:
			template, err := cf.CreateResourceTemplate(mapped.Route, mapped.MCPTags)
			if err != nil {
				return nil, err
			}
			components = append(components, template)
		}
	}

	return components, nil
}

func (cf *ComponentFactory) CreateTool(route ir.HTTPRoute, tags []string) (*executor.OpenAPITool, error) {
	inputSchema, paramMap := cf.combineSchemas(route)
	outputSchema, wrapResult := cf.extractOutputSchema(route)

	name := cf.generateName(route, "tool")
	description := cf.formatDescription(route)

	tool := executor.NewOpenAPITool(
		name,
		description,
		inputSchema,
		outputSchema,
		wrapResult,
		route,
		paramMap,
		cf.runtime,
	)

	if cf.componentFn != nil {
		cf.componentFn(route, tool)
	}

	return tool, nil
}

func (cf *ComponentFactory) CreateResource(route ir.HTTPRoute, tags []string) (*executor.OpenAPIResource, error) {
	name := cf.generateName(route, "resource")
	description := cf.formatDescription(route)

	resource := executor.NewOpenAPIResource(
		name,
		description,
		route,
		cf.runtime,
	)

	if cf.componentFn != nil {
		cf.componentFn(route, resource)
	}

	return resource, nil
}

func (cf *ComponentFactory) CreateResourceTemplate(route ir.HTTPRoute, tags []string) (*executor.OpenAPIResourceTemplate, error) {
	_, paramMap := cf.combineSchemas(route)

	name := cf.generateName(route, "resource_template")
	description := cf.formatDescription(route)

	template := executor.NewOpenAPIResourceTemplate(
		name,
		description,
		route,
		paramMap,
		cf.runtime,
	)

	if cf.componentFn != nil {
		cf.componentFn(route, template)
	}

	return template, nil
}
