package mapper

import "regexp"

// DefaultRouteMappings turns every route into a tool. This is the
// safest default: tools accept arguments, resources do not.
func DefaultRouteMappings() []RouteMap {
	return []RouteMap{
		{
			Methods:     []string{"*"},
			PathPattern: regexp.MustCompile(".*"),
			MCPType:     MCPTypeTool,
		},
	}
}

// SmartRouteMappings maps parameterized GETs to resource templates,
// plain GETs to resources, and everything else to tools.
func SmartRouteMappings() []RouteMap {
	return []RouteMap{
		{
			Methods:     []string{"GET"},
			PathPattern: regexp.MustCompile(`.*\{.*\}.*`),
			MCPType:     MCPTypeResourceTemplate,
		},
		{
			Methods:     []string{"GET"},
			PathPattern: regexp.MustCompile(".*"),
			MCPType:     MCPTypeResource,
		},
		{
			Methods:     []string{"*"},
			PathPattern: regexp.MustCompile(".*"),
			MCPType:     MCPTypeTool,
		},
	}
}

// ResourceOnlyMappings exposes GETs as resources or templates and
// excludes mutating methods entirely.
func ResourceOnlyMappings() []RouteMap {
	return []RouteMap{
		{
			Methods:     []string{"GET"},
			PathPattern: regexp.MustCompile(`.*\{.*\}.*`),
			MCPType:     MCPTypeResourceTemplate,
		},
		{
			Methods:     []string{"GET"},
			PathPattern: regexp.MustCompile(".*"),
			MCPType:     MCPTypeResource,
		},
		{
			Methods:     []string{"*"},
			PathPattern: regexp.MustCompile(".*"),
			MCPType:     MCPTypeExclude,
		},
	}
}

func ToolOnlyMappings() []RouteMap {
	return []RouteMap{
		{
			Methods:     []string{"*"},
			PathPattern: regexp.MustCompile(".*"),
			MCPType:     MCPTypeTool,
		},
	}
}
