package mapper

import (
	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// RouteMapFunc can override the mapped type for a single route. A nil
// return keeps the rule's verdict.
type RouteMapFunc func(route ir.HTTPRoute, mappedType MCPType) *MCPType

// RouteMapper applies an ordered rule list to routes. The first
// matching rule wins; routes matching no rule become tools.
type RouteMapper struct {
	routeMaps []RouteMap
	mapFunc   RouteMapFunc
}

func NewRouteMapper(routeMaps []RouteMap) *RouteMapper {
	return &RouteMapper{routeMaps: routeMaps}
}

func (rm *RouteMapper) WithMapFunc(mapFunc RouteMapFunc) *RouteMapper {
	rm.mapFunc = mapFunc
	return rm
}

// MappedRoute pairs a route with its mapping verdict.
type MappedRoute struct {
	Route   ir.HTTPRoute
	MCPType MCPType
	MCPTags []string
}

func (rm *RouteMapper) MapRoutes(routes []ir.HTTPRoute) []MappedRoute {
	var mapped []MappedRoute

	for _, route := range routes {
		mcpType, mcpTags := rm.mapRoute(route)
		if mcpType == MCPTypeExclude {
			continue
		}
		mapped = append(mapped, MappedRoute{
			Route:   route,
			MCPType: mcpType,
			MCPTags: mcpTags,
		})
	}

	return mapped
}

func (rm *RouteMapper) MapRoute(route ir.HTTPRoute) MCPType {
	mcpType, _ := rm.mapRoute(route)
	return mcpType
}

func (rm *RouteMapper) mapRoute(route ir.HTTPRoute) (MCPType, []string) {
	for _, mapping := range rm.routeMaps {
		if !matches(route, mapping) {
			continue
		}

		mappedType := mapping.MCPType
		if rm.mapFunc != nil {
			if override := rm.mapFunc(route, mappedType); override != nil {
				mappedType = *override
			}
		}

		return mappedType, mapping.MCPTags
	}

	return MCPTypeTool, nil
}

func matches(route ir.HTTPRoute, mapping RouteMap) bool {
	if !matchesMethods(route.Method, mapping.Methods) {
		return false
	}

	if !mapping.PathPattern.MatchString(route.Path) {
		return false
	}

	if len(mapping.Tags) > 0 && !matchesTags(route.Tags, mapping.Tags) {
		return false
	}

	return true
}

func matchesMethods(method string, allowedMethods []string) bool {
	for _, allowed := range allowedMethods {
		if allowed == "*" || allowed == method {
			return true
		}
	}
	return false
}

func matchesTags(routeTags []string, requiredTags []string) bool {
	routeTagSet := make(map[string]bool, len(routeTags))
	for _, tag := range routeTags {
		routeTagSet[tag] = true
	}

	for _, required := range requiredTags {
		if !routeTagSet[required] {
			return false
		}
	}

	return true
}
