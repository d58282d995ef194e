package factory

import (
	"sort"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/parser"
)

// combineSchemas flattens a route's parameters and request-body
// properties into one object schema. Parameters keep their declared
// order; body properties follow in sorted-name order so repeated runs
// over the same route emit identical schemas.
//
// When a parameter name also appears as a body property, the parameter
// is exposed as "{name}__{location}" and the body property keeps the
// bare name. The returned map records, for every exposed key, the
// declared name and wire location dispatch must use.
func (cf *ComponentFactory) combineSchemas(route ir.HTTPRoute) (ir.Schema, map[string]ir.ParamMapping) {
	properties := make(map[string]interface{})
	required := []string{}
	paramMap := make(map[string]ir.ParamMapping)

	bodySchema := preferredBodySchema(route)
	bodyProps := bodySchema.Properties()

	for _, param := range route.Parameters {
		exposed := param.Name
		if _, collides := bodyProps[param.Name]; collides {
			exposed = param.Name + "__" + param.In
		}

		propSchema := param.Schema.Clone()
		if propSchema == nil {
			propSchema = ir.Schema{}
		}
		if param.Description != "" {
			if _, ok := propSchema["description"]; !ok {
				propSchema["description"] = param.Description
			}
		}
		if !param.Required {
			propSchema = nullableSchema(propSchema)
		}

		properties[exposed] = map[string]interface{}(propSchema)
		if param.Required {
			required = append(required, exposed)
		}

		paramMap[exposed] = ir.ParamMapping{
			OpenAPIName: param.Name,
			Location:    param.In,
			IsSuffixed:  exposed != param.Name,
		}
	}

	if len(bodyProps) > 0 {
		bodyRequired := bodySchema.Required()
		requiredSet := make(map[string]bool, len(bodyRequired))
		for _, name := range bodyRequired {
			requiredSet[name] = true
		}

		names := make([]string, 0, len(bodyProps))
		for name := range bodyProps {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			propSchema := bodyProps[name].Clone()
			if !requiredSet[name] {
				propSchema = nullableSchema(propSchema)
			}
			properties[name] = map[string]interface{}(propSchema)

			paramMap[name] = ir.ParamMapping{
				OpenAPIName: name,
				Location:    ir.ParameterInBody,
				IsSuffixed:  false,
			}
		}

		required = append(required, bodyRequired...)
	}

	schema := ir.Schema{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}

	if defs := route.SchemaDefs.Definitions(); len(defs) > 0 {
		schema = parser.MergeSchemaDefinitions(schema, route.SchemaDefs)
		schema = parser.OptimizeSchema(schema)
	}

	return schema, paramMap
}

// nullableSchema widens a schema to also accept null. Callers that are
// not required get this treatment so omitting them and sending an
// explicit null validate the same way.
func nullableSchema(schema ir.Schema) ir.Schema {
	if schema.Type() == "null" {
		return schema
	}

	if anyOf, ok := schema["anyOf"].([]interface{}); ok {
		for _, branch := range anyOf {
			if m, ok := branch.(map[string]interface{}); ok && m["type"] == "null" {
				return schema
			}
		}
	}

	return ir.Schema{
		"anyOf": []interface{}{
			map[string]interface{}(schema),
			map[string]interface{}{"type": "null"},
		},
	}
}

func preferredBodySchema(route ir.HTTPRoute) ir.Schema {
	if route.RequestBody == nil {
		return nil
	}
	contentType := parser.PreferredContentType(route.RequestBody.ContentSchemas)
	if contentType == "" {
		return nil
	}
	return route.RequestBody.ContentSchemas[contentType]
}

// extractOutputSchema picks the schema of the first success response.
// Non-object schemas are lifted into {"result": ...} and the returned
// flag tells the response processor to wrap instances the same way.
func (cf *ComponentFactory) extractOutputSchema(route ir.HTTPRoute) (ir.Schema, bool) {
	successStatuses := []string{"200", "201", "202", "204"}

	var responseInfo *ir.ResponseInfo
	for _, status := range successStatuses {
		if resp, ok := route.Responses[status]; ok {
			responseInfo = &resp
			break
		}
	}

	if responseInfo == nil || len(responseInfo.ContentSchemas) == 0 {
		return nil, false
	}

	contentType := parser.PreferredContentType(responseInfo.ContentSchemas)
	if contentType == "" {
		return nil, false
	}

	schema := responseInfo.ContentSchemas[contentType].Clone()

	wrapped, wrapResult := parser.WrapNonObjectSchema(schema)

	if len(route.SchemaDefs.Definitions()) > 0 {
		wrapped = parser.MergeSchemaDefinitions(wrapped, route.SchemaDefs)
	}

	optimized := parser.OptimizeSchema(wrapped)

	if wrapResult {
		optimized[ir.WrapResultExtension] = true
	}

	return optimized, wrapResult
}
