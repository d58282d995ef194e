package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// ConvertToJSONSchema normalizes an OpenAPI schema into plain JSON
// Schema: 3.0 `nullable: true` becomes an anyOf union with null, and
// component references are rebased onto `#/$defs/`.
func ConvertToJSONSchema(openAPISchema map[string]interface{}, isOpenAPI30 bool) ir.Schema {
	result := make(ir.Schema)

	for key, value := range openAPISchema {
		switch key {
		case "$ref":
			result[key] = convertRef(value)
		case "nullable":
			if isOpenAPI30 && value == true {
				continue
			}
			result[key] = value
		case "type":
			if isOpenAPI30 && openAPISchema["nullable"] == true {
				result["anyOf"] = []interface{}{
					map[string]interface{}{"type": value},
					map[string]interface{}{"type": "null"},
				}
				continue
			}
			result[key] = value
		case "properties", "patternProperties":
			if props, ok := value.(map[string]interface{}); ok {
				converted := make(map[string]interface{}, len(props))
				for propName, propSchema := range props {
					if propMap, ok := propSchema.(map[string]interface{}); ok {
						converted[propName] = map[string]interface{}(ConvertToJSONSchema(propMap, isOpenAPI30))
					} else {
						converted[propName] = propSchema
					}
				}
				result[key] = converted
			} else {
				result[key] = value
			}
		case "items", "additionalProperties", "not", "if", "then", "else", "contains":
			if m, ok := value.(map[string]interface{}); ok {
				result[key] = map[string]interface{}(ConvertToJSONSchema(m, isOpenAPI30))
			} else {
				result[key] = value
			}
		case "allOf", "anyOf", "oneOf", "prefixItems":
			if schemas, ok := value.([]interface{}); ok {
				converted := make([]interface{}, len(schemas))
				for i, schema := range schemas {
					if m, ok := schema.(map[string]interface{}); ok {
						converted[i] = map[string]interface{}(ConvertToJSONSchema(m, isOpenAPI30))
					} else {
						converted[i] = schema
					}
				}
				result[key] = converted
			} else {
				result[key] = value
			}
		default:
			result[key] = value
		}
	}

	return result
}

func convertRef(ref interface{}) string {
	if refStr, ok := ref.(string); ok {
		if strings.HasPrefix(refStr, "#/components/schemas/") {
			return strings.Replace(refStr, "#/components/schemas/", "#/$defs/", 1)
		}
		return refStr
	}
	return fmt.Sprintf("%v", ref)
}

// PreferredContentType picks the media type whose schema is consulted
// for body properties: JSON variants first, then the lexically first
// remaining type so repeat calls are stable.
func PreferredContentType(contentSchemas map[string]ir.Schema) string {
	if len(contentSchemas) == 0 {
		return ""
	}

	preferred := []string{
		"application/json",
		"application/vnd.api+json",
		"application/hal+json",
	}
	for _, ct := range preferred {
		if _, ok := contentSchemas[ct]; ok {
			return ct
		}
	}

	keys := make([]string, 0, len(contentSchemas))
	for ct := range contentSchemas {
		keys = append(keys, ct)
	}
	sort.Strings(keys)

	for _, ct := range keys {
		if strings.Contains(ct, "json") {
			return ct
		}
	}
	return keys[0]
}

func IsObjectType(schema ir.Schema) bool {
	if schema.Type() == "object" {
		return true
	}

	if rawType, ok := schema["type"]; ok {
		switch t := rawType.(type) {
		case []interface{}:
			for _, v := range t {
				if s, ok := v.(string); ok && s == "object" {
					return true
				}
			}
		case []string:
			for _, v := range t {
				if v == "object" {
					return true
				}
			}
		}
	}

	if props, ok := schema["properties"]; ok {
		switch props.(type) {
		case map[string]interface{}, map[string]ir.Schema, ir.Schema:
			return true
		}
	}

	return false
}

// WrapNonObjectSchema lifts a non-object schema into an object with a
// single required "result" property. The second return reports whether
// wrapping happened, which becomes the route's wrap marker.
func WrapNonObjectSchema(schema ir.Schema) (ir.Schema, bool) {
	if IsObjectType(schema) {
		return schema, false
	}

	wrapped := ir.Schema{
		"type": "object",
		"properties": map[string]interface{}{
			"result": map[string]interface{}(schema),
		},
		"required": []string{"result"},
	}

	if defs := schema.Definitions(); len(defs) > 0 {
		wrapped["$defs"] = toGenericDefs(defs)
	}

	return wrapped, true
}

// MergeSchemaDefinitions copies secondary's $defs into primary without
// overriding names primary already defines.
func MergeSchemaDefinitions(primary, secondary ir.Schema) ir.Schema {
	if primary == nil {
		primary = make(ir.Schema)
	}

	primaryDefs := primary.Definitions()
	secondaryDefs := secondary.Definitions()
	if len(primaryDefs) == 0 && len(secondaryDefs) == 0 {
		return primary
	}

	merged := make(map[string]interface{}, len(primaryDefs)+len(secondaryDefs))
	for k, v := range primaryDefs {
		merged[k] = map[string]interface{}(v)
	}
	for k, v := range secondaryDefs {
		if _, exists := merged[k]; !exists {
			merged[k] = map[string]interface{}(v)
		}
	}

	result := make(ir.Schema, len(primary)+1)
	for k, v := range primary {
		result[k] = v
	}
	result["$defs"] = merged
	return result
}

// OptimizeSchema strips `additionalProperties: false` and prunes $defs
// entries nothing references.
func OptimizeSchema(schema ir.Schema) ir.Schema {
	result := make(ir.Schema, len(schema))
	for k, v := range schema {
		if k == "additionalProperties" && v == false {
			continue
		}
		result[k] = v
	}

	if defs := result.Definitions(); len(defs) > 0 {
		used := findReferences(result)
		pruned := make(map[string]interface{})
		for name, def := range defs {
			if used[name] {
				pruned[name] = map[string]interface{}(def)
			}
		}
		if len(pruned) > 0 {
			result["$defs"] = pruned
		} else {
			delete(result, "$defs")
		}
	}

	return result
}

func findReferences(schema ir.Schema) map[string]bool {
	refs := make(map[string]bool)
	findRefsRecursive(map[string]interface{}(schema), refs)
	return refs
}

func findRefsRecursive(value interface{}, refs map[string]bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, val := range v {
			if key == "$ref" {
				if refStr, ok := val.(string); ok && strings.HasPrefix(refStr, "#/$defs/") {
					refs[strings.TrimPrefix(refStr, "#/$defs/")] = true
				}
				continue
			}
			findRefsRecursive(val, refs)
		}
	case ir.Schema:
		findRefsRecursive(map[string]interface{}(v), refs)
	case []interface{}:
		for _, item := range v {
			findRefsRecursive(item, refs)
		}
	}
}

func toGenericDefs(defs map[string]ir.Schema) map[string]interface{} {
	out := make(map[string]interface{}, len(defs))
	for k, v := range defs {
		out[k] = map[string]interface{}(v)
	}
	return out
}
