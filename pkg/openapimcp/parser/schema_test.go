package parser_test

import (
	"reflect"
	"testing"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/parser"
)

func TestConvertNullableToAnyOf(t *testing.T) {
	schema := parser.ConvertToJSONSchema(map[string]interface{}{
		"type":     "string",
		"nullable": true,
	}, true)

	anyOf, ok := schema["anyOf"].([]interface{})
	if !ok || len(anyOf) != 2 {
		t.Fatalf("expected anyOf union, got %v", schema)
	}
	if !reflect.DeepEqual(anyOf[0], map[string]interface{}{"type": "string"}) {
		t.Fatalf("unexpected first branch %v", anyOf[0])
	}
	if !reflect.DeepEqual(anyOf[1], map[string]interface{}{"type": "null"}) {
		t.Fatalf("unexpected null branch %v", anyOf[1])
	}
	if _, ok := schema["nullable"]; ok {
		t.Fatal("nullable keyword must not survive conversion")
	}
}

func TestConvertNullableIgnoredFor31(t *testing.T) {
	schema := parser.ConvertToJSONSchema(map[string]interface{}{
		"type":     "string",
		"nullable": true,
	}, false)

	if schema["type"] != "string" {
		t.Fatalf("expected plain string type, got %v", schema)
	}
	if _, ok := schema["anyOf"]; ok {
		t.Fatal("3.1 schemas must not be rewritten")
	}
}

func TestConvertRebasesComponentRefs(t *testing.T) {
	schema := parser.ConvertToJSONSchema(map[string]interface{}{
		"properties": map[string]interface{}{
			"owner": map[string]interface{}{
				"$ref": "#/components/schemas/User",
			},
		},
	}, false)

	props := schema["properties"].(map[string]interface{})
	owner := props["owner"].(map[string]interface{})
	if owner["$ref"] != "#/$defs/User" {
		t.Fatalf("expected rebased ref, got %v", owner["$ref"])
	}
}

func TestPreferredContentTypePrefersJSON(t *testing.T) {
	schemas := map[string]ir.Schema{
		"text/plain":       {"type": "string"},
		"application/json": {"type": "object"},
		"application/xml":  {"type": "object"},
	}

	if got := parser.PreferredContentType(schemas); got != "application/json" {
		t.Fatalf("expected application/json, got %q", got)
	}
}

func TestPreferredContentTypeJSONVariant(t *testing.T) {
	schemas := map[string]ir.Schema{
		"application/xml":              {"type": "object"},
		"application/merge-patch+json": {"type": "object"},
	}

	if got := parser.PreferredContentType(schemas); got != "application/merge-patch+json" {
		t.Fatalf("expected the json variant, got %q", got)
	}
}

func TestPreferredContentTypeStableWithoutJSON(t *testing.T) {
	schemas := map[string]ir.Schema{
		"text/plain":      {"type": "string"},
		"application/xml": {"type": "object"},
	}

	if got := parser.PreferredContentType(schemas); got != "application/xml" {
		t.Fatalf("expected lexically first type, got %q", got)
	}
}

func TestWrapNonObjectSchema(t *testing.T) {
	wrapped, wrap := parser.WrapNonObjectSchema(ir.Schema{"type": "array", "items": map[string]interface{}{"type": "string"}})
	if !wrap {
		t.Fatal("expected non-object schema to be wrapped")
	}
	if wrapped["type"] != "object" {
		t.Fatalf("expected object wrapper, got %v", wrapped)
	}
	props := wrapped["properties"].(map[string]interface{})
	if _, ok := props["result"]; !ok {
		t.Fatalf("expected result property, got %v", props)
	}

	obj, wrap := parser.WrapNonObjectSchema(ir.Schema{"type": "object"})
	if wrap {
		t.Fatal("object schemas must pass through unwrapped")
	}
	if obj.Type() != "object" {
		t.Fatalf("unexpected schema %v", obj)
	}
}

func TestOptimizeSchemaPrunesUnusedDefs(t *testing.T) {
	schema := ir.Schema{
		"type": "object",
		"properties": map[string]interface{}{
			"user": map[string]interface{}{"$ref": "#/$defs/User"},
		},
		"$defs": map[string]interface{}{
			"User":   map[string]interface{}{"type": "object"},
			"Orphan": map[string]interface{}{"type": "string"},
		},
	}

	optimized := parser.OptimizeSchema(schema)
	defs := optimized.Definitions()
	if _, ok := defs["User"]; !ok {
		t.Fatal("referenced definition must survive")
	}
	if _, ok := defs["Orphan"]; ok {
		t.Fatal("unreferenced definition must be pruned")
	}
}

func TestMergeSchemaDefinitionsKeepsPrimary(t *testing.T) {
	primary := ir.Schema{
		"$defs": map[string]interface{}{
			"User": map[string]interface{}{"type": "object"},
		},
	}
	secondary := ir.Schema{
		"$defs": map[string]interface{}{
			"User":  map[string]interface{}{"type": "string"},
			"Group": map[string]interface{}{"type": "object"},
		},
	}

	merged := parser.MergeSchemaDefinitions(primary, secondary)
	defs := merged.Definitions()

	if defs["User"].Type() != "object" {
		t.Fatalf("primary definition must win, got %v", defs["User"])
	}
	if _, ok := defs["Group"]; !ok {
		t.Fatal("secondary-only definition must be merged")
	}
}
