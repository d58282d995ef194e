package parser_test

import (
	"testing"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/parser"
)

const petstore30 = `{
  "openapi": "3.0.3",
  "info": {"title": "Pets", "version": "1.0.0"},
  "paths": {
    "/pets/{petId}": {
      "get": {
        "operationId": "getPet",
        "parameters": [
          {
            "name": "petId",
            "in": "path",
            "required": true,
            "schema": {"type": "string"}
          },
          {
            "name": "verbose",
            "in": "query",
            "schema": {"type": "boolean"}
          }
        ],
        "responses": {
          "200": {
            "description": "a pet",
            "content": {
              "application/json": {
                "schema": {"$ref": "#/components/schemas/Pet"}
              }
            }
          }
        }
      }
    },
    "/pets": {
      "post": {
        "operationId": "createPet",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "name": {"type": "string"},
                  "tag": {"type": "string", "nullable": true}
                },
                "required": ["name"]
              }
            }
          }
        },
        "responses": {
          "201": {"description": "created"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "name": {"type": "string"},
          "owner": {"$ref": "#/components/schemas/Owner"},
          "friends": {
            "type": "array",
            "items": {"$ref": "#/components/schemas/Pet"}
          }
        }
      },
      "Owner": {
        "type": "object",
        "properties": {
          "name": {"type": "string"}
        }
      }
    }
  }
}`

func TestParseSpecExtractsRoutes(t *testing.T) {
	routes, err := parser.NewParser().ParseSpec([]byte(petstore30))
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}

	byOp := make(map[string]int)
	for i, route := range routes {
		byOp[route.OperationID] = i
	}

	get := routes[byOp["getPet"]]
	if get.Method != "GET" || get.Path != "/pets/{petId}" {
		t.Fatalf("unexpected route %s %s", get.Method, get.Path)
	}
	if len(get.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(get.Parameters))
	}
	if get.Parameters[0].Name != "petId" || !get.Parameters[0].Required {
		t.Fatalf("unexpected first parameter %+v", get.Parameters[0])
	}

	resp, ok := get.Responses["200"]
	if !ok {
		t.Fatal("expected a 200 response")
	}
	schema := resp.ContentSchemas["application/json"]
	if schema["$ref"] != "#/$defs/Pet" {
		t.Fatalf("expected rebased response ref, got %v", schema["$ref"])
	}

	defs := get.SchemaDefs.Definitions()
	pet, ok := defs["Pet"]
	if !ok {
		t.Fatalf("expected Pet in schema definitions, got %v", defs)
	}
	if _, ok := defs["Owner"]; !ok {
		t.Fatalf("expected Owner in schema definitions, got %v", defs)
	}

	petProps := pet.Properties()
	if got := petProps["owner"]["$ref"]; got != "#/$defs/Owner" {
		t.Fatalf("expected nested property ref to survive rebased, got %v", petProps["owner"])
	}
	friends := petProps["friends"]
	items, ok := friends["items"].(map[string]interface{})
	if !ok || items["$ref"] != "#/$defs/Pet" {
		t.Fatalf("expected array items ref to survive rebased, got %v", friends)
	}

	post := routes[byOp["createPet"]]
	if post.RequestBody == nil || !post.RequestBody.Required {
		t.Fatalf("expected required request body, got %+v", post.RequestBody)
	}

	body := post.RequestBody.ContentSchemas["application/json"]
	props := body.Properties()
	tag, ok := props["tag"]
	if !ok {
		t.Fatalf("expected tag property, got %v", props)
	}
	if _, ok := tag["anyOf"]; !ok {
		t.Fatalf("expected nullable tag to become an anyOf union, got %v", tag)
	}
}

func TestParseSpecRejectsUnsupportedVersion(t *testing.T) {
	spec := []byte(`{"swagger": "2.0", "info": {"title": "old", "version": "1"}, "paths": {}}`)

	if _, err := parser.NewParser().ParseSpec(spec); err == nil {
		t.Fatal("expected an error for a swagger 2.0 document")
	}
}

func TestParseSpecYAMLVersionDetection(t *testing.T) {
	spec := []byte("openapi: 3.0.1\ninfo:\n  title: Pets\n  version: 1.0.0\npaths: {}\n")

	routes, err := parser.NewParser().ParseSpec(spec)
	if err != nil {
		t.Fatalf("ParseSpec failed for YAML: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("expected no routes, got %d", len(routes))
	}
}
