package openapimcp

import (
	"net/http"
	"testing"
	"time"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/mapper"
)

const testSpec = `{
  "openapi": "3.1.0",
  "info": {"title": "Test", "version": "1.0.0"},
  "paths": {
    "/users": {
      "get": {"operationId": "listUsers", "responses": {"200": {"description": "ok"}}}
    },
    "/users/{id}": {
      "get": {
        "operationId": "getUser",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func TestNewServerRegistersComponents(t *testing.T) {
	srv, err := NewServer([]byte(testSpec),
		WithBaseURL("https://api.example.com"),
		WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}

	if srv.MCPServer() == nil {
		t.Fatal("expected an underlying MCP server")
	}
	if srv.options.BaseURL != "https://api.example.com" {
		t.Fatalf("expected BaseURL to be retained, got %q", srv.options.BaseURL)
	}
	if srv.options.Timeout != 5*time.Second {
		t.Fatalf("expected timeout to be retained, got %v", srv.options.Timeout)
	}
}

func TestNewServerWithSmartRouteMaps(t *testing.T) {
	srv, err := NewServer([]byte(testSpec),
		WithRouteMaps(mapper.SmartRouteMappings()),
	)
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	if srv.MCPServer() == nil {
		t.Fatal("expected an underlying MCP server")
	}
}

func TestNewServerRejectsInvalidSpec(t *testing.T) {
	if _, err := NewServer([]byte(`{"not": "a spec"}`)); err == nil {
		t.Fatal("expected an error for an invalid document")
	}
}

type recordingClient struct {
	lastRequest *http.Request
}

func (c *recordingClient) Do(req *http.Request) (*http.Response, error) {
	c.lastRequest = req
	return nil, http.ErrHandlerTimeout
}

func TestHeaderClientAddsBaseHeaders(t *testing.T) {
	inner := &recordingClient{}
	client := newHeaderClient(inner, http.Header{"Authorization": []string{"Bearer token"}})

	req, _ := http.NewRequest("GET", "https://api.example.com/users", nil)
	_, _ = client.Do(req)

	if got := inner.lastRequest.Header.Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected base header to be added, got %q", got)
	}
}

func TestHeaderClientDoesNotOverrideExisting(t *testing.T) {
	inner := &recordingClient{}
	client := newHeaderClient(inner, http.Header{"Authorization": []string{"Bearer base"}})

	req, _ := http.NewRequest("GET", "https://api.example.com/users", nil)
	req.Header.Set("Authorization", "Bearer explicit")
	_, _ = client.Do(req)

	if got := inner.lastRequest.Header.Get("Authorization"); got != "Bearer explicit" {
		t.Fatalf("expected explicit header to win, got %q", got)
	}
}

func TestHeaderClientPassThroughWhenEmpty(t *testing.T) {
	inner := &recordingClient{}
	client := newHeaderClient(inner, nil)

	if client != inner {
		t.Fatalf("expected the inner client to be returned unchanged, got %T", client)
	}
}
