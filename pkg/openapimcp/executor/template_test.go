package executor_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/executor"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

func newTemplate(route ir.HTTPRoute, client executor.HTTPClient) *executor.OpenAPIResourceTemplate {
	runtime := executor.NewRuntime(client, "https://api.example.com")
	return executor.NewOpenAPIResourceTemplate("widget", "widget by id", route, nil, runtime)
}

func TestTemplateURIListsParametersSorted(t *testing.T) {
	route := ir.HTTPRoute{
		Path:   "/orgs/{org}/users/{id}",
		Method: "GET",
		Parameters: []ir.ParameterInfo{
			{Name: "org", In: "path", Required: true},
			{Name: "id", In: "path", Required: true},
		},
	}

	template := newTemplate(route, &mockHTTPClient{})

	want := "resource://widget/{id}/{org}"
	if got := template.Template().URITemplate.Raw(); got != want {
		t.Fatalf("expected URI template %q, got %q", want, got)
	}
}

func TestRecoverPathParamsFromTrailingSegments(t *testing.T) {
	route := ir.HTTPRoute{
		Path:   "/orgs/{org}/users/{id}",
		Method: "GET",
		Parameters: []ir.ParameterInfo{
			{Name: "org", In: "path", Required: true},
			{Name: "id", In: "path", Required: true},
		},
	}

	template := newTemplate(route, &mockHTTPClient{})

	params, err := template.RecoverPathParams("resource://widget/42/acme")
	if err != nil {
		t.Fatalf("recovery failed: %v", err)
	}

	if params["id"] != "42" || params["org"] != "acme" {
		t.Fatalf("unexpected params %v", params)
	}
}

func TestRecoverPathParamsRejectsShortURI(t *testing.T) {
	route := ir.HTTPRoute{
		Path:   "/users/{id}",
		Method: "GET",
		Parameters: []ir.ParameterInfo{
			{Name: "id", In: "path", Required: true},
		},
	}

	template := newTemplate(route, &mockHTTPClient{})

	if _, err := template.RecoverPathParams(""); err == nil {
		t.Fatal("expected an error for a URI with too few segments")
	}
}

func TestReadWithParamsSubstitutesPath(t *testing.T) {
	route := ir.HTTPRoute{
		Path:   "/users/{id}",
		Method: "GET",
		Parameters: []ir.ParameterInfo{
			{Name: "id", In: "path", Required: true},
		},
	}

	client := &mockHTTPClient{
		response: &http.Response{
			StatusCode: 200,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"id":"42"}`))),
		},
	}
	template := newTemplate(route, client)

	content, err := template.ReadWithParams(context.Background(), map[string]string{"id": "42"})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if client.lastRequest.URL.Path != "/users/42" {
		t.Fatalf("expected upstream path /users/42, got %q", client.lastRequest.URL.Path)
	}
	if content == "" {
		t.Fatal("expected non-empty content")
	}
}

func TestReadWithParamsRejectsUnresolvedPlaceholders(t *testing.T) {
	route := ir.HTTPRoute{
		Path:   "/users/{id}",
		Method: "GET",
		Parameters: []ir.ParameterInfo{
			{Name: "id", In: "path", Required: true},
		},
	}

	template := newTemplate(route, &mockHTTPClient{})

	if _, err := template.ReadWithParams(context.Background(), nil); err == nil {
		t.Fatal("expected an error for unresolved placeholders")
	}
}
