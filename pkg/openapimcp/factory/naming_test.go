package factory_test

import (
	"testing"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

func TestGenerateNameFromOperationID(t *testing.T) {
	cf := newFactory()

	route := ir.HTTPRoute{
		Path:        "/users/{id}",
		Method:      "GET",
		OperationID: "getUser__users__id__get",
	}

	tool, err := cf.CreateTool(route, nil)
	if err != nil {
		t.Fatalf("CreateTool failed: %v", err)
	}

	if got := tool.Tool().Name; got != "getUser" {
		t.Fatalf("expected name getUser, got %q", got)
	}
}

func TestGenerateNameDeduplicates(t *testing.T) {
	cf := newFactory()

	route := ir.HTTPRoute{Path: "/users", Method: "GET", OperationID: "listUsers"}

	first, err := cf.CreateTool(route, nil)
	if err != nil {
		t.Fatalf("CreateTool failed: %v", err)
	}
	second, err := cf.CreateTool(route, nil)
	if err != nil {
		t.Fatalf("CreateTool failed: %v", err)
	}

	if first.Tool().Name != "listUsers" {
		t.Fatalf("expected first name listUsers, got %q", first.Tool().Name)
	}
	if second.Tool().Name != "listUsers_2" {
		t.Fatalf("expected second name listUsers_2, got %q", second.Tool().Name)
	}
}

func TestGenerateNameFallsBackToMethodAndPath(t *testing.T) {
	cf := newFactory()

	route := ir.HTTPRoute{Path: "/orders/{orderId}/items", Method: "POST"}

	tool, err := cf.CreateTool(route, nil)
	if err != nil {
		t.Fatalf("CreateTool failed: %v", err)
	}

	if got := tool.Tool().Name; got != "post_orders_orderId_items" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}

func TestGenerateNameFromSummarySlugified(t *testing.T) {
	cf := newFactory()

	route := ir.HTTPRoute{
		Path:    "/reports",
		Method:  "GET",
		Summary: "Fetch Weekly Report (v2)",
	}

	tool, err := cf.CreateTool(route, nil)
	if err != nil {
		t.Fatalf("CreateTool failed: %v", err)
	}

	if got := tool.Tool().Name; got != "Fetch_Weekly_Report_v2" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestCustomNamesOverrideGeneratedNames(t *testing.T) {
	cf := newFactory().WithCustomNames(map[string]string{
		"GET /users": "user_directory",
	})

	route := ir.HTTPRoute{Path: "/users", Method: "GET", OperationID: "listUsers"}

	tool, err := cf.CreateTool(route, nil)
	if err != nil {
		t.Fatalf("CreateTool failed: %v", err)
	}

	if got := tool.Tool().Name; got != "user_directory" {
		t.Fatalf("expected custom name user_directory, got %q", got)
	}
}
