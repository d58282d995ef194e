package executor_test

import (
	"reflect"
	"testing"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/executor"
)

func TestFormatScalar(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"text", "text"},
		{42, "42"},
		{3.5, "3.5"},
		{true, "true"},
		{map[string]interface{}{"a": 1}, `{"a":1}`},
		{[]interface{}{1, 2}, `[1,2]`},
	}

	for _, tc := range cases {
		if got := executor.FormatScalar(tc.in); got != tc.want {
			t.Errorf("FormatScalar(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatArrayParameterStyles(t *testing.T) {
	values := []interface{}{"a", "b", "c"}

	cases := []struct {
		style string
		want  string
	}{
		{executor.StyleSimple, "a,b,c"},
		{executor.StyleForm, "a,b,c"},
		{executor.StyleSpaceDelimited, "a b c"},
		{executor.StylePipeDelimited, "a|b|c"},
	}

	for _, tc := range cases {
		if got := executor.FormatArrayParameter(values, tc.style); got != tc.want {
			t.Errorf("style %s: got %q, want %q", tc.style, got, tc.want)
		}
	}
}

func TestFormatDeepObjectParameterExploded(t *testing.T) {
	got := executor.FormatDeepObjectParameter("filter", map[string]interface{}{
		"id":   123,
		"kind": "user",
	}, true, nil)

	want := map[string]string{
		"filter[id]":   "123",
		"filter[kind]": "user",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFormatDeepObjectParameterNonExplodedFallsBackToJSON(t *testing.T) {
	got := executor.FormatDeepObjectParameter("filter", map[string]interface{}{
		"id": 123,
	}, false, nil)

	want := map[string]string{"filter": `{"id":123}`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected JSON fallback %v, got %v", want, got)
	}
}
