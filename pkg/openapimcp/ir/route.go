package ir

// HTTPRoute is the immutable description of one HTTP operation as
// extracted from an OpenAPI document. It is never mutated after route
// extraction; the component that wraps it owns it for its lifetime.
type HTTPRoute struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Parameters  []ParameterInfo
	RequestBody *RequestBodyInfo
	Responses   map[string]ResponseInfo
	SchemaDefs  Schema
}

// ParamMapping records, for one externally visible argument name, the
// declared parameter name and wire location it resolves to. The mapping
// is the contract between schema generation and request dispatch: every
// key a caller may supply appears exactly once.
type ParamMapping struct {
	OpenAPIName string
	Location    string
	IsSuffixed  bool
}

// WrapResultExtension marks an output schema whose instances must be
// wrapped under a single "result" key before being returned.
const WrapResultExtension = "x-restmap-wrap-result"
