package ir

// ParameterInfo describes a single declared parameter. Identity is
// (Name, In): two parameters may share a name across locations, and a
// parameter may share its name with a request-body property.
type ParameterInfo struct {
	Name        string
	In          string
	Required    bool
	Schema      Schema
	Description string
	Style       string
	Explode     *bool
}

const (
	ParameterInPath   = "path"
	ParameterInQuery  = "query"
	ParameterInHeader = "header"
	ParameterInCookie = "cookie"

	// ParameterInBody is not an OpenAPI location; it tags request-body
	// properties in the parameter map so dispatch can route them.
	ParameterInBody = "body"
)
