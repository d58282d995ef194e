package ir

// RequestBodyInfo carries the request body declaration of a route. Only
// one media type is consulted when deriving body properties; see
// parser.PreferredContentType for the selection order.
type RequestBodyInfo struct {
	Required       bool
	ContentSchemas map[string]Schema
	Description    string
}

// ResponseInfo carries one response declaration keyed by status code.
type ResponseInfo struct {
	Description    string
	ContentSchemas map[string]Schema
}
