package openapimcp

import (
	"net/http"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/executor"
)

// headerClient decorates a transport with static headers. Declared
// header parameters and MCP-provided headers are set afterwards, so
// they take precedence over these.
type headerClient struct {
	inner   executor.HTTPClient
	headers http.Header
}

func newHeaderClient(inner executor.HTTPClient, headers http.Header) executor.HTTPClient {
	if len(headers) == 0 {
		return inner
	}
	return &headerClient{inner: inner, headers: headers}
}

func (c *headerClient) Do(req *http.Request) (*http.Response, error) {
	for name, values := range c.headers {
		if req.Header.Get(name) != "" {
			continue
		}
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	return c.inner.Do(req)
}
