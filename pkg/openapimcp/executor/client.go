package executor

import (
	"net/http"
	"time"

	"github.com/phuslu/log"
)

// HTTPClient abstracts the transport so tests and callers can swap in
// their own implementation (auth wrappers, recorded transports).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct {
	client *http.Client
}

func NewDefaultHTTPClient() *DefaultHTTPClient {
	return &DefaultHTTPClient{client: &http.Client{}}
}

func (c *DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// DefaultRequestTimeout bounds a single upstream call when no explicit
// timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// Runtime bundles everything a component needs to execute requests.
// One runtime is shared by all components created from the same server.
type Runtime struct {
	Client  HTTPClient
	BaseURL string
	Timeout time.Duration
	Logger  *log.Logger
}

func NewRuntime(client HTTPClient, baseURL string) *Runtime {
	rt := &Runtime{
		Client:  client,
		BaseURL: baseURL,
		Timeout: DefaultRequestTimeout,
		Logger:  &log.DefaultLogger,
	}
	if rt.Client == nil {
		rt.Client = NewDefaultHTTPClient()
	}
	return rt
}

func (rt *Runtime) WithTimeout(timeout time.Duration) *Runtime {
	if timeout > 0 {
		rt.Timeout = timeout
	}
	return rt
}

func (rt *Runtime) WithLogger(logger *log.Logger) *Runtime {
	if logger != nil {
		rt.Logger = logger
	}
	return rt
}
