package executor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// HTTPError carries a non-success upstream response. The message
// format is part of the caller-visible contract: agents pattern-match
// on it to decide whether to retry with different arguments.
type HTTPError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Reason)
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// NewHTTPError builds an HTTPError from a response status and raw
// body. JSON bodies are re-encoded compactly so the message stays on
// one line; anything else is passed through as text.
func NewHTTPError(statusCode int, body []byte) *HTTPError {
	reason := http.StatusText(statusCode)
	if reason == "" {
		reason = "Unknown"
	}

	bodyText := strings.TrimSpace(string(body))
	if bodyText != "" {
		var parsed interface{}
		if json.Unmarshal(body, &parsed) == nil {
			if compact, err := json.Marshal(parsed); err == nil {
				bodyText = string(compact)
			}
		}
	}

	return &HTTPError{
		StatusCode: statusCode,
		Reason:     reason,
		Body:       bodyText,
	}
}

// errorResult converts an error into the MCP error shape. Tool errors
// are results with IsError set, never protocol-level failures.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
	}
}

// requestErrorResult reports transport-level failures (connection
// refused, timeout, DNS) distinctly from HTTP status errors.
func requestErrorResult(err error) *mcp.CallToolResult {
	return errorResult("Request error: " + err.Error())
}
