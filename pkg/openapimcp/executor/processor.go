package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/phuslu/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// ResponseProcessor interprets an upstream response: non-success
// statuses become error results, JSON bodies become structured
// content shaped and validated against the output schema, everything
// else is returned as text.
type ResponseProcessor struct {
	outputSchema ir.Schema
	wrapResult   bool
	validator    *jsonschema.Schema
	logger       *log.Logger
}

func NewResponseProcessor(outputSchema ir.Schema, wrapResult bool, logger *log.Logger) *ResponseProcessor {
	if logger == nil {
		logger = &log.DefaultLogger
	}

	var validator *jsonschema.Schema
	if outputSchema != nil {
		validator = compileOutputValidator(outputSchema, logger)
	}

	return &ResponseProcessor{
		outputSchema: outputSchema,
		wrapResult:   wrapResult,
		validator:    validator,
		logger:       logger,
	}
}

func (rp *ResponseProcessor) Process(resp *http.Response) (*mcp.CallToolResult, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResult("Failed to read response body: " + err.Error()), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorResult(NewHTTPError(resp.StatusCode, body).Error()), nil
	}

	if len(body) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("")},
		}, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(body))},
		}, nil
	}

	structured := ShapeResult(decoded, rp.wrapResult)

	if rp.validator != nil {
		if err := rp.validator.Validate(toValidatable(structured)); err != nil {
			return errorResult("Response validation failed: " + err.Error()), nil
		}
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(string(body))},
		StructuredContent: structured,
	}, nil
}

// toValidatable re-normalizes the shaped value so validation sees
// exactly what a JSON round trip would produce.
func toValidatable(structured map[string]interface{}) interface{} {
	data, err := json.Marshal(structured)
	if err != nil {
		return structured
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return structured
	}
	return value
}

// compileOutputValidator compiles the output schema once per
// component. An uncompilable schema disables validation for the
// component rather than failing every call.
func compileOutputValidator(schema ir.Schema, logger *log.Logger) *jsonschema.Schema {
	data, err := json.Marshal(schema)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping output validation: schema not serializable")
		return nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("output.json", bytes.NewReader(data)); err != nil {
		logger.Warn().Err(err).Msg("skipping output validation: schema not loadable")
		return nil
	}

	validator, err := compiler.Compile("output.json")
	if err != nil {
		logger.Warn().Err(fmt.Errorf("compile output schema: %w", err)).Msg("skipping output validation")
		return nil
	}

	return validator
}
