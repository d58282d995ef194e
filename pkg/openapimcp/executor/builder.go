package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"

	"github.com/phuslu/log"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
	"github.com/restmap/openapi-mcp/pkg/openapimcp/parser"
)

// contextArgumentKey is reserved for framework plumbing and is never
// forwarded upstream in any location.
const contextArgumentKey = "context"

// RequestBuilder assembles an outgoing HTTP request from tool
// arguments. Resolution runs location by location: path, query,
// header, cookie, then whatever remains becomes the request body.
type RequestBuilder struct {
	route           ir.HTTPRoute
	paramMap        map[string]ir.ParamMapping
	baseURL         string
	bodyContentType string
	logger          *log.Logger
}

func NewRequestBuilder(route ir.HTTPRoute, paramMap map[string]ir.ParamMapping, baseURL string, logger *log.Logger) *RequestBuilder {
	bodyContentType := ""
	if route.RequestBody != nil {
		bodyContentType = parser.PreferredContentType(route.RequestBody.ContentSchemas)
	}

	if logger == nil {
		logger = &log.DefaultLogger
	}

	return &RequestBuilder{
		route:           route,
		paramMap:        paramMap,
		baseURL:         baseURL,
		bodyContentType: bodyContentType,
		logger:          logger,
	}
}

func (rb *RequestBuilder) Build(ctx context.Context, args map[string]interface{}) (*http.Request, error) {
	pathValues := make(map[string]string)
	queryValues := url.Values{}
	headerValues := make(map[string]string)
	cookieValues := make(map[string]string)

	// Body assembly excludes exactly the exposed parameter names plus
	// "context". A value resolved through the bare-name fallback is not
	// consumed: the bare name maps to the body, so it stays there too.
	excluded := map[string]bool{contextArgumentKey: true}

	for i := range rb.route.Parameters {
		param := &rb.route.Parameters[i]
		exposed := rb.exposedName(param)
		excluded[exposed] = true

		value, ok := rb.resolveArgument(args, param, exposed)
		if !ok || value == nil {
			continue
		}

		switch param.In {
		case ir.ParameterInPath:
			pathValues[param.Name] = rb.formatPathValue(param, value)
		case ir.ParameterInQuery:
			rb.addQueryParam(queryValues, param, value)
		case ir.ParameterInHeader:
			headerValues[strings.ToLower(param.Name)] = FormatScalar(value)
		case ir.ParameterInCookie:
			cookieValues[param.Name] = FormatScalar(value)
		}
	}

	if missing := rb.missingPathParameters(pathValues); len(missing) > 0 {
		return nil, fmt.Errorf("missing required path parameter(s): %s", strings.Join(missing, ", "))
	}

	reqURL, err := rb.buildURL(pathValues, queryValues)
	if err != nil {
		return nil, err
	}

	bodyParams := make(map[string]interface{}, len(args))
	for name, value := range args {
		if excluded[name] {
			continue
		}
		bodyParams[name] = value
	}

	bodyReader, contentType, err := rb.buildBody(bodyParams)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, rb.route.Method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for name, value := range headerValues {
		req.Header.Set(name, value)
	}

	for name, value := range cookieValues {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	return req, nil
}

// exposedName returns the argument key callers use for a declared
// parameter: the suffixed form when the parameter map records a
// collision, the bare name otherwise.
func (rb *RequestBuilder) exposedName(param *ir.ParameterInfo) string {
	suffixed := param.Name + "__" + param.In
	if mapping, ok := rb.paramMap[suffixed]; ok &&
		mapping.OpenAPIName == param.Name && mapping.Location == param.In {
		return suffixed
	}
	return param.Name
}

// resolveArgument looks up a declared parameter's value under its
// exposed name first, then under the bare name when the parameter is
// collision-suffixed, so callers unaware of the collision still
// resolve. Bare-named values are left in place for body assembly.
func (rb *RequestBuilder) resolveArgument(args map[string]interface{}, param *ir.ParameterInfo, exposed string) (interface{}, bool) {
	if value, ok := args[exposed]; ok {
		return value, true
	}

	if exposed != param.Name {
		if value, ok := args[param.Name]; ok {
			return value, true
		}
	}

	return nil, false
}

func (rb *RequestBuilder) missingPathParameters(pathValues map[string]string) []string {
	var missing []string
	for _, param := range rb.route.Parameters {
		if param.In != ir.ParameterInPath || !param.Required {
			continue
		}
		if _, ok := pathValues[param.Name]; ok {
			continue
		}
		missing = append(missing, param.Name)
	}

	sort.Strings(missing)
	return missing
}

func (rb *RequestBuilder) formatPathValue(param *ir.ParameterInfo, value interface{}) string {
	style := effectiveStyle(param, ir.ParameterInPath)

	switch v := value.(type) {
	case []interface{}:
		return FormatArrayParameter(v, style)
	case map[string]interface{}:
		return formatObjectPairs(v, ",")
	default:
		return FormatScalar(value)
	}
}

// addQueryParam serializes one query argument. Empty values (nil,
// "", empty collection) are elided so optional parameters the caller
// left blank never reach the upstream API.
func (rb *RequestBuilder) addQueryParam(values url.Values, param *ir.ParameterInfo, value interface{}) {
	if isEmptyValue(value) {
		return
	}

	name := param.Name
	style := effectiveStyle(param, ir.ParameterInQuery)
	explode := effectiveExplode(param)

	switch v := value.(type) {
	case []interface{}:
		if explode {
			for _, item := range v {
				values.Add(name, FormatScalar(item))
			}
			return
		}
		values.Add(name, FormatArrayParameter(v, style))

	case map[string]interface{}:
		if style == StyleDeepObject {
			for key, val := range FormatDeepObjectParameter(name, v, explode, rb.logger) {
				values.Add(key, val)
			}
			return
		}
		values.Add(name, FormatScalar(value))

	default:
		values.Add(name, FormatScalar(value))
	}
}

func (rb *RequestBuilder) buildURL(pathValues map[string]string, queryValues url.Values) (string, error) {
	urlPath := rb.route.Path
	for name, value := range pathValues {
		urlPath = strings.ReplaceAll(urlPath, "{"+name+"}", value)
	}

	fullURL := urlPath
	if rb.baseURL != "" {
		fullURL = strings.TrimSuffix(rb.baseURL, "/") + "/" + strings.TrimPrefix(urlPath, "/")
	}

	parsedURL, err := url.Parse(fullURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if len(queryValues) > 0 {
		parsedURL.RawQuery = queryValues.Encode()
	}

	return parsedURL.String(), nil
}

// buildBody encodes the leftover arguments as the request body. A
// body is sent only when the route declares one and at least one
// value survived; leftovers on body-less routes are dropped loudly.
func (rb *RequestBuilder) buildBody(bodyParams map[string]interface{}) (io.Reader, string, error) {
	for name, value := range bodyParams {
		if value == nil {
			delete(bodyParams, name)
		}
	}

	if len(bodyParams) == 0 {
		return nil, "", nil
	}

	if rb.route.RequestBody == nil {
		names := make([]string, 0, len(bodyParams))
		for name := range bodyParams {
			names = append(names, name)
		}
		sort.Strings(names)
		rb.logger.Warn().
			Str("method", rb.route.Method).
			Str("path", rb.route.Path).
			Strs("arguments", names).
			Msg("discarding arguments: route declares no request body")
		return nil, "", nil
	}

	contentType := rb.bodyContentType
	if contentType == "" {
		contentType = "application/json"
	}

	switch {
	case strings.Contains(contentType, "json"):
		return rb.encodeJSONBody(bodyParams, contentType)
	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		return rb.encodeFormBody(bodyParams)
	case strings.Contains(contentType, "multipart/form-data"):
		return rb.encodeMultipartBody(bodyParams)
	case strings.HasPrefix(contentType, "text/"):
		return rb.encodeTextBody(bodyParams, contentType)
	default:
		return rb.encodeJSONBody(bodyParams, contentType)
	}
}

func (rb *RequestBuilder) encodeJSONBody(body map[string]interface{}, contentType string) (io.Reader, string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(data), contentType, nil
}

func (rb *RequestBuilder) encodeFormBody(body map[string]interface{}) (io.Reader, string, error) {
	values := url.Values{}
	for name, val := range body {
		switch v := val.(type) {
		case []interface{}:
			for _, item := range v {
				values.Add(name, FormatScalar(item))
			}
		default:
			values.Add(name, FormatScalar(val))
		}
	}
	return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
}

func (rb *RequestBuilder) encodeMultipartBody(body map[string]interface{}) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		headers := make(textproto.MIMEHeader)
		headers.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, name))

		part, err := writer.CreatePart(headers)
		if err != nil {
			return nil, "", err
		}

		switch v := body[name].(type) {
		case []byte:
			_, err = part.Write(v)
		case string:
			_, err = io.WriteString(part, v)
		default:
			var data []byte
			if data, err = json.Marshal(v); err == nil {
				_, err = part.Write(data)
			}
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}

func (rb *RequestBuilder) encodeTextBody(body map[string]interface{}, contentType string) (io.Reader, string, error) {
	if len(body) == 1 {
		for _, value := range body {
			return strings.NewReader(FormatScalar(value)), contentType, nil
		}
	}
	return rb.encodeJSONBody(body, contentType)
}
