package executor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cast"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

// Serialization styles from the OpenAPI parameter object. Only the
// styles below are recognized; anything else falls back to the
// location default.
const (
	StyleSimple         = "simple"
	StyleForm           = "form"
	StyleDeepObject     = "deepObject"
	StyleSpaceDelimited = "spaceDelimited"
	StylePipeDelimited  = "pipeDelimited"
)

// effectiveStyle resolves the declared style or the location default:
// "simple" for path and header, "form" for query and cookie.
func effectiveStyle(param *ir.ParameterInfo, location string) string {
	if param != nil && param.Style != "" {
		return param.Style
	}
	if location == ir.ParameterInPath || location == ir.ParameterInHeader {
		return StyleSimple
	}
	return StyleForm
}

// effectiveExplode resolves the declared explode flag; an unspecified
// flag defaults to true.
func effectiveExplode(param *ir.ParameterInfo) bool {
	if param != nil && param.Explode != nil {
		return *param.Explode
	}
	return true
}

// FormatScalar renders a single parameter value for the wire.
// Collections become compact JSON so nothing round-trips through Go's
// default map formatting.
func FormatScalar(value interface{}) string {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		if data, err := json.Marshal(value); err == nil {
			return string(data)
		}
	}
	return cast.ToString(value)
}

// FormatArrayParameter joins array elements with the delimiter the
// style dictates. The exploded form is handled by the caller, which
// repeats the key instead.
func FormatArrayParameter(values []interface{}, style string) string {
	delimiter := ","
	switch style {
	case StyleSpaceDelimited:
		delimiter = " "
	case StylePipeDelimited:
		delimiter = "|"
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatScalar(v)
	}
	return strings.Join(parts, delimiter)
}

// FormatDeepObjectParameter expands an object-valued query parameter
// into "name[key]" pairs. deepObject only has a defined meaning with
// explode=true; the explode=false combination degrades to a single
// JSON-encoded value and is logged so spec authors notice.
func FormatDeepObjectParameter(name string, value map[string]interface{}, explode bool, logger *log.Logger) map[string]string {
	result := make(map[string]string, len(value))

	if !explode {
		if logger != nil {
			logger.Warn().
				Str("parameter", name).
				Msg("deepObject style with explode=false is undefined, sending JSON-encoded value")
		}
		result[name] = FormatScalar(value)
		return result
	}

	for key, val := range value {
		result[fmt.Sprintf("%s[%s]", name, key)] = FormatScalar(val)
	}
	return result
}

// formatObjectPairs renders an object as delimiter-joined key,value
// pairs ("k1,v1,k2,v2" for simple/non-exploded form style). Keys are
// sorted so the rendering is stable.
func formatObjectPairs(obj map[string]interface{}, delimiter string) string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(obj)*2)
	for _, key := range keys {
		parts = append(parts, key, FormatScalar(obj[key]))
	}
	return strings.Join(parts, delimiter)
}

// isEmptyValue reports whether a query argument should be elided:
// nil, empty string, empty array, or empty object.
func isEmptyValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	}
	return false
}
