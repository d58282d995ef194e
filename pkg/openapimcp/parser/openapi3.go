package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/restmap/openapi-mcp/pkg/openapimcp/ir"
)

type v3Parser struct {
	components  map[string]ir.Schema
	isOpenAPI30 bool
}

func newV3Parser() *v3Parser {
	return &v3Parser{components: make(map[string]ir.Schema)}
}

var yamlVersionPattern = regexp.MustCompile(`(?m)^\s*["']?openapi["']?\s*:\s*["']?(3\.\d+)`)

func detectVersion(spec []byte) string {
	var raw map[string]interface{}
	if err := json.Unmarshal(spec, &raw); err == nil {
		if v, ok := raw["openapi"].(string); ok {
			return v
		}
		return ""
	}
	if m := yamlVersionPattern.FindSubmatch(spec); m != nil {
		return string(m[1])
	}
	return ""
}

func (p *v3Parser) ParseSpec(spec []byte) ([]ir.HTTPRoute, error) {
	version := detectVersion(spec)
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version %q", version)
	}
	p.isOpenAPI30 = strings.HasPrefix(version, "3.0")

	for k := range p.components {
		delete(p.components, k)
	}

	document, err := libopenapi.NewDocument(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	model, err := document.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("failed to build v3 model: %w", err)
	}

	doc := model.Model
	var routes []ir.HTTPRoute

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schema := range doc.Components.Schemas.FromOldest() {
			p.components[name] = p.convertSchemaProxy(schema)
		}
	}

	if doc.Paths == nil {
		return routes, nil
	}

	for path, pathItem := range doc.Paths.PathItems.FromOldest() {
		if pathItem == nil {
			continue
		}

		commonParams := p.convertParameters(pathItem.Parameters)

		operations := map[string]*v3.Operation{
			"GET":     pathItem.Get,
			"POST":    pathItem.Post,
			"PUT":     pathItem.Put,
			"DELETE":  pathItem.Delete,
			"PATCH":   pathItem.Patch,
			"HEAD":    pathItem.Head,
			"OPTIONS": pathItem.Options,
			"TRACE":   pathItem.Trace,
		}

		for method, operation := range operations {
			if operation == nil {
				continue
			}

			route := ir.HTTPRoute{
				Path:        path,
				Method:      method,
				OperationID: operation.OperationId,
				Summary:     operation.Summary,
				Description: operation.Description,
				Tags:        operation.Tags,
				Parameters:  append(append([]ir.ParameterInfo{}, commonParams...), p.convertParameters(operation.Parameters)...),
				Responses:   p.convertResponses(operation.Responses),
				SchemaDefs:  p.schemaDefinitions(),
			}

			if operation.RequestBody != nil {
				route.RequestBody = p.convertRequestBody(operation.RequestBody)
			}

			routes = append(routes, route)
		}
	}

	return routes, nil
}

func (p *v3Parser) convertParameters(params []*v3.Parameter) []ir.ParameterInfo {
	var result []ir.ParameterInfo
	for _, param := range params {
		if param == nil {
			continue
		}

		info := ir.ParameterInfo{
			Name:        param.Name,
			In:          param.In,
			Required:    param.Required != nil && *param.Required,
			Description: param.Description,
			Style:       param.Style,
		}

		if param.Explode != nil {
			info.Explode = param.Explode
		}

		if param.Schema != nil {
			info.Schema = p.convertSchemaProxy(param.Schema)
		}

		result = append(result, info)
	}
	return result
}

func (p *v3Parser) convertRequestBody(requestBody *v3.RequestBody) *ir.RequestBodyInfo {
	if requestBody == nil {
		return nil
	}

	info := &ir.RequestBodyInfo{
		Required:       requestBody.Required != nil && *requestBody.Required,
		Description:    requestBody.Description,
		ContentSchemas: make(map[string]ir.Schema),
	}

	if requestBody.Content != nil {
		for mediaType, mediaTypeObj := range requestBody.Content.FromOldest() {
			if mediaTypeObj == nil || mediaTypeObj.Schema == nil {
				continue
			}
			info.ContentSchemas[mediaType] = p.convertSchemaProxy(mediaTypeObj.Schema)
		}
	}

	return info
}

func (p *v3Parser) convertResponses(responses *v3.Responses) map[string]ir.ResponseInfo {
	result := make(map[string]ir.ResponseInfo)
	if responses == nil {
		return result
	}

	for status, response := range responses.Codes.FromOldest() {
		if response == nil {
			continue
		}

		info := ir.ResponseInfo{
			Description:    response.Description,
			ContentSchemas: make(map[string]ir.Schema),
		}

		if response.Content != nil {
			for mediaType, mediaTypeObj := range response.Content.FromOldest() {
				if mediaTypeObj == nil || mediaTypeObj.Schema == nil {
					continue
				}
				info.ContentSchemas[mediaType] = p.convertSchemaProxy(mediaTypeObj.Schema)
			}
		}

		result[status] = info
	}

	return result
}

// convertSchemaProxy converts a schema, keeping component references
// intact: a proxy that is a reference becomes a rebased $ref instead
// of its resolved target, so the $defs the route carries stay in use.
func (p *v3Parser) convertSchemaProxy(proxy *base.SchemaProxy) ir.Schema {
	if proxy == nil {
		return nil
	}

	if proxy.IsReference() {
		return ir.Schema{"$ref": convertRef(proxy.GetReference())}
	}

	return p.convertSchemaObject(proxy.Schema())
}

// convertSchemaObject converts an inline schema. The JSON round trip
// in convertSchema resolves every nested reference, so each subschema
// position is re-converted from its proxy afterwards to restore them.
func (p *v3Parser) convertSchemaObject(schema *base.Schema) ir.Schema {
	if schema == nil {
		return nil
	}

	result := p.convertSchema(schema)
	if result == nil {
		return nil
	}

	if schema.Properties != nil && schema.Properties.Len() > 0 {
		props := make(map[string]interface{}, schema.Properties.Len())
		for name, prop := range schema.Properties.FromOldest() {
			props[name] = map[string]interface{}(p.convertSchemaProxy(prop))
		}
		result["properties"] = props
	}

	if schema.Items != nil && schema.Items.IsA() {
		result["items"] = map[string]interface{}(p.convertSchemaProxy(schema.Items.A))
	}

	if schema.AdditionalProperties != nil && schema.AdditionalProperties.IsA() {
		result["additionalProperties"] = map[string]interface{}(p.convertSchemaProxy(schema.AdditionalProperties.A))
	}

	if schema.Not != nil {
		result["not"] = map[string]interface{}(p.convertSchemaProxy(schema.Not))
	}

	for keyword, proxies := range map[string][]*base.SchemaProxy{
		"allOf": schema.AllOf,
		"anyOf": schema.AnyOf,
		"oneOf": schema.OneOf,
	} {
		if len(proxies) == 0 {
			continue
		}
		converted := make([]interface{}, len(proxies))
		for i, item := range proxies {
			converted[i] = map[string]interface{}(p.convertSchemaProxy(item))
		}
		result[keyword] = converted
	}

	return result
}

// convertSchema round-trips the high-level schema through JSON; the
// generic map form is what the combiner and validator operate on.
func (p *v3Parser) convertSchema(schema interface{}) ir.Schema {
	if schema == nil {
		return nil
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}

	var schemaMap map[string]interface{}
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil
	}

	return ConvertToJSONSchema(schemaMap, p.isOpenAPI30)
}

func (p *v3Parser) schemaDefinitions() ir.Schema {
	if len(p.components) == 0 {
		return nil
	}
	return ir.Schema{"$defs": toGenericDefs(p.components)}
}
