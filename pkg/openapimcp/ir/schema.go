package ir

// Schema is a JSON Schema fragment in its generic decoded form.
type Schema map[string]interface{}

func (s Schema) Type() string {
	if t, ok := s["type"].(string); ok {
		return t
	}
	return ""
}

func (s Schema) Properties() map[string]Schema {
	props := make(map[string]Schema)
	if p, ok := s["properties"].(map[string]interface{}); ok {
		for k, v := range p {
			if m, ok := v.(map[string]interface{}); ok {
				props[k] = m
				continue
			}
			if nested, ok := v.(Schema); ok {
				props[k] = nested
			}
		}
	}
	return props
}

func (s Schema) Required() []string {
	switch req := s["required"].(type) {
	case []interface{}:
		result := make([]string, 0, len(req))
		for _, r := range req {
			if str, ok := r.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case []string:
		return req
	}
	return nil
}

func (s Schema) Definitions() map[string]Schema {
	defs := make(map[string]Schema)
	if d, ok := s["$defs"].(map[string]interface{}); ok {
		for k, v := range d {
			if m, ok := v.(map[string]interface{}); ok {
				defs[k] = m
				continue
			}
			if nested, ok := v.(Schema); ok {
				defs[k] = nested
			}
		}
	}
	if d, ok := s["$defs"].(map[string]Schema); ok {
		for k, v := range d {
			defs[k] = v
		}
	}
	return defs
}

// Clone deep-copies the schema so callers can annotate it without
// mutating the route it came from.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	cloned := make(Schema, len(s))
	for k, v := range s {
		cloned[k] = cloneValue(v)
	}
	return cloned
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = cloneValue(val)
		}
		return m
	case Schema:
		return map[string]interface{}(v.Clone())
	case []interface{}:
		arr := make([]interface{}, len(v))
		for i, val := range v {
			arr[i] = cloneValue(val)
		}
		return arr
	default:
		return value
	}
}
