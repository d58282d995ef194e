package executor

import "encoding/json"

// StructuredPayload is a decoded result that can present itself as a
// JSON object directly.
type StructuredPayload interface {
	AsMap() (map[string]interface{}, bool)
}

// RawPayload is a result that exposes raw bytes to be decoded.
type RawPayload interface {
	RawBytes() []byte
}

// ShapeResult normalizes a decoded response value into the object
// form structured content requires. The probe order is fixed:
// payloads that present themselves as objects, raw byte payloads,
// plain objects, then sequences and scalars, which are wrapped under
// a single "result" key.
//
// forceWrap short-circuits the probe: the value is always wrapped,
// even when it already is an object. It mirrors the wrap marker the
// schema combiner sets on lifted output schemas, so shape and schema
// stay in agreement.
func ShapeResult(value interface{}, forceWrap bool) map[string]interface{} {
	resolved := resolvePayload(value)

	if forceWrap {
		return map[string]interface{}{"result": resolved}
	}

	if m, ok := resolved.(map[string]interface{}); ok {
		return m
	}

	return map[string]interface{}{"result": resolved}
}

func resolvePayload(value interface{}) interface{} {
	if sp, ok := value.(StructuredPayload); ok {
		if m, ok := sp.AsMap(); ok {
			return m
		}
	}

	if rp, ok := value.(RawPayload); ok {
		raw := rp.RawBytes()
		var decoded interface{}
		if json.Unmarshal(raw, &decoded) == nil {
			return decoded
		}
		return string(raw)
	}

	return value
}
