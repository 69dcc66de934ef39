package common

import "encoding/json"

// EncodeAttributes renders an attribute map for a jsonb column. A nil map is
// stored as an empty object.
func EncodeAttributes(attrs map[string]any) []byte {
	if len(attrs) == 0 {
		return []byte("{}")
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return []byte("{}")
	}
	return b
}

// DecodeAttributes parses a jsonb attribute column. Anything that is not a
// JSON object decodes to an empty map.
func DecodeAttributes(raw []byte) map[string]any {
	attrs := map[string]any{}
	if len(raw) == 0 {
		return attrs
	}
	if err := json.Unmarshal(raw, &attrs); err != nil || attrs == nil {
		return map[string]any{}
	}
	return attrs
}
