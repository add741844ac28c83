package api

import (
	"bytes"
	"encoding/json"
)

// marshalJSON encodes v using the shared serialization policy. Wire names
// (snake_case) come from struct tags and unset optional fields carry
// omitempty; output is compact and HTML characters are not escaped so that
// email bodies are sent verbatim.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// unmarshalJSON decodes a response body. An empty body leaves v untouched.
func unmarshalJSON(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
