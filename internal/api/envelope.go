package api

import (
	"bytes"
	"encoding/json"
)

// unwrapEnvelope normalizes a success body. Both {success, data} and
// {data} objects yield their "data" member; any other body (arrays,
// scalars, objects without "data") is returned verbatim.
func unwrapEnvelope(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return trimmed
	}

	if data, ok := fields["data"]; ok {
		return data
	}
	return trimmed
}

// errorMessage extracts the "error" field of a failure body, falling back
// to a generic message.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return msgRequestFailed
}
