package convert

import (
	"encoding/json"
	"strings"
)

// extractJSON isolates the JSON payload from a model reply. The reply is
// usually a bare object (the assistant turn is prefilled with a ```json
// fence), but the model may still wrap it in fences or append prose, so the
// payload is cut from the first opening brace and decoded as one value.
func extractJSON(reply string) (string, error) {
	start := strings.IndexByte(reply, '{')
	if start < 0 {
		return "", &MalformedResponseError{Reason: "no JSON object in model reply"}
	}

	dec := json.NewDecoder(strings.NewReader(reply[start:]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err == nil {
		return string(raw), nil
	}

	// Truncated or interleaved output: fall back to the outermost brace pair.
	end := strings.LastIndexByte(reply, '}')
	if end > start && json.Valid([]byte(reply[start:end+1])) {
		return reply[start : end+1], nil
	}

	return "", &MalformedResponseError{Reason: "model reply is not valid JSON"}
}
