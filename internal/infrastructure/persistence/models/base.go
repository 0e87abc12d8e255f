package models

import (
	"encoding/json"
	"strings"
)

// jsonNull is stored for absent documents; jsonb rejects an empty string
const jsonNull = "null"

// jsonText converts raw JSON to a column value
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return jsonNull
	}
	return string(raw)
}

// rawJSON converts a column value back to raw JSON; blank and "null" become nil
func rawJSON(s string) json.RawMessage {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	return json.RawMessage(s)
}

// marshalJSON encodes v for a JSON column; encoding errors store null
func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return jsonNull
	}
	return string(b)
}
