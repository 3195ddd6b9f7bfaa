package utils

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
)

// CleanJSON removes markdown code blocks from a string to extract raw JSON.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			// drop the ```json opener and the closing fence
			if strings.HasPrefix(lines[0], "```") {
				lines = lines[1:]
			}
			if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
				lines = lines[:len(lines)-1]
			}
			s = strings.Join(lines, "\n")
		}
	}
	return strings.TrimSpace(s)
}

// ParseObject strictly parses a model reply as a single JSON object. Surrounding
// whitespace, a markdown fence, or one layer of JSON string quoting are
// tolerated; anything else yields an empty object and ok=false. The failure is
// logged rather than returned.
func ParseObject(raw string) (obj map[string]any, ok bool) {
	s := CleanJSON(raw)

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		logParseFailure(raw, err)
		return map[string]any{}, false
	}

	// double-encoded replies: "{\"a\":1}"
	if inner, isString := v.(string); isString {
		if err := json.Unmarshal([]byte(strings.TrimSpace(inner)), &v); err != nil {
			logParseFailure(raw, err)
			return map[string]any{}, false
		}
	}

	m, isObject := v.(map[string]any)
	if !isObject {
		log.Warn("model reply is valid JSON but not an object", "reply", LimitStr(raw, 200))
		return map[string]any{}, false
	}
	return m, true
}

// StringField returns obj[key] when it is a non-blank string.
func StringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func logParseFailure(raw string, err error) {
	log.Warn("failed to parse model reply as JSON", "error", err, "length", len(raw), "reply", LimitStr(raw, 200))
	if log.GetLevel() <= log.DebugLevel {
		for i, chunk := range ChunkText(raw, 1024) {
			log.Debug("model reply", "part", i+1, "text", chunk)
		}
	}
}
