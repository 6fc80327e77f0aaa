package dispatch

import (
	"encoding/json"
	"strings"
)

const redacted = "[REDACTED]"

// secretKeys are matched case-insensitively as substrings of object keys.
var secretKeys = []string{
	"password",
	"secret",
	"token",
	"private_key",
	"api_key",
	"apikey",
	"client_key",
	"passphrase",
	"credential",
}

// redactBody renders v as JSON with secret-looking values replaced. It is
// only used for debug logging of request bodies.
func redactBody(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	out, err := json.Marshal(redactValue(payload))
	if err != nil {
		return ""
	}
	return string(out)
}

// redactValue recursively redacts nested payloads.
func redactValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		output := make(map[string]any, len(v))
		for key, item := range v {
			if isSecretKey(key) {
				output[key] = redacted
				continue
			}
			output[key] = redactValue(item)
		}
		return output
	case []any:
		result := make([]any, 0, len(v))
		for _, item := range v {
			result = append(result, redactValue(item))
		}
		return result
	default:
		return value
	}
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
