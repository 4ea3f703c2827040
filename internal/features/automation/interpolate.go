package automation

import (
	"fmt"
	"strings"
)

// templateFields is the fixed placeholder set recognized by Interpolate,
// mapped to their payload keys.
var templateFields = map[string]string{
	"{{ticket.id}}":              "id",
	"{{ticket.subject}}":         "subject",
	"{{ticket.status}}":          "status",
	"{{ticket.priority}}":        "priority",
	"{{ticket.requester_name}}":  "requester_name",
	"{{ticket.requester_email}}": "requester_email",
	"{{ticket.description}}":     "description",
	"{{ticket.created_at}}":      "created_at",
}

// Interpolate substitutes every occurrence of the recognized placeholders
// with the string form of the corresponding payload field; nil fields render
// empty. Unrecognized placeholders are left verbatim.
func Interpolate(template string, payload map[string]interface{}) string {
	result := template
	for placeholder, key := range templateFields {
		if !strings.Contains(result, placeholder) {
			continue
		}
		result = strings.ReplaceAll(result, placeholder, stringifyField(payload[key]))
	}
	return result
}

func stringifyField(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
