package automation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fieldPaths is the fixed enumeration of condition field paths, mapped to
// their payload keys. Anything else resolves to nil.
var fieldPaths = map[string]string{
	"ticket.id":              "id",
	"ticket.subject":         "subject",
	"ticket.description":     "description",
	"ticket.status":          "status",
	"ticket.priority":        "priority",
	"ticket.requester_name":  "requester_name",
	"ticket.requester_email": "requester_email",
	"ticket.tags":            "tags",
	"ticket.source":          "source",
	"ticket.created_at":      "created_at",
	"ticket.updated_at":      "updated_at",
	"ticket.old_status":      "old_status",
	"ticket.new_status":      "new_status",
	"ticket.old_assignee":    "old_assignee",
	"ticket.new_assignee":    "new_assignee",
}

// EvaluateConditions ANDs all conditions against the payload, short-circuiting
// on the first false. An empty list is true. It never fails: coercions are
// total and an unknown operator evaluates false.
func EvaluateConditions(conditions []Condition, payload map[string]interface{}) bool {
	for _, cond := range conditions {
		if !evaluateCondition(cond, payload) {
			return false
		}
	}
	return true
}

func evaluateCondition(cond Condition, payload map[string]interface{}) bool {
	val := resolveField(cond.Field, payload)

	switch cond.Operator {
	case OperatorEquals:
		return coerceString(val) == coerceString(cond.Value)
	case OperatorNotEquals:
		return coerceString(val) != coerceString(cond.Value)
	case OperatorContains:
		return strings.Contains(strings.ToLower(coerceString(val)), strings.ToLower(coerceString(cond.Value)))
	case OperatorNotContains:
		return !strings.Contains(strings.ToLower(coerceString(val)), strings.ToLower(coerceString(cond.Value)))
	case OperatorGreaterThan:
		a, b := coerceNumber(val), coerceNumber(cond.Value)
		return a > b // false when either side is NaN
	case OperatorLessThan:
		a, b := coerceNumber(val), coerceNumber(cond.Value)
		return a < b
	case OperatorIsEmpty:
		return isEmptyValue(val)
	case OperatorIsNotEmpty:
		return !isEmptyValue(val)
	default:
		// Unknown operator: fail closed
		return false
	}
}

func resolveField(field string, payload map[string]interface{}) interface{} {
	key, ok := fieldPaths[field]
	if !ok {
		return nil
	}
	return payload[key]
}

// coerceString renders any value as a string; nil renders empty, slices join
// with commas.
func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// coerceNumber converts any value to float64; non-numeric input yields NaN so
// ordered comparisons come out false.
func coerceNumber(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// isEmptyValue tests falsy-or-empty-string.
func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	default:
		return false
	}
}
