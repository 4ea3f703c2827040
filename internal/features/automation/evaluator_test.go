package automation

import (
	"testing"
)

func TestEvaluateConditionOperators(t *testing.T) {
	payload := map[string]interface{}{
		"subject":         "Printer is on fire",
		"status":          "open",
		"priority":        "high",
		"requester_email": "jo@example.com",
		"tags":            []string{"hardware", "urgent"},
		"description":     "",
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{
			name: "equals match",
			cond: Condition{Field: "ticket.status", Operator: OperatorEquals, Value: "open"},
			want: true,
		},
		{
			name: "equals mismatch",
			cond: Condition{Field: "ticket.status", Operator: OperatorEquals, Value: "closed"},
			want: false,
		},
		{
			name: "not_equals",
			cond: Condition{Field: "ticket.priority", Operator: OperatorNotEquals, Value: "low"},
			want: true,
		},
		{
			name: "contains is case insensitive",
			cond: Condition{Field: "ticket.subject", Operator: OperatorContains, Value: "PRINTER"},
			want: true,
		},
		{
			name: "not_contains",
			cond: Condition{Field: "ticket.subject", Operator: OperatorNotContains, Value: "keyboard"},
			want: true,
		},
		{
			name: "contains matches joined slice",
			cond: Condition{Field: "ticket.tags", Operator: OperatorContains, Value: "hardware"},
			want: true,
		},
		{
			name: "is_empty on empty string",
			cond: Condition{Field: "ticket.description", Operator: OperatorIsEmpty, Value: nil},
			want: true,
		},
		{
			name: "is_empty on missing field",
			cond: Condition{Field: "ticket.new_status", Operator: OperatorIsEmpty, Value: nil},
			want: true,
		},
		{
			name: "is_not_empty",
			cond: Condition{Field: "ticket.requester_email", Operator: OperatorIsNotEmpty, Value: nil},
			want: true,
		},
		{
			name: "unknown field resolves nil and fails equals against non-empty",
			cond: Condition{Field: "ticket.bogus", Operator: OperatorEquals, Value: "open"},
			want: false,
		},
		{
			name: "unknown operator fails closed",
			cond: Condition{Field: "ticket.status", Operator: "matches_regex", Value: ".*"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateCondition(tt.cond, payload)
			if got != tt.want {
				t.Errorf("evaluateCondition(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestEvaluateNumericComparisons(t *testing.T) {
	tests := []struct {
		name     string
		field    interface{}
		operator ConditionOperator
		value    interface{}
		want     bool
	}{
		{"greater_than numeric strings", "10", OperatorGreaterThan, "5", true},
		{"greater_than false when equal", "5", OperatorGreaterThan, "5", false},
		{"less_than mixed types", 3, OperatorLessThan, "4.5", true},
		{"greater_than non-numeric left is false", "abc", OperatorGreaterThan, "1", false},
		{"less_than non-numeric right is false", "1", OperatorLessThan, "abc", false},
		{"greater_than both non-numeric is false", "abc", OperatorGreaterThan, "def", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]interface{}{"priority": tt.field}
			cond := Condition{Field: "ticket.priority", Operator: tt.operator, Value: tt.value}
			if got := evaluateCondition(cond, payload); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateConditionsShortCircuit(t *testing.T) {
	payload := map[string]interface{}{
		"status":   "open",
		"priority": "low",
	}

	// Empty list is vacuously true.
	if !EvaluateConditions(nil, payload) {
		t.Error("empty condition list should evaluate true")
	}

	// All must hold.
	conds := []Condition{
		{Field: "ticket.status", Operator: OperatorEquals, Value: "open"},
		{Field: "ticket.priority", Operator: OperatorEquals, Value: "high"},
	}
	if EvaluateConditions(conds, payload) {
		t.Error("conditions with one false member should evaluate false")
	}

	conds[1].Value = "low"
	if !EvaluateConditions(conds, payload) {
		t.Error("all-true conditions should evaluate true")
	}
}
