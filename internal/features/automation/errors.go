package automation

import "fmt"

// ActionExecutionError wraps a collaborator failure during one action. It is
// caught at the rule-processing level; remaining actions of the same rule are
// abandoned, earlier effects stay applied.
type ActionExecutionError struct {
	ActionType ActionType
	Err        error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.ActionType, e.Err)
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Err
}

// RuleParseError marks a stored rule whose condition/action specs do not
// validate into the tagged model. It is surfaced at the rule-processing
// boundary and logged per rule, identically to action errors.
type RuleParseError struct {
	RuleID string
	Reason string
}

func (e *RuleParseError) Error() string {
	return fmt.Sprintf("rule %s has invalid spec: %s", e.RuleID, e.Reason)
}
