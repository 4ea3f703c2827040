package automation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventName identifies a ticket lifecycle event that can arm a rule.
type EventName string

const (
	EventTicketCreated       EventName = "ticket_created"
	EventTicketUpdated       EventName = "ticket_updated"
	EventTicketStatusChanged EventName = "ticket_status_changed"
	EventTicketAssigned      EventName = "ticket_assigned"
	EventCommentAdded        EventName = "comment_added"
)

// ConditionOperator is the comparison applied between a payload field and a
// rule-authored value.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIsEmpty     ConditionOperator = "is_empty"
	OperatorIsNotEmpty  ConditionOperator = "is_not_empty"
)

type ActionType string

const (
	ActionAssignTicket   ActionType = "assign_ticket"
	ActionChangeStatus   ActionType = "change_status"
	ActionChangePriority ActionType = "change_priority"
	ActionAddTags        ActionType = "add_tags"
	ActionSendEmail      ActionType = "send_email"
	ActionAddComment     ActionType = "add_comment"
	ActionEscalate       ActionType = "escalate"
	ActionRunScript      ActionType = "run_script"
)

// Condition is one field-based predicate. All conditions of a trigger must
// hold (logical AND, short-circuiting).
type Condition struct {
	Field    string            `json:"field" bson:"field"`
	Operator ConditionOperator `json:"operator" bson:"operator"`
	Value    interface{}       `json:"value" bson:"value"`
}

// TriggerCondition arms a rule: the event name plus zero or more conditions.
// A rule with no conditions fires unconditionally once its event matches.
type TriggerCondition struct {
	Event      EventName   `json:"event" bson:"event"`
	Conditions []Condition `json:"conditions" bson:"conditions"`
}

// Action is a tagged variant: Type selects which of the payload fields apply.
// Specs are validated into this model at rule-parse time; an unknown type or
// a missing required field fails the rule with a RuleParseError instead of
// surfacing mid-execution.
type Action struct {
	Type ActionType `json:"type" bson:"type"`

	AssigneeID string   `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	Status     string   `json:"status,omitempty" bson:"status,omitempty"`
	Priority   string   `json:"priority,omitempty" bson:"priority,omitempty"`
	Tags       []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Subject    string   `json:"subject,omitempty" bson:"subject,omitempty"`
	Body       string   `json:"body,omitempty" bson:"body,omitempty"`
	EscalateTo string   `json:"escalate_to,omitempty" bson:"escalate_to,omitempty"`
	Script     string   `json:"script,omitempty" bson:"script,omitempty"`
}

// AutomationRule is a stored (trigger condition, action list) pair scoped to
// one organization. Rules are evaluated in ascending Position order and are
// re-read on every event, so updates take effect on the next event.
type AutomationRule struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID   primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Position         int                `json:"position" bson:"position"`
	IsActive         bool               `json:"is_active" bson:"is_active"`
	TriggerCondition TriggerCondition   `json:"trigger_condition" bson:"trigger_condition"`
	Actions          []Action           `json:"actions" bson:"actions"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// Execution log statuses
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// ExecutionLog is the write-only audit record of one rule's outcome for one
// event. The engine never reads it back.
type ExecutionLog struct {
	ID           primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	RuleID       primitive.ObjectID     `json:"rule_id" bson:"rule_id"`
	TriggerData  map[string]interface{} `json:"trigger_data" bson:"trigger_data"`
	Status       string                 `json:"status" bson:"status"`
	ErrorMessage string                 `json:"error_message,omitempty" bson:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
}

// Event is a named ticket lifecycle occurrence. Payload carries the ticket
// row flattened to its enumerated field names plus event-family extras
// (changes, old/new status, old/new assignee, comment).
type Event struct {
	Name           EventName
	OrganizationID primitive.ObjectID
	Payload        map[string]interface{}
}

// RuleOutcome summarizes one processed rule for callers that want to inspect
// engine results. Trigger call sites ignore it.
type RuleOutcome struct {
	RuleID primitive.ObjectID
	Status string
	Err    error
}
