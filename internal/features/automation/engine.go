package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RuleSource is the slice of the rule repository the engine reads from.
type RuleSource interface {
	ListActive(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error)
}

// ExecutionLogStore appends audit records; entries are never read back here.
type ExecutionLogStore interface {
	Append(ctx context.Context, entry *ExecutionLog) error
}

// Engine orchestrates rule processing for ticket lifecycle events. Rules are
// fetched fresh per event, evaluated in ascending position order, and matching
// rules' actions run sequentially. Nothing in here ever propagates an error to
// the mutation that fired the event.
type Engine struct {
	rules    RuleSource
	logs     ExecutionLogStore
	executor ActionExecutor
	logger   *zap.Logger

	// inflight is a best-effort per-(organization, event) reentrancy guard.
	// It is process-local: it does not provide mutual exclusion across
	// replicas and is not a correctness mechanism.
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewEngine(rules RuleSource, logs ExecutionLogStore, executor ActionExecutor, logger *zap.Logger) *Engine {
	return &Engine{
		rules:    rules,
		logs:     logs,
		executor: executor,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Execute runs all active rules of the organization against the event and
// returns a per-rule outcome summary. Callers on the mutation path ignore the
// return value; it exists for observability.
func (e *Engine) Execute(ctx context.Context, event Event) []RuleOutcome {
	key := event.OrganizationID.Hex() + ":" + string(event.Name)
	if !e.acquire(key) {
		e.logger.Debug("automation already in flight, skipping",
			zap.String("event", string(event.Name)),
			zap.String("org_id", event.OrganizationID.Hex()))
		return nil
	}
	defer e.release(key)

	rules, err := e.rules.ListActive(ctx, event.OrganizationID)
	if err != nil {
		e.logger.Error("failed to load automation rules",
			zap.String("event", string(event.Name)),
			zap.String("org_id", event.OrganizationID.Hex()),
			zap.Error(err))
		return nil
	}

	if len(rules) == 0 {
		return nil
	}

	outcomes := make([]RuleOutcome, 0, len(rules))
	for i := range rules {
		outcome, processed := e.processRule(ctx, &rules[i], event)
		if processed {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// processRule handles one rule: parse, trigger check, action execution, and
// the audit log entry. The bool result reports whether the rule produced a
// log entry (triggered or failed to parse); skipped rules leave no trace.
func (e *Engine) processRule(ctx context.Context, rule *AutomationRule, event Event) (RuleOutcome, bool) {
	if err := validateRule(rule); err != nil {
		e.logger.Warn("automation rule failed to parse",
			zap.String("rule_id", rule.ID.Hex()),
			zap.Error(err))
		e.appendLog(ctx, rule, event, ExecutionStatusError, err)
		return RuleOutcome{RuleID: rule.ID, Status: ExecutionStatusError, Err: err}, true
	}

	if rule.TriggerCondition.Event != event.Name {
		return RuleOutcome{}, false
	}
	if !EvaluateConditions(rule.TriggerCondition.Conditions, event.Payload) {
		return RuleOutcome{}, false
	}

	for _, action := range rule.Actions {
		if err := e.executor.Execute(ctx, action, event.Payload, event.OrganizationID); err != nil {
			// Remaining actions of this rule are abandoned; earlier effects
			// stay applied. The next rule still runs.
			e.logger.Warn("automation action failed",
				zap.String("rule_id", rule.ID.Hex()),
				zap.String("rule", rule.Name),
				zap.Error(err))
			e.appendLog(ctx, rule, event, ExecutionStatusError, err)
			return RuleOutcome{RuleID: rule.ID, Status: ExecutionStatusError, Err: err}, true
		}
	}

	e.appendLog(ctx, rule, event, ExecutionStatusSuccess, nil)
	return RuleOutcome{RuleID: rule.ID, Status: ExecutionStatusSuccess}, true
}

func (e *Engine) appendLog(ctx context.Context, rule *AutomationRule, event Event, status string, execErr error) {
	triggerData := make(map[string]interface{}, len(event.Payload)+1)
	for k, v := range event.Payload {
		triggerData[k] = v
	}
	triggerData["event"] = string(event.Name)

	entry := &ExecutionLog{
		RuleID:      rule.ID,
		TriggerData: triggerData,
		Status:      status,
	}
	if execErr != nil {
		entry.ErrorMessage = execErr.Error()
	}

	if err := e.logs.Append(ctx, entry); err != nil {
		e.logger.Warn("failed to write automation execution log",
			zap.String("rule_id", rule.ID.Hex()),
			zap.Error(err))
	}
}

func (e *Engine) acquire(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[key]; busy {
		return false
	}
	e.inflight[key] = struct{}{}
	return true
}

func (e *Engine) release(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, key)
}

// validateRule checks stored action specs against the tagged model. Malformed
// specs fail the whole rule here, before any evaluation, with a RuleParseError.
// Conditions need no validation: unknown fields and operators fail closed.
func validateRule(rule *AutomationRule) error {
	for i, action := range rule.Actions {
		if err := validateAction(action); err != nil {
			return &RuleParseError{
				RuleID: rule.ID.Hex(),
				Reason: fmt.Sprintf("action %d: %v", i, err),
			}
		}
	}
	return nil
}

func validateAction(action Action) error {
	switch action.Type {
	case ActionAssignTicket:
		if _, err := primitive.ObjectIDFromHex(action.AssigneeID); err != nil {
			return fmt.Errorf("assign_ticket requires a valid assignee_id")
		}
	case ActionChangeStatus:
		if action.Status == "" {
			return fmt.Errorf("change_status requires a status")
		}
	case ActionChangePriority:
		if action.Priority == "" {
			return fmt.Errorf("change_priority requires a priority")
		}
	case ActionAddTags:
		if len(action.Tags) == 0 {
			return fmt.Errorf("add_tags requires at least one tag")
		}
	case ActionSendEmail:
		if action.Subject == "" && action.Body == "" {
			return fmt.Errorf("send_email requires a subject or body template")
		}
	case ActionAddComment:
		if action.Body == "" {
			return fmt.Errorf("add_comment requires a body template")
		}
	case ActionEscalate:
		if action.EscalateTo != "" {
			if _, err := primitive.ObjectIDFromHex(action.EscalateTo); err != nil {
				return fmt.Errorf("escalate_to is not a valid user id")
			}
		}
	case ActionRunScript:
		if action.Script == "" {
			return fmt.Errorf("run_script requires a script")
		}
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
	return nil
}

// --- trigger integration: ticket.AutomationTrigger ---

// OnTicketCreated fires the ticket_created event.
func (e *Engine) OnTicketCreated(ctx context.Context, t *ticket.Ticket) {
	e.Execute(ctx, Event{
		Name:           EventTicketCreated,
		OrganizationID: t.OrganizationID,
		Payload:        buildTicketPayload(t),
	})
}

// OnTicketUpdated fires the generic ticket_updated event with the applied
// changes attached.
func (e *Engine) OnTicketUpdated(ctx context.Context, t *ticket.Ticket, changes map[string]interface{}) {
	payload := buildTicketPayload(t)
	payload["changes"] = changes
	e.Execute(ctx, Event{
		Name:           EventTicketUpdated,
		OrganizationID: t.OrganizationID,
		Payload:        payload,
	})
}

// OnTicketStatusChanged fires ticket_status_changed with old/new status.
func (e *Engine) OnTicketStatusChanged(ctx context.Context, t *ticket.Ticket, oldStatus, newStatus ticket.TicketStatus) {
	payload := buildTicketPayload(t)
	payload["old_status"] = string(oldStatus)
	payload["new_status"] = string(newStatus)
	e.Execute(ctx, Event{
		Name:           EventTicketStatusChanged,
		OrganizationID: t.OrganizationID,
		Payload:        payload,
	})
}

// OnTicketAssigned fires ticket_assigned with old/new assignee.
func (e *Engine) OnTicketAssigned(ctx context.Context, t *ticket.Ticket, oldAssignee, newAssignee *primitive.ObjectID) {
	payload := buildTicketPayload(t)
	if oldAssignee != nil {
		payload["old_assignee"] = oldAssignee.Hex()
	}
	if newAssignee != nil {
		payload["new_assignee"] = newAssignee.Hex()
	}
	e.Execute(ctx, Event{
		Name:           EventTicketAssigned,
		OrganizationID: t.OrganizationID,
		Payload:        payload,
	})
}

// OnCommentAdded fires comment_added with the new comment attached.
func (e *Engine) OnCommentAdded(ctx context.Context, t *ticket.Ticket, comment *ticket.TicketComment) {
	payload := buildTicketPayload(t)
	payload["comment"] = map[string]interface{}{
		"id":          comment.ID.Hex(),
		"body":        comment.Body,
		"author_name": comment.AuthorName,
		"is_public":   comment.IsPublic,
	}
	e.Execute(ctx, Event{
		Name:           EventCommentAdded,
		OrganizationID: t.OrganizationID,
		Payload:        payload,
	})
}

func buildTicketPayload(t *ticket.Ticket) map[string]interface{} {
	payload := map[string]interface{}{
		"id":              t.ID.Hex(),
		"ticket_number":   t.TicketNumber,
		"subject":         t.Subject,
		"description":     t.Description,
		"status":          string(t.Status),
		"priority":        string(t.Priority),
		"source":          string(t.Source),
		"requester_name":  t.RequesterName,
		"requester_email": t.RequesterEmail,
		"tags":            append([]string(nil), t.Tags...),
		"created_at":      t.CreatedAt.Format(time.RFC3339),
		"updated_at":      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.AssigneeID != nil {
		payload["assignee_id"] = t.AssigneeID.Hex()
	}
	return payload
}
