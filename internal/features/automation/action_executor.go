package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-helpdesk/internal/features/email"
	"go-helpdesk/internal/features/ticket"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AutomatedAuthorName is stamped on comments created by rules.
const AutomatedAuthorName = "Automation"

// TicketStore is the slice of the ticket repository the executor mutates
// through. Both operations are organization-scoped.
type TicketStore interface {
	Update(ctx context.Context, id, orgID primitive.ObjectID, updates bson.M) error
	GetTags(ctx context.Context, id, orgID primitive.ObjectID) ([]string, error)
}

// CommentStore creates system-authored comments.
type CommentStore interface {
	Create(ctx context.Context, comment *ticket.TicketComment) error
}

// UserDirectory resolves escalation targets.
type UserDirectory interface {
	FindAdmin(ctx context.Context, orgID primitive.ObjectID) (*primitive.ObjectID, error)
}

// EmailSender delivers outbound mail; a send failure surfaces as an error.
type EmailSender interface {
	Send(ctx context.Context, msg email.OutboundEmail) error
}

// ActionExecutor performs one side-effecting operation per action spec.
// Any downstream failure is returned as an ActionExecutionError; the caller
// (the rule processor) decides what to do with it.
type ActionExecutor interface {
	Execute(ctx context.Context, action Action, payload map[string]interface{}, orgID primitive.ObjectID) error
}

type ActionExecutorImpl struct {
	tickets  TicketStore
	comments CommentStore
	users    UserDirectory
	emails   EmailSender
	logger   *zap.Logger
}

func NewActionExecutor(
	tickets TicketStore,
	comments CommentStore,
	users UserDirectory,
	emails EmailSender,
	logger *zap.Logger,
) ActionExecutor {
	return &ActionExecutorImpl{
		tickets:  tickets,
		comments: comments,
		users:    users,
		emails:   emails,
		logger:   logger,
	}
}

func (e *ActionExecutorImpl) Execute(ctx context.Context, action Action, payload map[string]interface{}, orgID primitive.ObjectID) error {
	ticketID, err := payloadTicketID(payload)
	if err != nil {
		return &ActionExecutionError{ActionType: action.Type, Err: err}
	}

	switch action.Type {
	case ActionAssignTicket:
		err = e.executeAssign(ctx, ticketID, orgID, action.AssigneeID)

	case ActionChangeStatus:
		err = e.executeChangeStatus(ctx, ticketID, orgID, action.Status)

	case ActionChangePriority:
		err = e.tickets.Update(ctx, ticketID, orgID, bson.M{"priority": action.Priority})

	case ActionAddTags:
		err = e.executeAddTags(ctx, ticketID, orgID, action.Tags)

	case ActionSendEmail:
		err = e.executeSendEmail(ctx, ticketID, orgID, action, payload)

	case ActionAddComment:
		err = e.executeAddComment(ctx, ticketID, orgID, action)

	case ActionEscalate:
		err = e.executeEscalate(ctx, ticketID, orgID, action)

	case ActionRunScript:
		err = e.executeRunScript(action, payload, orgID)

	default:
		// Parse-time validation keeps unknown types out of here; fail loudly
		// if one slips through anyway.
		err = fmt.Errorf("unsupported action type: %s", action.Type)
	}

	if err != nil {
		return &ActionExecutionError{ActionType: action.Type, Err: err}
	}
	return nil
}

func (e *ActionExecutorImpl) executeAssign(ctx context.Context, ticketID, orgID primitive.ObjectID, assigneeID string) error {
	assignee, err := primitive.ObjectIDFromHex(assigneeID)
	if err != nil {
		return fmt.Errorf("invalid assignee id %q: %w", assigneeID, err)
	}
	return e.tickets.Update(ctx, ticketID, orgID, bson.M{"assignee_id": assignee})
}

func (e *ActionExecutorImpl) executeChangeStatus(ctx context.Context, ticketID, orgID primitive.ObjectID, status string) error {
	updates := bson.M{"status": status}
	// The terminal status stamps its timestamp in the same write.
	if ticket.TicketStatus(status) == ticket.TicketStatusSolved {
		updates["solved_at"] = time.Now()
	}
	return e.tickets.Update(ctx, ticketID, orgID, updates)
}

// executeAddTags is read-modify-write with no locking: concurrent tag
// additions can race and lose an update.
func (e *ActionExecutorImpl) executeAddTags(ctx context.Context, ticketID, orgID primitive.ObjectID, newTags []string) error {
	current, err := e.tickets.GetTags(ctx, ticketID, orgID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(current)+len(newTags))
	merged := make([]string, 0, len(current)+len(newTags))
	for _, tag := range current {
		if !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	for _, tag := range newTags {
		if !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}

	return e.tickets.Update(ctx, ticketID, orgID, bson.M{"tags": merged})
}

func (e *ActionExecutorImpl) executeSendEmail(ctx context.Context, ticketID, orgID primitive.ObjectID, action Action, payload map[string]interface{}) error {
	to, _ := payload["requester_email"].(string)
	if to == "" {
		return errors.New("ticket has no requester email")
	}

	return e.emails.Send(ctx, email.OutboundEmail{
		To:             to,
		Subject:        Interpolate(action.Subject, payload),
		Body:           Interpolate(action.Body, payload),
		OrganizationID: orgID,
		TicketID:       ticketID,
	})
}

func (e *ActionExecutorImpl) executeAddComment(ctx context.Context, ticketID, orgID primitive.ObjectID, action Action) error {
	// Only the ticket id is available to comment templates, a deliberately
	// limited context.
	body := Interpolate(action.Body, map[string]interface{}{"id": ticketID.Hex()})

	return e.comments.Create(ctx, &ticket.TicketComment{
		TicketID:       ticketID,
		OrganizationID: orgID,
		Body:           body,
		AuthorName:     AutomatedAuthorName,
		IsPublic:       false,
		IsAutomated:    true,
	})
}

func (e *ActionExecutorImpl) executeEscalate(ctx context.Context, ticketID, orgID primitive.ObjectID, action Action) error {
	target := action.EscalateTo
	if target == "" {
		adminID, err := e.users.FindAdmin(ctx, orgID)
		if err != nil {
			return err
		}
		if adminID == nil {
			// No explicit target and no admin: silent no-op.
			e.logger.Debug("escalate skipped, no target resolvable",
				zap.String("ticket_id", ticketID.Hex()),
				zap.String("org_id", orgID.Hex()))
			return nil
		}
		target = adminID.Hex()
	}

	if err := e.executeAssign(ctx, ticketID, orgID, target); err != nil {
		return err
	}
	return e.tickets.Update(ctx, ticketID, orgID, bson.M{"priority": string(ticket.TicketPriorityHigh)})
}

func (e *ActionExecutorImpl) executeRunScript(action Action, payload map[string]interface{}, orgID primitive.ObjectID) error {
	script := tengo.NewScript([]byte(action.Script))

	if err := script.Add("ticket", scriptPayload(payload)); err != nil {
		return fmt.Errorf("failed to bind ticket payload: %w", err)
	}
	if err := script.Add("org_id", orgID.Hex()); err != nil {
		return fmt.Errorf("failed to bind org id: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile script: %w", err)
	}

	if err := compiled.Run(); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	return nil
}

// scriptPayload rewrites payload values into shapes tengo can convert.
// Event payloads carry tags as []string, which tengo rejects.
func scriptPayload(payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if strs, ok := v.([]string); ok {
			items := make([]interface{}, len(strs))
			for i, s := range strs {
				items[i] = s
			}
			out[k] = items
			continue
		}
		out[k] = v
	}
	return out
}

func payloadTicketID(payload map[string]interface{}) (primitive.ObjectID, error) {
	raw, _ := payload["id"].(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("payload has no valid ticket id: %w", err)
	}
	return id, nil
}
