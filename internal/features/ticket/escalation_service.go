package ticket

import (
	"context"
	"fmt"
	"time"

	"go-helpdesk/internal/features/notification"
	"go-helpdesk/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// EscalationService sweeps tickets that have breached their SLA due date
// and hands them to an organization admin.
type EscalationService interface {
	ProcessOverdue(ctx context.Context, limit int64) (int, error)
}

// EscalationServiceImpl implements EscalationService
type EscalationServiceImpl struct {
	TicketRepo          TicketRepository
	UserRepo            user.UserRepository
	NotificationService notification.NotificationService
	Trigger             AutomationTrigger
	Logger              *zap.Logger
}

// NewEscalationService creates a new escalation service
func NewEscalationService(
	ticketRepo TicketRepository,
	userRepo user.UserRepository,
	notificationService notification.NotificationService,
	trigger AutomationTrigger,
	logger *zap.Logger,
) EscalationService {
	return &EscalationServiceImpl{
		TicketRepo:          ticketRepo,
		UserRepo:            userRepo,
		NotificationService: notificationService,
		Trigger:             trigger,
		Logger:              logger,
	}
}

// ProcessOverdue escalates tickets past their due date. A ticket is only
// escalated once; the sweep stamps escalated_at so the next run skips it.
func (s *EscalationServiceImpl) ProcessOverdue(ctx context.Context, limit int64) (int, error) {
	tickets, err := s.TicketRepo.FindOverdueSLA(ctx, limit)
	if err != nil {
		return 0, err
	}

	escalated := 0
	for i := range tickets {
		t := &tickets[i]
		if err := s.escalate(ctx, t); err != nil {
			s.Logger.Error("failed to escalate ticket",
				zap.String("ticket_id", t.ID.Hex()),
				zap.Error(err))
			continue
		}
		escalated++
	}

	if escalated > 0 {
		s.Logger.Info("SLA escalation sweep completed",
			zap.Int("escalated", escalated),
			zap.Int("overdue", len(tickets)))
	}
	return escalated, nil
}

func (s *EscalationServiceImpl) escalate(ctx context.Context, t *Ticket) error {
	adminID, err := s.UserRepo.FindAdmin(ctx, t.OrganizationID)
	if err != nil {
		return err
	}
	if adminID == nil {
		// No admin to hand the ticket to; leave it for a manual pass.
		s.Logger.Debug("no admin found for escalation",
			zap.String("organization_id", t.OrganizationID.Hex()))
		return nil
	}

	now := time.Now()
	updates := bson.M{
		"assignee_id":  *adminID,
		"priority":     TicketPriorityHigh,
		"escalated_at": now,
		"updated_at":   now,
	}
	if err := s.TicketRepo.Update(ctx, t.ID, t.OrganizationID, updates); err != nil {
		return err
	}

	oldAssignee := t.AssigneeID
	t.AssigneeID = adminID
	t.Priority = TicketPriorityHigh
	t.EscalatedAt = &now
	t.UpdatedAt = now

	if s.Trigger != nil && !sameAssignee(oldAssignee, adminID) {
		s.Trigger.OnTicketAssigned(ctx, t, oldAssignee, adminID)
	}

	if s.NotificationService != nil {
		_ = s.NotificationService.CreateNotification(
			ctx,
			t.OrganizationID,
			*adminID,
			"Ticket escalated",
			fmt.Sprintf("Ticket %s breached its SLA and was escalated to you", t.TicketNumber),
			notification.NotificationTypeEscalation,
			fmt.Sprintf("/tickets/%s", t.ID.Hex()),
		)
	}
	return nil
}
