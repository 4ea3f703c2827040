package ticket

import (
	"context"
	"testing"
	"time"

	"go-helpdesk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	adminID *primitive.ObjectID
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *fakeUserRepo) FindByID(ctx context.Context, id, orgID primitive.ObjectID) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string, orgID primitive.ObjectID) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context, orgID primitive.ObjectID, limit, offset int64) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) FindAdmin(ctx context.Context, orgID primitive.ObjectID) (*primitive.ObjectID, error) {
	return r.adminID, nil
}

func TestProcessOverdueEscalatesBreachedTickets(t *testing.T) {
	repo := newFakeTicketRepo()
	users := &fakeUserRepo{}
	adminID := primitive.NewObjectID()
	users.adminID = &adminID
	notifier := &fakeNotifier{}
	trigger := &recordingTrigger{}

	svc := NewEscalationService(repo, users, notifier, trigger, zap.NewNop())

	orgID := primitive.NewObjectID()
	past := time.Now().Add(-2 * time.Hour)
	future := time.Now().Add(2 * time.Hour)

	overdue := &Ticket{OrganizationID: orgID, Subject: "breached", Status: TicketStatusOpen, DueDate: &past}
	onTime := &Ticket{OrganizationID: orgID, Subject: "fine", Status: TicketStatusOpen, DueDate: &future}
	solved := &Ticket{OrganizationID: orgID, Subject: "done", Status: TicketStatusSolved, DueDate: &past}
	repo.Create(context.Background(), overdue)
	repo.Create(context.Background(), onTime)
	repo.Create(context.Background(), solved)

	escalated, err := svc.ProcessOverdue(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if escalated != 1 {
		t.Fatalf("escalated = %d, want 1", escalated)
	}

	got, _ := repo.FindByID(context.Background(), overdue.ID, orgID)
	if got.AssigneeID == nil || *got.AssigneeID != adminID {
		t.Errorf("assignee = %v, want %v", got.AssigneeID, adminID)
	}
	if got.Priority != TicketPriorityHigh {
		t.Errorf("priority = %s", got.Priority)
	}
	if got.EscalatedAt == nil {
		t.Error("escalated_at not stamped")
	}
	if notifier.created != 1 {
		t.Errorf("notifications = %d", notifier.created)
	}
	if len(trigger.events) != 1 || trigger.events[0] != "assigned" {
		t.Errorf("events = %v", trigger.events)
	}

	// Second sweep finds nothing new.
	escalated, err = svc.ProcessOverdue(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if escalated != 0 {
		t.Errorf("second sweep escalated = %d, want 0", escalated)
	}
}

func TestProcessOverdueWithoutAdminLeavesTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	users := &fakeUserRepo{}
	notifier := &fakeNotifier{}
	trigger := &recordingTrigger{}

	svc := NewEscalationService(repo, users, notifier, trigger, zap.NewNop())

	orgID := primitive.NewObjectID()
	past := time.Now().Add(-time.Hour)
	overdue := &Ticket{OrganizationID: orgID, Subject: "breached", Status: TicketStatusOpen, DueDate: &past}
	repo.Create(context.Background(), overdue)

	escalated, err := svc.ProcessOverdue(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if escalated != 1 {
		// The sweep visits the ticket; with no admin it is a per-ticket no-op
		// that still counts as handled without error.
		t.Fatalf("escalated = %d, want 1", escalated)
	}

	got, _ := repo.FindByID(context.Background(), overdue.ID, orgID)
	if got.AssigneeID != nil || got.EscalatedAt != nil {
		t.Error("ticket should be untouched when no admin exists")
	}
	if notifier.created != 0 {
		t.Errorf("notifications = %d, want 0", notifier.created)
	}
}
