package ticket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-helpdesk/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeTicketRepo struct {
	tickets map[primitive.ObjectID]*Ticket
	nextSeq int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[primitive.ObjectID]*Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, t *Ticket) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	copied := *t
	r.tickets[t.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) FindByID(ctx context.Context, id, orgID primitive.ObjectID) (*Ticket, error) {
	t, ok := r.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return nil, ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTicketRepo) FindAll(ctx context.Context, orgID primitive.ObjectID, filter bson.M, page, limit int64, sortBy, sortOrder string) ([]Ticket, int64, error) {
	var out []Ticket
	for _, t := range r.tickets {
		if t.OrganizationID == orgID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, id, orgID primitive.ObjectID, updates bson.M) error {
	t, ok := r.tickets[id]
	if !ok || t.OrganizationID != orgID {
		return ErrTicketNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			switch s := v.(type) {
			case TicketStatus:
				t.Status = s
			case string:
				t.Status = TicketStatus(s)
			}
		case "priority":
			switch p := v.(type) {
			case TicketPriority:
				t.Priority = p
			case string:
				t.Priority = TicketPriority(p)
			}
		case "assignee_id":
			switch a := v.(type) {
			case primitive.ObjectID:
				t.AssigneeID = &a
			case nil:
				t.AssigneeID = nil
			}
		case "solved_at":
			if ts, ok := v.(time.Time); ok {
				t.SolvedAt = &ts
			}
		case "closed_at":
			if ts, ok := v.(time.Time); ok {
				t.ClosedAt = &ts
			}
		case "escalated_at":
			if ts, ok := v.(time.Time); ok {
				t.EscalatedAt = &ts
			}
		case "tags":
			if tags, ok := v.([]string); ok {
				t.Tags = tags
			}
		}
	}
	t.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, id, orgID primitive.ObjectID) error {
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) GetTags(ctx context.Context, id, orgID primitive.ObjectID) ([]string, error) {
	t, err := r.FindByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	return t.Tags, nil
}

func (r *fakeTicketRepo) FindOverdueSLA(ctx context.Context, limit int64) ([]Ticket, error) {
	now := time.Now()
	var out []Ticket
	for _, t := range r.tickets {
		if t.IsFinished() || t.DueDate == nil || t.EscalatedAt != nil {
			continue
		}
		if t.DueDate.Before(now) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) GetNextTicketNumber(ctx context.Context, orgID primitive.ObjectID) (string, error) {
	r.nextSeq++
	return fmt.Sprintf("TKT-%06d", r.nextSeq), nil
}

type fakeCommentRepo struct {
	comments []*TicketComment
}

func (r *fakeCommentRepo) Create(ctx context.Context, c *TicketComment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.comments = append(r.comments, c)
	return nil
}

func (r *fakeCommentRepo) FindByTicketID(ctx context.Context, ticketID, orgID primitive.ObjectID) ([]TicketComment, error) {
	var out []TicketComment
	for _, c := range r.comments {
		if c.TicketID == ticketID && c.OrganizationID == orgID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id, orgID primitive.ObjectID) error {
	return nil
}

type fakeNotifier struct {
	created   int
	createErr error
}

func (n *fakeNotifier) CreateNotification(ctx context.Context, orgID, userID primitive.ObjectID, title, message string, nType notification.NotificationType, link string) error {
	if n.createErr != nil {
		return n.createErr
	}
	n.created++
	return nil
}

func (n *fakeNotifier) ListNotifications(ctx context.Context, orgID, userID primitive.ObjectID, limit int64) ([]notification.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkRead(ctx context.Context, id string, orgID primitive.ObjectID) error {
	return nil
}

// recordingTrigger captures fired events in order, with enough detail to
// assert on the transition arguments.
type recordingTrigger struct {
	events     []string
	oldStatus  TicketStatus
	newStatus  TicketStatus
	lastTicket *Ticket
}

func (r *recordingTrigger) OnTicketCreated(ctx context.Context, t *Ticket) {
	r.events = append(r.events, "created")
	r.lastTicket = t
}

func (r *recordingTrigger) OnTicketUpdated(ctx context.Context, t *Ticket, changes map[string]interface{}) {
	r.events = append(r.events, "updated")
	r.lastTicket = t
}

func (r *recordingTrigger) OnTicketStatusChanged(ctx context.Context, t *Ticket, oldStatus, newStatus TicketStatus) {
	r.events = append(r.events, "status_changed")
	r.oldStatus = oldStatus
	r.newStatus = newStatus
	r.lastTicket = t
}

func (r *recordingTrigger) OnTicketAssigned(ctx context.Context, t *Ticket, oldAssignee, newAssignee *primitive.ObjectID) {
	r.events = append(r.events, "assigned")
	r.lastTicket = t
}

func (r *recordingTrigger) OnCommentAdded(ctx context.Context, t *Ticket, comment *TicketComment) {
	r.events = append(r.events, "comment_added")
	r.lastTicket = t
}

type serviceFixture struct {
	repo     *fakeTicketRepo
	comments *fakeCommentRepo
	notifier *fakeNotifier
	trigger  *recordingTrigger
	service  TicketService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:     newFakeTicketRepo(),
		comments: &fakeCommentRepo{},
		notifier: &fakeNotifier{},
		trigger:  &recordingTrigger{},
	}
	f.service = NewTicketService(f.repo, f.comments, f.notifier, f.trigger, zap.NewNop())
	return f
}

func (f *serviceFixture) seedTicket(t *testing.T, orgID primitive.ObjectID) *Ticket {
	t.Helper()
	ticket := &Ticket{
		OrganizationID: orgID,
		Subject:        "Monitor flickers",
		RequesterEmail: "kim@example.com",
		RequesterName:  "Kim Park",
	}
	if err := f.service.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	f.trigger.events = nil
	return ticket
}

func TestCreateTicketDefaultsAndTrigger(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()

	ticket := &Ticket{OrganizationID: orgID, Subject: "No sound"}
	if err := f.service.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ticket.Status != TicketStatusNew || ticket.Priority != TicketPriorityNormal {
		t.Errorf("defaults not applied: status=%s priority=%s", ticket.Status, ticket.Priority)
	}
	if ticket.TicketNumber != "TKT-000001" {
		t.Errorf("ticket number = %q", ticket.TicketNumber)
	}
	if len(f.trigger.events) != 1 || f.trigger.events[0] != "created" {
		t.Errorf("events = %v", f.trigger.events)
	}
	// The trigger fired after the row existed.
	if _, err := f.service.GetTicket(context.Background(), ticket.ID.Hex(), orgID); err != nil {
		t.Errorf("ticket not persisted before trigger: %v", err)
	}
}

func TestUpdateTicketCompoundEditFiresEventSequence(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)
	assignee := primitive.NewObjectID()

	updates := map[string]interface{}{
		"status":      "solved",
		"assignee_id": assignee,
	}
	if err := f.service.UpdateTicket(context.Background(), ticket.ID.Hex(), orgID, updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"updated", "status_changed", "assigned"}
	if len(f.trigger.events) != len(want) {
		t.Fatalf("events = %v, want %v", f.trigger.events, want)
	}
	for i := range want {
		if f.trigger.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, f.trigger.events[i], want[i])
		}
	}
	if f.trigger.oldStatus != TicketStatusNew || f.trigger.newStatus != TicketStatusSolved {
		t.Errorf("status transition = %s -> %s", f.trigger.oldStatus, f.trigger.newStatus)
	}

	// The direct edit into solved stamped the timestamp.
	updated, _ := f.service.GetTicket(context.Background(), ticket.ID.Hex(), orgID)
	if updated.SolvedAt == nil {
		t.Error("solved_at not stamped")
	}
}

func TestUpdateTicketNoTransitionFiresOnlyUpdated(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)

	if err := f.service.UpdateTicket(context.Background(), ticket.ID.Hex(), orgID, map[string]interface{}{"priority": "high"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.trigger.events) != 1 || f.trigger.events[0] != "updated" {
		t.Errorf("events = %v", f.trigger.events)
	}
}

func TestUpdateStatusStampsTerminalTimestamps(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)

	if err := f.service.UpdateStatus(context.Background(), ticket.ID.Hex(), orgID, TicketStatusSolved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, _ := f.service.GetTicket(context.Background(), ticket.ID.Hex(), orgID)
	if updated.SolvedAt == nil {
		t.Error("solved_at not stamped")
	}
	if f.trigger.oldStatus != TicketStatusNew || f.trigger.newStatus != TicketStatusSolved {
		t.Errorf("transition = %s -> %s", f.trigger.oldStatus, f.trigger.newStatus)
	}

	if err := f.service.UpdateStatus(context.Background(), ticket.ID.Hex(), orgID, TicketStatusClosed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, _ = f.service.GetTicket(context.Background(), ticket.ID.Hex(), orgID)
	if updated.ClosedAt == nil {
		t.Error("closed_at not stamped")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)

	if err := f.service.UpdateStatus(context.Background(), ticket.ID.Hex(), orgID, "archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if len(f.trigger.events) != 0 {
		t.Errorf("no events should fire on a rejected update, got %v", f.trigger.events)
	}
}

func TestAssignTicketNotifiesAndFires(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)
	assignee := primitive.NewObjectID()

	if err := f.service.AssignTicket(context.Background(), ticket.ID.Hex(), orgID, assignee); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.trigger.events) != 1 || f.trigger.events[0] != "assigned" {
		t.Errorf("events = %v", f.trigger.events)
	}
	if f.notifier.created != 1 {
		t.Errorf("notifications = %d, want 1", f.notifier.created)
	}

	updated, _ := f.service.GetTicket(context.Background(), ticket.ID.Hex(), orgID)
	if updated.AssigneeID == nil || *updated.AssigneeID != assignee {
		t.Errorf("assignee = %v", updated.AssigneeID)
	}
}

func TestAssignTicketSurvivesNotificationFailure(t *testing.T) {
	f := newServiceFixture()
	f.notifier.createErr = fmt.Errorf("notification store down")
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)
	assignee := primitive.NewObjectID()

	if err := f.service.AssignTicket(context.Background(), ticket.ID.Hex(), orgID, assignee); err != nil {
		t.Fatalf("assignment should not fail on notification error: %v", err)
	}

	if len(f.trigger.events) != 1 || f.trigger.events[0] != "assigned" {
		t.Errorf("events = %v", f.trigger.events)
	}
	updated, _ := f.service.GetTicket(context.Background(), ticket.ID.Hex(), orgID)
	if updated.AssigneeID == nil || *updated.AssigneeID != assignee {
		t.Errorf("assignee = %v", updated.AssigneeID)
	}
}

func TestAddCommentFiresTrigger(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)

	comment := &TicketComment{Body: "Looking into it", AuthorName: "Agent A", IsPublic: true}
	if err := f.service.AddComment(context.Background(), ticket.ID.Hex(), orgID, comment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.trigger.events) != 1 || f.trigger.events[0] != "comment_added" {
		t.Errorf("events = %v", f.trigger.events)
	}
	if comment.TicketID != ticket.ID || comment.OrganizationID != orgID {
		t.Error("comment not scoped to ticket and organization")
	}
}

func TestCreateTicketFromEmailSetsSource(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()

	created, err := f.service.CreateTicketFromEmail(context.Background(), orgID,
		"Invoice question", "Where is my invoice?", "lee@example.com", "Lee Chu",
		map[string]interface{}{"message_id": "<abc@mail>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Source != TicketSourceEmail {
		t.Errorf("source = %s", created.Source)
	}
	if created.SourceMetadata["message_id"] != "<abc@mail>" {
		t.Error("source metadata lost")
	}
	if len(f.trigger.events) != 1 || f.trigger.events[0] != "created" {
		t.Errorf("events = %v", f.trigger.events)
	}
}

func TestGetTicketWrongOrgIsNotFound(t *testing.T) {
	f := newServiceFixture()
	orgID := primitive.NewObjectID()
	ticket := f.seedTicket(t, orgID)

	if _, err := f.service.GetTicket(context.Background(), ticket.ID.Hex(), primitive.NewObjectID()); err == nil {
		t.Fatal("cross-organization lookup must fail")
	}
}
