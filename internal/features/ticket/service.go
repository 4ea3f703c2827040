package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-helpdesk/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AutomationTrigger receives ticket lifecycle events once the primary
// mutation has been persisted. Implementations must never propagate
// errors back to the mutation path; each call is fire-and-forget.
type AutomationTrigger interface {
	OnTicketCreated(ctx context.Context, t *Ticket)
	OnTicketUpdated(ctx context.Context, t *Ticket, changes map[string]interface{})
	OnTicketStatusChanged(ctx context.Context, t *Ticket, oldStatus, newStatus TicketStatus)
	OnTicketAssigned(ctx context.Context, t *Ticket, oldAssignee, newAssignee *primitive.ObjectID)
	OnCommentAdded(ctx context.Context, t *Ticket, comment *TicketComment)
}

// TicketService defines the interface for ticket business logic
type TicketService interface {
	CreateTicket(ctx context.Context, ticket *Ticket) error
	GetTicket(ctx context.Context, id string, orgID primitive.ObjectID) (*Ticket, error)
	ListTickets(ctx context.Context, orgID primitive.ObjectID, filters map[string]interface{}, page, limit int64, sortBy, sortOrder string) ([]Ticket, int64, error)
	UpdateTicket(ctx context.Context, id string, orgID primitive.ObjectID, updates map[string]interface{}) error
	DeleteTicket(ctx context.Context, id string, orgID primitive.ObjectID) error

	// Status Management
	UpdateStatus(ctx context.Context, id string, orgID primitive.ObjectID, status TicketStatus) error

	// Assignment
	AssignTicket(ctx context.Context, id string, orgID, assigneeID primitive.ObjectID) error
	UnassignTicket(ctx context.Context, id string, orgID primitive.ObjectID) error

	// Comments
	AddComment(ctx context.Context, ticketID string, orgID primitive.ObjectID, comment *TicketComment) error
	ListComments(ctx context.Context, ticketID string, orgID primitive.ObjectID) ([]TicketComment, error)

	// Multi-Channel
	CreateTicketFromEmail(ctx context.Context, orgID primitive.ObjectID, subject, description, requesterEmail, requesterName string, metadata map[string]interface{}) (*Ticket, error)
	CreateTicketFromPortal(ctx context.Context, ticket *Ticket, requesterID primitive.ObjectID) error
}

// TicketServiceImpl implements TicketService
type TicketServiceImpl struct {
	TicketRepo          TicketRepository
	CommentRepo         TicketCommentRepository
	NotificationService notification.NotificationService
	Trigger             AutomationTrigger
	Logger              *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo TicketRepository,
	commentRepo TicketCommentRepository,
	notificationService notification.NotificationService,
	trigger AutomationTrigger,
	logger *zap.Logger,
) TicketService {
	return &TicketServiceImpl{
		TicketRepo:          ticketRepo,
		CommentRepo:         commentRepo,
		NotificationService: notificationService,
		Trigger:             trigger,
		Logger:              logger,
	}
}

// CreateTicket creates a new ticket and fires the created event
func (s *TicketServiceImpl) CreateTicket(ctx context.Context, t *Ticket) error {
	ticketNumber, err := s.TicketRepo.GetNextTicketNumber(ctx, t.OrganizationID)
	if err != nil {
		return err
	}
	t.TicketNumber = ticketNumber

	if t.Status == "" {
		t.Status = TicketStatusNew
	}
	if t.Priority == "" {
		t.Priority = TicketPriorityNormal
	}
	if t.Source == "" {
		t.Source = TicketSourceAPI
	}

	if err := s.TicketRepo.Create(ctx, t); err != nil {
		return err
	}

	// Automation runs after the mutation has committed; failures stay inside
	// the trigger implementation.
	s.Trigger.OnTicketCreated(ctx, t)

	return nil
}

// GetTicket retrieves a ticket by ID
func (s *TicketServiceImpl) GetTicket(ctx context.Context, id string, orgID primitive.ObjectID) (*Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid ticket ID")
	}

	return s.TicketRepo.FindByID(ctx, objID, orgID)
}

// ListTickets retrieves tickets with filtering and pagination
func (s *TicketServiceImpl) ListTickets(ctx context.Context, orgID primitive.ObjectID, filters map[string]interface{}, page, limit int64, sortBy, sortOrder string) ([]Ticket, int64, error) {
	filter := bson.M{}

	if status, ok := filters["status"].(string); ok && status != "" {
		filter["status"] = status
	}

	if priority, ok := filters["priority"].(string); ok && priority != "" {
		filter["priority"] = priority
	}

	if source, ok := filters["source"].(string); ok && source != "" {
		filter["source"] = source
	}

	if assigneeID, ok := filters["assignee_id"].(string); ok && assigneeID != "" {
		objID, err := primitive.ObjectIDFromHex(assigneeID)
		if err == nil {
			filter["assignee_id"] = objID
		}
	}

	if search, ok := filters["search"].(string); ok && search != "" {
		filter["$or"] = []bson.M{
			{"ticket_number": bson.M{"$regex": search, "$options": "i"}},
			{"subject": bson.M{"$regex": search, "$options": "i"}},
			{"requester_name": bson.M{"$regex": search, "$options": "i"}},
			{"requester_email": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	return s.TicketRepo.FindAll(ctx, orgID, filter, page, limit, sortBy, sortOrder)
}

// UpdateTicket applies a generic update and fires the event sequence for it.
// A single edit that also changes status and/or assignee fires up to three
// events, always in the order: updated, status changed, assigned.
func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, id string, orgID primitive.ObjectID, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	oldTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	bsonUpdates := bson.M{}
	for k, v := range updates {
		bsonUpdates[k] = v
	}

	// A direct edit into "solved" stamps the solved timestamp like the
	// status endpoint does.
	if status, ok := updates["status"].(string); ok && TicketStatus(status) == TicketStatusSolved && oldTicket.Status != TicketStatusSolved {
		bsonUpdates["solved_at"] = time.Now()
	}

	if err := s.TicketRepo.Update(ctx, objID, orgID, bsonUpdates); err != nil {
		return err
	}

	newTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	s.Trigger.OnTicketUpdated(ctx, newTicket, updates)

	if newTicket.Status != oldTicket.Status {
		s.Trigger.OnTicketStatusChanged(ctx, newTicket, oldTicket.Status, newTicket.Status)
	}

	if !sameAssignee(oldTicket.AssigneeID, newTicket.AssigneeID) {
		s.Trigger.OnTicketAssigned(ctx, newTicket, oldTicket.AssigneeID, newTicket.AssigneeID)
	}

	return nil
}

// DeleteTicket deletes a ticket
func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, id string, orgID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	return s.TicketRepo.Delete(ctx, objID, orgID)
}

// UpdateStatus updates the ticket status and fires the status-changed event
func (s *TicketServiceImpl) UpdateStatus(ctx context.Context, id string, orgID primitive.ObjectID, status TicketStatus) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	oldTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	validStatuses := map[TicketStatus]bool{
		TicketStatusNew:     true,
		TicketStatusOpen:    true,
		TicketStatusPending: true,
		TicketStatusSolved:  true,
		TicketStatusClosed:  true,
	}
	if !validStatuses[status] {
		return errors.New("invalid status")
	}

	updates := bson.M{"status": status}
	if status == TicketStatusSolved && oldTicket.Status != TicketStatusSolved {
		updates["solved_at"] = time.Now()
	}
	if status == TicketStatusClosed && oldTicket.Status != TicketStatusClosed {
		updates["closed_at"] = time.Now()
	}

	if err := s.TicketRepo.Update(ctx, objID, orgID, updates); err != nil {
		return err
	}

	newTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	s.Trigger.OnTicketStatusChanged(ctx, newTicket, oldTicket.Status, status)

	return nil
}

// AssignTicket assigns a ticket to a user and fires the assigned event
func (s *TicketServiceImpl) AssignTicket(ctx context.Context, id string, orgID, assigneeID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	oldTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	if err := s.TicketRepo.Update(ctx, objID, orgID, bson.M{"assignee_id": assigneeID}); err != nil {
		return err
	}

	newTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	// Notification failures must not fail the assignment.
	if err := s.NotificationService.CreateNotification(ctx, orgID, assigneeID, "Ticket Assigned",
		fmt.Sprintf("You have been assigned ticket %s: %s", newTicket.TicketNumber, newTicket.Subject),
		notification.NotificationTypeTicket, fmt.Sprintf("/tickets/%s", id)); err != nil {
		s.Logger.Warn("failed to create assignment notification",
			zap.String("ticket_id", id),
			zap.String("assignee_id", assigneeID.Hex()),
			zap.Error(err))
	}

	s.Trigger.OnTicketAssigned(ctx, newTicket, oldTicket.AssigneeID, newTicket.AssigneeID)

	return nil
}

// UnassignTicket removes the assignment from a ticket
func (s *TicketServiceImpl) UnassignTicket(ctx context.Context, id string, orgID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	oldTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	if err := s.TicketRepo.Update(ctx, objID, orgID, bson.M{"assignee_id": nil}); err != nil {
		return err
	}

	newTicket, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	s.Trigger.OnTicketAssigned(ctx, newTicket, oldTicket.AssigneeID, nil)

	return nil
}

// AddComment adds a comment to a ticket and fires the comment-added event
func (s *TicketServiceImpl) AddComment(ctx context.Context, ticketID string, orgID primitive.ObjectID, comment *TicketComment) error {
	objID, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return errors.New("invalid ticket ID")
	}

	t, err := s.TicketRepo.FindByID(ctx, objID, orgID)
	if err != nil {
		return err
	}

	comment.TicketID = objID
	comment.OrganizationID = orgID

	if err := s.CommentRepo.Create(ctx, comment); err != nil {
		return err
	}

	s.Trigger.OnCommentAdded(ctx, t, comment)

	return nil
}

// ListComments retrieves all comments for a ticket
func (s *TicketServiceImpl) ListComments(ctx context.Context, ticketID string, orgID primitive.ObjectID) ([]TicketComment, error) {
	objID, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return nil, errors.New("invalid ticket ID")
	}

	return s.CommentRepo.FindByTicketID(ctx, objID, orgID)
}

// CreateTicketFromEmail creates a ticket from an ingested email
func (s *TicketServiceImpl) CreateTicketFromEmail(ctx context.Context, orgID primitive.ObjectID, subject, description, requesterEmail, requesterName string, metadata map[string]interface{}) (*Ticket, error) {
	t := &Ticket{
		OrganizationID: orgID,
		Subject:        subject,
		Description:    description,
		Source:         TicketSourceEmail,
		SourceMetadata: metadata,
		RequesterEmail: requesterEmail,
		RequesterName:  requesterName,
		Priority:       TicketPriorityNormal,
		Status:         TicketStatusNew,
	}

	if err := s.CreateTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTicketFromPortal creates a ticket from the customer portal
func (s *TicketServiceImpl) CreateTicketFromPortal(ctx context.Context, t *Ticket, requesterID primitive.ObjectID) error {
	t.Source = TicketSourcePortal
	t.RequesterID = &requesterID

	return s.CreateTicket(ctx, t)
}

func sameAssignee(a, b *primitive.ObjectID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
