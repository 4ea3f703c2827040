package ticket

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus represents the status of a ticket
type TicketStatus string

const (
	TicketStatusNew     TicketStatus = "new"
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusPending TicketStatus = "pending"
	TicketStatusSolved  TicketStatus = "solved"
	TicketStatusClosed  TicketStatus = "closed"
)

// TicketPriority represents the priority level of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketSource represents the channel through which the ticket was created
type TicketSource string

const (
	TicketSourceEmail  TicketSource = "email"
	TicketSourceChat   TicketSource = "chat"
	TicketSourcePortal TicketSource = "portal"
	TicketSourceAPI    TicketSource = "api"
)

// Ticket represents a customer support ticket
type Ticket struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	TicketNumber   string             `json:"ticket_number" bson:"ticket_number"`
	Subject        string             `json:"subject" bson:"subject"`
	Description    string             `json:"description" bson:"description"`

	Source         TicketSource           `json:"source" bson:"source"`
	SourceMetadata map[string]interface{} `json:"source_metadata,omitempty" bson:"source_metadata,omitempty"`

	Status   TicketStatus   `json:"status" bson:"status"`
	Priority TicketPriority `json:"priority" bson:"priority"`

	// Assignment
	AssigneeID *primitive.ObjectID `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`

	// Requester
	RequesterID    *primitive.ObjectID `json:"requester_id,omitempty" bson:"requester_id,omitempty"`
	RequesterEmail string              `json:"requester_email" bson:"requester_email"`
	RequesterName  string              `json:"requester_name" bson:"requester_name"`

	Tags []string `json:"tags,omitempty" bson:"tags,omitempty"`

	// SLA
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	EscalatedAt *time.Time `json:"escalated_at,omitempty" bson:"escalated_at,omitempty"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	SolvedAt  *time.Time `json:"solved_at,omitempty" bson:"solved_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// IsFinished reports whether the ticket is in a terminal state.
func (t *Ticket) IsFinished() bool {
	return t.Status == TicketStatusSolved || t.Status == TicketStatusClosed
}

// TicketComment represents a comment or note on a ticket
type TicketComment struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketID       primitive.ObjectID `json:"ticket_id" bson:"ticket_id"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Body           string             `json:"body" bson:"body"`
	AuthorID       *primitive.ObjectID `json:"author_id,omitempty" bson:"author_id,omitempty"`
	AuthorName     string             `json:"author_name" bson:"author_name"`
	IsPublic       bool               `json:"is_public" bson:"is_public"`
	IsAutomated    bool               `json:"is_automated" bson:"is_automated"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
