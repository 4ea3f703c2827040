package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is the persisted record of one outbound message.
type Email struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	TicketID       primitive.ObjectID `json:"ticket_id,omitempty" bson:"ticket_id,omitempty"`
	From           string             `json:"from" bson:"from"`
	To             string             `json:"to" bson:"to"`
	Subject        string             `json:"subject" bson:"subject"`
	Body           string             `json:"body" bson:"body"`
	Status         EmailStatus        `json:"status" bson:"status"`
	Error          string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	SentAt         *time.Time         `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
}
