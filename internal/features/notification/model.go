package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeTicket     NotificationType = "ticket"
	NotificationTypeEscalation NotificationType = "escalation"
	NotificationTypeSystem     NotificationType = "system"
)

type Notification struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id"`
	Title          string             `json:"title" bson:"title"`
	Message        string             `json:"message" bson:"message"`
	Type           NotificationType   `json:"type" bson:"type"`
	Link           string             `json:"link,omitempty" bson:"link,omitempty"`
	Read           bool               `json:"read" bson:"read"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}
