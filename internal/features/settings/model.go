package settings

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SettingsType string

const (
	SettingsTypeEmail SettingsType = "email"
)

type EmailConfig struct {
	SMTPHost     string `json:"smtp_host" bson:"smtp_host"`
	SMTPPort     int    `json:"smtp_port" bson:"smtp_port"`
	SMTPUser     string `json:"smtp_user" bson:"smtp_user"`
	SMTPPassword string `json:"smtp_password" bson:"smtp_password"`
	FromEmail    string `json:"from_email" bson:"from_email"`
	FromName     string `json:"from_name" bson:"from_name"`
}

type Settings struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Type           SettingsType       `json:"type" bson:"type"`
	Email          *EmailConfig       `json:"email,omitempty" bson:"email,omitempty"`
}
