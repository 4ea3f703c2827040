package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, orgID, userID primitive.ObjectID, title, message string, nType NotificationType, link string) error
	ListNotifications(ctx context.Context, orgID, userID primitive.ObjectID, limit int64) ([]Notification, error)
	MarkRead(ctx context.Context, id string, orgID primitive.ObjectID) error
}

type NotificationServiceImpl struct {
	Repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) NotificationService {
	return &NotificationServiceImpl{Repo: repo}
}

func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, orgID, userID primitive.ObjectID, title, message string, nType NotificationType, link string) error {
	return s.Repo.Create(ctx, &Notification{
		OrganizationID: orgID,
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           nType,
		Link:           link,
	})
}

func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, orgID, userID primitive.ObjectID, limit int64) ([]Notification, error) {
	if limit < 1 {
		limit = 50
	}
	return s.Repo.FindByUser(ctx, orgID, userID, limit)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id string, orgID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	return s.Repo.MarkRead(ctx, objID, orgID)
}
