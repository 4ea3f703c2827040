package settings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SettingsService interface {
	GetEmailConfig(ctx context.Context, orgID primitive.ObjectID) (*EmailConfig, error)
	UpdateEmailConfig(ctx context.Context, orgID primitive.ObjectID, config *EmailConfig) error
}

type SettingsServiceImpl struct {
	Repo SettingsRepository
}

func NewSettingsService(repo SettingsRepository) SettingsService {
	return &SettingsServiceImpl{Repo: repo}
}

func (s *SettingsServiceImpl) GetEmailConfig(ctx context.Context, orgID primitive.ObjectID) (*EmailConfig, error) {
	settings, err := s.Repo.GetByType(ctx, orgID, SettingsTypeEmail)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, nil
	}
	return settings.Email, nil
}

func (s *SettingsServiceImpl) UpdateEmailConfig(ctx context.Context, orgID primitive.ObjectID, config *EmailConfig) error {
	return s.Repo.Upsert(ctx, &Settings{
		OrganizationID: orgID,
		Type:           SettingsTypeEmail,
		Email:          config,
	})
}
