package automation

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AutomationService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) error
	GetRule(ctx context.Context, id string, orgID primitive.ObjectID) (*AutomationRule, error)
	ListRules(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string, orgID primitive.ObjectID) error
	EnableRule(ctx context.Context, id string, orgID primitive.ObjectID, active bool) error
	ListExecutions(ctx context.Context, ruleID string, orgID primitive.ObjectID, limit int64) ([]ExecutionLog, error)
}

type AutomationServiceImpl struct {
	Repo    AutomationRepository
	LogRepo ExecutionLogRepository
}

func NewAutomationService(repo AutomationRepository, logRepo ExecutionLogRepository) AutomationService {
	return &AutomationServiceImpl{
		Repo:    repo,
		LogRepo: logRepo,
	}
}

// CreateRule validates the rule's action specs up front so a malformed rule
// is rejected at the management boundary, not discovered per event.
func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	if rule.Position == 0 {
		position, err := s.Repo.NextPosition(ctx, rule.OrganizationID)
		if err != nil {
			return err
		}
		rule.Position = position
	}

	return s.Repo.Create(ctx, rule)
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string, orgID primitive.ObjectID) (*AutomationRule, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot name any rule.
		return nil, nil
	}
	return s.Repo.GetByID(ctx, objID, orgID)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error) {
	return s.Repo.List(ctx, orgID)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.Repo.Update(ctx, rule)
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string, orgID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid rule ID")
	}
	return s.Repo.Delete(ctx, objID, orgID)
}

func (s *AutomationServiceImpl) EnableRule(ctx context.Context, id string, orgID primitive.ObjectID, active bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid rule ID")
	}
	return s.Repo.Enable(ctx, objID, orgID, active)
}

func (s *AutomationServiceImpl) ListExecutions(ctx context.Context, ruleID string, orgID primitive.ObjectID, limit int64) ([]ExecutionLog, error) {
	objID, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return nil, errors.New("invalid rule ID")
	}

	// Scope check: the rule must belong to the caller's organization.
	rule, err := s.Repo.GetByID(ctx, objID, orgID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, errors.New("rule not found")
	}

	return s.LogRepo.ListByRule(ctx, objID, limit)
}
