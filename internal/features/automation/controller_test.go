package automation

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	common_models "go-helpdesk/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeAutomationService struct {
	rule    *AutomationRule
	ruleErr error
}

func (s *fakeAutomationService) CreateRule(ctx context.Context, rule *AutomationRule) error {
	return nil
}

func (s *fakeAutomationService) GetRule(ctx context.Context, id string, orgID primitive.ObjectID) (*AutomationRule, error) {
	return s.rule, s.ruleErr
}

func (s *fakeAutomationService) ListRules(ctx context.Context, orgID primitive.ObjectID) ([]AutomationRule, error) {
	return nil, nil
}

func (s *fakeAutomationService) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	return nil
}

func (s *fakeAutomationService) DeleteRule(ctx context.Context, id string, orgID primitive.ObjectID) error {
	return nil
}

func (s *fakeAutomationService) EnableRule(ctx context.Context, id string, orgID primitive.ObjectID, active bool) error {
	return nil
}

func (s *fakeAutomationService) ListExecutions(ctx context.Context, ruleID string, orgID primitive.ObjectID, limit int64) ([]ExecutionLog, error) {
	return nil, nil
}

func newRuleApp(svc AutomationService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(string(common_models.OrgIDKey), primitive.NewObjectID().Hex())
		return c.Next()
	})
	ctrl := NewAutomationController(svc)
	app.Get("/rules/:id", ctrl.GetRule)
	return app
}

func TestGetRuleMissingReturns404(t *testing.T) {
	app := newRuleApp(&fakeAutomationService{})

	req := httptest.NewRequest("GET", "/rules/"+primitive.NewObjectID().Hex(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}
}

func TestGetRuleBackendFailureReturns500(t *testing.T) {
	app := newRuleApp(&fakeAutomationService{ruleErr: errors.New("connection reset")})

	req := httptest.NewRequest("GET", "/rules/"+primitive.NewObjectID().Hex(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusInternalServerError)
	}
}
