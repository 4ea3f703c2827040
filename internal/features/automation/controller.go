package automation

import (
	"go-helpdesk/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AutomationController struct {
	Service AutomationService
}

func NewAutomationController(service AutomationService) *AutomationController {
	return &AutomationController{
		Service: service,
	}
}

// CreateRule godoc
// @Summary Create automation rule
// @Description Create a new automation rule for the organization
// @Tags automation
// @Accept json
// @Produce json
// @Param rule body AutomationRule true "Automation Rule"
// @Success 201 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules [post]
func (ctrl *AutomationController) CreateRule(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	rule.OrganizationID = orgID

	if err := ctrl.Service.CreateRule(c.UserContext(), &rule); err != nil {
		if _, ok := err.(*RuleParseError); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

// GetRule godoc
// @Summary Get automation rule
// @Description Get an automation rule by ID
// @Tags automation
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} AutomationRule
// @Failure 404 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [get]
func (ctrl *AutomationController) GetRule(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	rule, err := ctrl.Service.GetRule(c.UserContext(), c.Params("id"), orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if rule == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rule not found"})
	}
	return c.JSON(rule)
}

// ListRules godoc
// @Summary List automation rules
// @Description List all automation rules for the organization, ordered by position
// @Tags automation
// @Produce json
// @Success 200 {array} AutomationRule
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules [get]
func (ctrl *AutomationController) ListRules(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	rules, err := ctrl.Service.ListRules(c.UserContext(), orgID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rules)
}

// UpdateRule godoc
// @Summary Update automation rule
// @Description Update an existing automation rule
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body AutomationRule true "Automation Rule"
// @Success 200 {object} AutomationRule
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [put]
func (ctrl *AutomationController) UpdateRule(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	existing, err := ctrl.Service.GetRule(c.UserContext(), c.Params("id"), orgID)
	if err != nil || existing == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rule not found"})
	}

	var rule AutomationRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	rule.ID = existing.ID
	rule.OrganizationID = orgID
	rule.CreatedAt = existing.CreatedAt

	if err := ctrl.Service.UpdateRule(c.UserContext(), &rule); err != nil {
		if _, ok := err.(*RuleParseError); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rule)
}

// DeleteRule godoc
// @Summary Delete automation rule
// @Description Delete an automation rule by ID
// @Tags automation
// @Param id path string true "Rule ID"
// @Success 204 {object} nil
// @Failure 500 {object} map[string]interface{}
// @Router /api/automation/rules/{id} [delete]
func (ctrl *AutomationController) DeleteRule(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.DeleteRule(c.UserContext(), c.Params("id"), orgID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// EnableRule godoc
// @Summary Enable or disable automation rule
// @Description Toggle the active flag of an automation rule
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/automation/rules/{id}/enable [patch]
func (ctrl *AutomationController) EnableRule(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.EnableRule(c.UserContext(), c.Params("id"), orgID, body.IsActive); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"is_active": body.IsActive})
}

// ListExecutions godoc
// @Summary List rule executions
// @Description List recent execution log entries for an automation rule
// @Tags automation
// @Produce json
// @Param id path string true "Rule ID"
// @Param limit query int false "Max entries"
// @Success 200 {array} ExecutionLog
// @Failure 404 {object} map[string]interface{}
// @Router /api/automation/rules/{id}/executions [get]
func (ctrl *AutomationController) ListExecutions(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	limit := int64(c.QueryInt("limit", 50))
	logs, err := ctrl.Service.ListExecutions(c.UserContext(), c.Params("id"), orgID, limit)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(logs)
}
