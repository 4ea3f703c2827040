package settings

import (
	"go-helpdesk/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type SettingsController struct {
	Service SettingsService
}

func NewSettingsController(service SettingsService) *SettingsController {
	return &SettingsController{
		Service: service,
	}
}

// GetEmailConfig godoc
// @Summary Get email configuration
// @Tags settings
// @Produce json
// @Success 200 {object} EmailConfig
// @Router /api/settings/email [get]
func (ctrl *SettingsController) GetEmailConfig(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	cfg, err := ctrl.Service.GetEmailConfig(c.UserContext(), orgID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cfg)
}

// UpdateEmailConfig godoc
// @Summary Update email configuration
// @Tags settings
// @Accept json
// @Produce json
// @Param config body EmailConfig true "Email Config"
// @Success 200 {object} map[string]interface{}
// @Router /api/settings/email [put]
func (ctrl *SettingsController) UpdateEmailConfig(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var cfg EmailConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.Service.UpdateEmailConfig(c.UserContext(), orgID, &cfg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Email configuration updated"})
}
