package settings

import (
	"go-helpdesk/internal/common/api"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	controller *SettingsController
	config     *config.Config
}

func NewSettingsApi(controller *SettingsController, config *config.Config) api.Route {
	return &SettingsApi{
		controller: controller,
		config:     config,
	}
}

func (h *SettingsApi) Setup(app *fiber.App) {
	group := app.Group("/api/settings", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/email", h.controller.GetEmailConfig)
	group.Put("/email", h.controller.UpdateEmailConfig)
}
