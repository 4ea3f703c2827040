package ticket

import (
	"go-helpdesk/internal/common/api"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TicketApi struct {
	controller *TicketController
	config     *config.Config
}

func NewTicketApi(controller *TicketController, config *config.Config) api.Route {
	return &TicketApi{
		controller: controller,
		config:     config,
	}
}

func (h *TicketApi) Setup(app *fiber.App) {
	group := app.Group("/api/tickets", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListTickets)
	group.Get("/:id", h.controller.GetTicket)
	group.Post("/", h.controller.CreateTicket)
	group.Put("/:id", h.controller.UpdateTicket)
	group.Delete("/:id", h.controller.DeleteTicket)
	group.Patch("/:id/status", h.controller.UpdateStatus)
	group.Patch("/:id/assign", h.controller.AssignTicket)
	group.Get("/:id/comments", h.controller.ListComments)
	group.Post("/:id/comments", h.controller.AddComment)
}
