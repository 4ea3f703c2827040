package ticket

import (
	"errors"
	"strconv"

	"go-helpdesk/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketController struct {
	TicketService TicketService
}

func NewTicketController(ticketService TicketService) *TicketController {
	return &TicketController{
		TicketService: ticketService,
	}
}

// CreateTicket godoc
// @Summary Create ticket
// @Description Create a new ticket for the organization
// @Tags ticket
// @Accept json
// @Produce json
// @Param ticket body Ticket true "Ticket"
// @Success 201 {object} Ticket
// @Failure 400 {object} map[string]interface{}
// @Router /api/tickets [post]
func (ctrl *TicketController) CreateTicket(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var ticket Ticket
	if err := c.BodyParser(&ticket); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	ticket.OrganizationID = orgID
	if ticket.Source == "" {
		ticket.Source = TicketSourceAPI
	}

	if err := ctrl.TicketService.CreateTicket(c.UserContext(), &ticket); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created successfully",
		"data":    ticket,
	})
}

// GetTicket godoc
// @Summary Get ticket
// @Tags ticket
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} Ticket
// @Failure 404 {object} map[string]interface{}
// @Router /api/tickets/{id} [get]
func (ctrl *TicketController) GetTicket(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	ticket, err := ctrl.TicketService.GetTicket(c.UserContext(), c.Params("id"), orgID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ticket)
}

// ListTickets godoc
// @Summary List tickets
// @Description List tickets with filtering, pagination and sorting
// @Tags ticket
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/tickets [get]
func (ctrl *TicketController) ListTickets(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	sortBy := c.Query("sort_by", "created_at")
	sortOrder := c.Query("order", "desc")

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if priority := c.Query("priority"); priority != "" {
		filters["priority"] = priority
	}
	if source := c.Query("source"); source != "" {
		filters["source"] = source
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filters["assignee_id"] = assignee
	}
	if requester := c.Query("requester_email"); requester != "" {
		filters["requester_email"] = requester
	}
	if tag := c.Query("tag"); tag != "" {
		filters["tag"] = tag
	}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}

	tickets, total, err := ctrl.TicketService.ListTickets(c.UserContext(), orgID, filters, page, limit, sortBy, sortOrder)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  tickets,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateTicket godoc
// @Summary Update ticket
// @Description Apply a partial update to a ticket
// @Tags ticket
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/tickets/{id} [put]
func (ctrl *TicketController) UpdateTicket(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.TicketService.UpdateTicket(c.UserContext(), c.Params("id"), orgID, updates); err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Ticket updated successfully"})
}

// DeleteTicket godoc
// @Summary Delete ticket
// @Tags ticket
// @Param id path string true "Ticket ID"
// @Success 204 {object} nil
// @Router /api/tickets/{id} [delete]
func (ctrl *TicketController) DeleteTicket(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.TicketService.DeleteTicket(c.UserContext(), c.Params("id"), orgID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStatus godoc
// @Summary Update ticket status
// @Tags ticket
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/tickets/{id}/status [patch]
func (ctrl *TicketController) UpdateStatus(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		Status TicketStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.TicketService.UpdateStatus(c.UserContext(), c.Params("id"), orgID, body.Status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Status updated", "status": body.Status})
}

// AssignTicket godoc
// @Summary Assign ticket
// @Tags ticket
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/tickets/{id}/assign [patch]
func (ctrl *TicketController) AssignTicket(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var body struct {
		AssigneeID string `json:"assignee_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if body.AssigneeID == "" {
		if err := ctrl.TicketService.UnassignTicket(c.UserContext(), c.Params("id"), orgID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Ticket unassigned"})
	}

	assigneeID, err := primitive.ObjectIDFromHex(body.AssigneeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid assignee ID"})
	}

	if err := ctrl.TicketService.AssignTicket(c.UserContext(), c.Params("id"), orgID, assigneeID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Ticket assigned"})
}

// AddComment godoc
// @Summary Add comment
// @Tags ticket
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param comment body TicketComment true "Comment"
// @Success 201 {object} TicketComment
// @Router /api/tickets/{id}/comments [post]
func (ctrl *TicketController) AddComment(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var comment TicketComment
	if err := c.BodyParser(&comment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ctrl.TicketService.AddComment(c.UserContext(), c.Params("id"), orgID, &comment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments godoc
// @Summary List comments
// @Tags ticket
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {array} TicketComment
// @Router /api/tickets/{id}/comments [get]
func (ctrl *TicketController) ListComments(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	comments, err := ctrl.TicketService.ListComments(c.UserContext(), c.Params("id"), orgID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(comments)
}
