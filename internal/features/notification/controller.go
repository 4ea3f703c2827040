package notification

import (
	"go-helpdesk/internal/common/api"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	Service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{
		Service: service,
	}
}

// ListNotifications godoc
// @Summary List notifications
// @Description List recent notifications for the authenticated user
// @Tags notification
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {array} Notification
// @Router /api/notifications [get]
func (ctrl *NotificationController) ListNotifications(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	limit := int64(c.QueryInt("limit", 50))
	notifications, err := ctrl.Service.ListNotifications(c.UserContext(), orgID, userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(notifications)
}

// MarkRead godoc
// @Summary Mark notification read
// @Tags notification
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/{id}/read [patch]
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	orgID, err := api.OrgScope(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctrl.Service.MarkRead(c.UserContext(), c.Params("id"), orgID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
