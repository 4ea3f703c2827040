package api

import (
	"errors"

	common_models "go-helpdesk/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrMissingOrgScope = errors.New("missing organization scope")

// OrgScope resolves the organization the request is acting on behalf of.
// The auth middleware stores it as a hex string local.
func OrgScope(c *fiber.Ctx) (primitive.ObjectID, error) {
	raw, ok := c.Locals(string(common_models.OrgIDKey)).(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, ErrMissingOrgScope
	}
	orgID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrMissingOrgScope
	}
	return orgID, nil
}
