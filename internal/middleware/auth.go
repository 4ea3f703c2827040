package middleware

import (
	common_models "go-helpdesk/internal/common/models"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMiddleware validates JWT tokens and injects user claims plus the
// organization scope into the request context.
func AuthMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			// Inject dummy context for dev
			dummyClaims := &utils.UserClaims{
				UserID:         primitive.NilObjectID.Hex(),
				OrganizationID: primitive.NilObjectID.Hex(),
				Roles:          []string{common_models.RoleAdmin},
			}
			c.Locals(utils.UserClaimsKey, dummyClaims)
			c.Locals(string(common_models.OrgIDKey), dummyClaims.OrganizationID)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		// Extract token from "Bearer <token>"
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := authHeader[7:]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(utils.UserClaimsKey, claims)
		if claims.OrganizationID != "" {
			c.Locals(string(common_models.OrgIDKey), claims.OrganizationID)
		}
		return c.Next()
	}
}
