package serverutils

import (
	"strings"

	"fundoo-notes-be/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIdLocalsKey = "auth_user_id"

// AuthMiddleware rejects requests without a valid bearer access token and
// stores the authenticated user id on the request context.
func AuthMiddleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return ErrUnauthorized
		}

		userId, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "), constant.TokenPurposeAccess)
		if err != nil {
			return ErrUnauthorized
		}

		c.Locals(userIdLocalsKey, userId)
		return c.Next()
	}
}

// AuthenticatedUserId reads the user id stored by AuthMiddleware.
func AuthenticatedUserId(c *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := c.Locals(userIdLocalsKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}
	return userId, nil
}
