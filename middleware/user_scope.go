package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber.Ctx locals key set by UserScope.
const UserIDKey = "userID"

// UserScope requires the X-User-ID header set by the fronting auth proxy
// and exposes it to handlers. Requests without it are rejected.
func UserScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Missing X-User-ID header",
			})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID reads the scoped user id set by UserScope.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
