package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccountTokenMiddleware guards a webhook route with a shared-secret
// header. The x-account-token value is compared verbatim against the
// configured token; mismatch or a missing configuration rejects the call.
func AccountTokenMiddleware(expected string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Get("x-account-token"))
		if expected == "" || token == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}
		return c.Next()
	}
}
