package middleware

import (
	"strings"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gofiber/fiber/v3"
)

// UserIDKey is the Locals key holding the authenticated subject
const UserIDKey = "user_id"

// ClerkAuth middleware validates Clerk JWT tokens
func ClerkAuth(secretKey string) fiber.Handler {
	clerk.SetKey(secretKey)

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		// Remove "Bearer " prefix
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := jwt.Verify(c.Context(), &jwt.VerifyParams{
			Token: token,
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Invalid or expired token",
				"details": err.Error(),
			})
		}

		// Uploads in the session store are keyed to this subject
		c.Locals(UserIDKey, claims.Subject)

		return c.Next()
	}
}

// UserID returns the authenticated subject, or "" when auth is disabled
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
