package middleware

import (
	"github.com/gofiber/fiber/v2"

	"sqlify/backend/models"
	"sqlify/backend/session"
)

const sessionKey = "session"

// AttachSession derives the canonical session once per request so every
// handler reads the same snapshot.
func AttachSession(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sessionKey, sessions.Get())
		return c.Next()
	}
}

// SessionFrom returns the session attached to the request, or a guest
// session when the middleware did not run.
func SessionFrom(c *fiber.Ctx) models.Session {
	if s, ok := c.Locals(sessionKey).(models.Session); ok {
		return s
	}
	return models.ReadSession(nil)
}

// RequireRole blocks pages whose actions the current role does not own.
// No upstream call happens for a blocked page: the client gets the
// unauthorized view with a single way back.
func RequireRole(sessions *session.Store, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessions.Get()
		if sess.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "unauthorized",
				"view":    "unauthorized",
				"actions": []string{"go-back"},
			})
		}
		c.Locals(sessionKey, sess)
		return c.Next()
	}
}
