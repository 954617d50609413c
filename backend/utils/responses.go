package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Success writes the {success: true, ...} envelope with the payload keys
// at the top level, matching the convention the pages render from.
func Success(c *fiber.Ctx, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(body)
}

// SuccessMessage writes a bare success envelope with just a message.
func SuccessMessage(c *fiber.Ctx, message string) error {
	return Success(c, fiber.Map{"message": message})
}

// Error writes the {success: false, message} envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// BadRequest sends a 400 error envelope.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 error envelope.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// BadGateway sends a 502 error envelope; used when the upstream backend
// is unreachable or answered with junk.
func BadGateway(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadGateway, message)
}
