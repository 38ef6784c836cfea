package handlers

import "github.com/gofiber/fiber/v2"

// respond wraps every successful payload in the {data, statusCode}
// envelope clients unwrap transparently.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"data":       data,
		"statusCode": status,
	})
}
