package utils

import "github.com/gofiber/fiber/v2"

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope. The underlying error is
// logged but only surfaced to the client outside production.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil {
		GetLogger().WithError(err).Warn(message)
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}
