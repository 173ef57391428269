package middleware

import "github.com/gofiber/fiber/v2"

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// Pagination is the paging block attached to list responses
func Pagination(total int64, page, limit int) fiber.Map {
	return fiber.Map{
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
