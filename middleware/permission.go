package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that lets the request through only when the
// role claim set by JWTMiddleware is one of roles.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		role, _ := c.Locals("role").(string)
		if !allowed[role] {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}

		return c.Next()
	}
}
