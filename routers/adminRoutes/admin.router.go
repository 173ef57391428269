package adminRoutes

import (
	adminController "learnit/controllers/admin"
	"learnit/middleware"
	"learnit/models"
	"learnit/validators"
	adminValidator "learnit/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up user and forum moderation routes
func SetupAdminRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	admin := app.Group("/admin")

	admin.Get("/users", middleware.JWTMiddleware, adminOnly, adminValidator.UserList(), adminController.UserList)
	admin.Post("/user/:id/block", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), adminValidator.BlockUser(), adminController.BlockUser)
	admin.Put("/user/:id/role", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), adminValidator.ChangeRole(), adminController.ChangeUserRole)
	admin.Post("/forum/post/:id/hide", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), adminValidator.HidePost(), adminController.HideForumPost)
}
