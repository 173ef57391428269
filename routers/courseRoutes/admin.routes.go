package courseRoutes

import (
	controllers "learnit/controllers/course"
	"learnit/middleware"
	"learnit/models"
	"learnit/validators"
	courseValidators "learnit/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course moderation and reporting routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminGroup := app.Group("/admin")

	adminGroup.Get("/courses/pending", middleware.JWTMiddleware, adminOnly, validators.Page(), controllers.AdminPendingCourses)
	adminGroup.Post("/course/:id/review", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), courseValidators.ReviewCourse(), controllers.AdminReviewCourse)
	adminGroup.Post("/course/:id/unpublish", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), controllers.AdminUnpublishCourse)

	adminGroup.Get("/dashboard/stats", middleware.JWTMiddleware, adminOnly, controllers.AdminDashboardStats)
	adminGroup.Get("/course/:id/enrollments/export", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), controllers.AdminExportEnrollments)
}
