package userProfileRoutes

import (
	userProfileController "learnit/controllers/userControllers"
	"learnit/middleware"
	userProfileValidator "learnit/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	userGroup.Get("/enrollments", middleware.JWTMiddleware, userProfileController.GetEnrollments)
	userGroup.Get("/certificates", middleware.JWTMiddleware, userProfileController.GetCertificates)
	userGroup.Get("/attempts", middleware.JWTMiddleware, userProfileValidator.Attempts(), userProfileController.GetAttempts)
}
