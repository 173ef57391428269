package subscriptionRoutes

import (
	controller "learnit/controllers/subscription"
	"learnit/middleware"
	"learnit/models"
	"learnit/validators"
	validator "learnit/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

func SetupSubscriptionRoutes(app *fiber.App) {
	subscription := app.Group("/subscription")

	subscription.Get("/plans", controller.GetPlans)
	subscription.Post("/subscribe", middleware.JWTMiddleware, validator.Subscribe(), controller.Subscribe)
	subscription.Get("/me", middleware.JWTMiddleware, controller.MySubscription)
	subscription.Post("/cancel", middleware.JWTMiddleware, controller.CancelSubscription)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	admin := app.Group("/admin")
	admin.Post("/plans", middleware.JWTMiddleware, adminOnly, validator.CreatePlan(), controller.CreatePlan)
	admin.Put("/plans/:id", middleware.JWTMiddleware, adminOnly, validators.ParamID("id"), validator.UpdatePlan(), controller.UpdatePlan)
	admin.Get("/subscriptions", middleware.JWTMiddleware, adminOnly, validators.Page(), controller.GetAllSubscriptions)
}
