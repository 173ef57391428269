package authRoutes

import (
	"time"

	authControllers "learnit/controllers/auth"
	"learnit/middleware"
	"learnit/validators"
	authValidators "learnit/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	// Credential endpoints get a tighter per-IP budget than the rest of the API
	credentialLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many attempts, please try again later.", nil)
		},
	})

	authGroup.Post("/signup", credentialLimiter, authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", credentialLimiter, authValidators.Login(), authControllers.Login)
	authGroup.Get("/login/history", middleware.JWTMiddleware, validators.Page(), authControllers.LoginHistory)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)
	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidators.ChangePassword(), authControllers.ChangePassword)
}
