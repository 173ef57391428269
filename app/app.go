package app

import (
	"errors"
	"time"

	"learnit/config"
	"learnit/middleware"
	adminRoutes "learnit/routers/adminRoutes"
	authRoutes "learnit/routers/authRoutes"
	courseRoutes "learnit/routers/courseRoutes"
	forumRoutes "learnit/routers/forumRoutes"
	subscriptionRoutes "learnit/routers/subscriptionRoutes"
	supportRoutes "learnit/routers/supportRoutes"
	userProfileRoutes "learnit/routers/userRoutes"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// errorHandler keeps framework errors (unknown routes, panics) in the response envelope
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong!"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}

// NewApp builds the HTTP application with every route registered
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "LearnIt",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.CorsAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests, please slow down.", nil)
		},
	}))

	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{"env": config.AppConfig.Env})
	})

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupQuizRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	subscriptionRoutes.SetupSubscriptionRoutes(app)
	supportRoutes.SetupSupportRoutes(app)
	forumRoutes.SetupForumRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	return app
}
