package forumRoutes

import (
	controller "learnit/controllers/forum"
	"learnit/middleware"
	"learnit/validators"
	validator "learnit/validators/forum"

	"github.com/gofiber/fiber/v2"
)

func SetupForumRoutes(app *fiber.App) {
	forum := app.Group("/forum")

	forum.Get("/course/:courseId", validators.ParamID("courseId"), validators.Page(), controller.ListPosts)
	forum.Post("/course/:courseId", middleware.JWTMiddleware, validators.ParamID("courseId"), validator.CreatePost(), controller.CreatePost)
	forum.Get("/post/:id", validators.ParamID("id"), controller.GetPost)
	forum.Post("/post/:id/reply", middleware.JWTMiddleware, validators.ParamID("id"), validator.Reply(), controller.ReplyToPost)
	forum.Delete("/post/:id", middleware.JWTMiddleware, validators.ParamID("id"), controller.DeletePost)
}
