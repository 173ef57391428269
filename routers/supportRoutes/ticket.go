package supportRoutes

import (
	controller "learnit/controllers/support"
	"learnit/middleware"
	"learnit/models"
	validator "learnit/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	support := app.Group("/support")

	support.Post("/create", middleware.JWTMiddleware, validator.CreateSupportTicket(), controller.CreateSupportTicket)
	support.Get("/list", middleware.JWTMiddleware, validator.TicketList(), controller.TicketList)
	support.Post("/user-reply", middleware.JWTMiddleware, validator.ReplyTicket(), controller.UserReplyTicket)
	support.Post("/user-close-ticket", middleware.JWTMiddleware, validator.CloseTicket(), controller.UserCloseTicket)

	support.Get("/admin-list", middleware.JWTMiddleware, adminOnly, validator.TicketList(), controller.AdminTicketList)
	support.Get("/admin-stats", middleware.JWTMiddleware, adminOnly, controller.AdminTicketStats)
	support.Post("/admin-reply", middleware.JWTMiddleware, adminOnly, validator.ReplyTicket(), controller.AdminReplyTicket)
	support.Post("/admin-close-ticket", middleware.JWTMiddleware, adminOnly, validator.CloseTicket(), controller.AdminCloseTicket)
}
