package courseRoutes

import (
	controllers "learnit/controllers/course"
	"learnit/middleware"
	"learnit/validators"
	certificateValidators "learnit/validators/certificate"
	quizValidators "learnit/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz delivery, quiz authoring and certificate routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	quizGroup.Post("/submit", middleware.JWTMiddleware, quizValidators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/lesson/:lessonId", validators.ParamID("lessonId"), controllers.GetLessonQuiz)
	quizGroup.Get("/:id/manage", middleware.JWTMiddleware, validators.ParamID("id"), controllers.GetQuizForManagement)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, validators.ParamID("id"), controllers.DeleteQuiz)

	app.Post("/lesson/:id/quiz", middleware.JWTMiddleware, validators.ParamID("id"), quizValidators.UpsertQuiz(), controllers.UpsertLessonQuiz)

	certificateGroup := app.Group("/certificate")
	certificateGroup.Post("/generate", middleware.JWTMiddleware, certificateValidators.GenerateCertificate(), controllers.GenerateCertificate)
	certificateGroup.Get("/verify/:number", certificateValidators.VerifyCertificate(), controllers.VerifyCertificate)
}
