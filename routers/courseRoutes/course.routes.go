package courseRoutes

import (
	controllers "learnit/controllers/course"
	"learnit/middleware"
	"learnit/models"
	"learnit/validators"
	courseValidators "learnit/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course catalogue, authoring and lesson routes
func SetupCourseRoutes(app *fiber.App) {
	authors := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)
	courseGroup := app.Group("/course")

	// Catalogue (public, published courses only)
	courseGroup.Get("/list", courseValidators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/mine", middleware.JWTMiddleware, authors, controllers.GetMyCourses)
	courseGroup.Get("/:id", validators.ParamID("id"), controllers.GetCourseDetails)

	// Authoring
	courseGroup.Post("/create", middleware.JWTMiddleware, authors, courseValidators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, validators.ParamID("id"), courseValidators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, validators.ParamID("id"), controllers.DeleteCourse)
	courseGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.ParamID("id"), controllers.SubmitCourse)
	courseGroup.Post("/:id/lesson", middleware.JWTMiddleware, validators.ParamID("id"), courseValidators.CreateLesson(), controllers.CreateLesson)

	// Enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.ParamID("id"), controllers.EnrollInCourse)
	courseGroup.Put("/:id/progress", middleware.JWTMiddleware, validators.ParamID("id"), courseValidators.UpdateProgress(), controllers.UpdateProgress)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.ParamID("id"), controllers.GetUserProgress)

	lessonGroup := app.Group("/lesson")
	lessonGroup.Get("/:id", middleware.JWTMiddleware, validators.ParamID("id"), controllers.GetLesson)
	lessonGroup.Put("/:id", middleware.JWTMiddleware, validators.ParamID("id"), courseValidators.UpdateLesson(), controllers.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, validators.ParamID("id"), controllers.DeleteLesson)
	lessonGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.ParamID("id"), controllers.CompleteLesson)
}
