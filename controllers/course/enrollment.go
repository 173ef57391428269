package controllers

import (
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	courseValidator "learnit/validators/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller in a published course. Premium courses need an
// active subscription.
func EnrollInCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if course.Status != models.CoursePublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.IsPremium {
		active, err := utils.HasActiveSubscription(db, userId, time.Now())
		if err != nil {
			utils.LogError("check subscription", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
		}
		if !active {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "An active subscription is required for premium courses!", nil)
		}
	}

	enrollment := models.Enrollment{UserID: userId, CourseID: course.ID, EnrolledAt: time.Now().UTC()}
	if err := db.Create(&enrollment).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
		}
		utils.LogError("create enrollment", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	var user models.User
	if err := db.Select("id", "name", "email").First(&user, userId).Error; err == nil {
		utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully.", enrollment)
}

// UpdateProgress sets the caller's completion percentage for a course
func UpdateProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[courseValidator.ProgressRequest](c, "validatedProgress")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	enrolled, err := isEnrolled(db, userId, course.ID)
	if err != nil {
		utils.LogError("check enrollment", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
	if !enrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	progress, err := utils.SetProgress(db, userId, course.ID, *reqData.Percentage)
	if err != nil {
		utils.LogError("set progress", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully.", progress)
}

func GetUserProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db
	courseID := validators.ID(c, "id")

	enrolled, err := isEnrolled(db, userId, courseID)
	if err != nil {
		utils.LogError("check enrollment", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}
	if !enrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	progress := models.Progress{UserID: userId, CourseID: courseID}
	if err := db.Where("user_id = ? AND course_id = ?", userId, courseID).First(&progress).Error; err != nil && !utils.IsNotFound(err) {
		utils.LogError("fetch progress", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var completedLessons []uint
	if err := db.Model(&models.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userId, courseID).
		Pluck("lesson_id", &completedLessons).Error; err != nil {
		utils.LogError("fetch lesson completions", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var certificate *models.Certificate
	if cert, err := utils.FindCertificate(db, userId, courseID); err == nil {
		certificate = cert
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", fiber.Map{
		"progress":         progress,
		"completedLessons": completedLessons,
		"certificate":      certificate,
	})
}
