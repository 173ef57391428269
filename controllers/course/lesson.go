package controllers

import (
	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	courseValidator "learnit/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

func CreateLesson(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[courseValidator.CreateLessonRequest](c, "validatedLesson")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if !canManage(c, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only add lessons to your own courses!", nil)
	}

	lesson := models.Lesson{
		CourseID: course.ID,
		Title:    reqData.Title,
		Content:  reqData.Content,
		VideoURL: reqData.VideoURL,
	}
	if reqData.OrderIndex != nil {
		lesson.OrderIndex = *reqData.OrderIndex
	} else {
		// Append after the last lesson
		var count int64
		if err := db.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
			utils.LogError("count lessons", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
		}
		lesson.OrderIndex = int(count)
	}

	if err := db.Create(&lesson).Error; err != nil {
		utils.LogError("create lesson", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully.", lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[courseValidator.UpdateLessonRequest](c, "validatedLesson")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	lesson, course, status, msg := findLesson(db, validators.ID(c, "id"))
	if lesson == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if !canManage(c, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit lessons of your own courses!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Content != nil {
		updates["content"] = *reqData.Content
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}

	if len(updates) > 0 {
		if err := db.Model(lesson).Updates(updates).Error; err != nil {
			utils.LogError("update lesson", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully.", lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	db := database.Database.Db
	lesson, course, status, msg := findLesson(db, validators.ID(c, "id"))
	if lesson == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if !canManage(c, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete lessons of your own courses!", nil)
	}

	if err := db.Delete(lesson).Error; err != nil {
		utils.LogError("delete lesson", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully.", nil)
}

// GetLesson returns the full lesson to the course owner, admins and enrolled students.
// Students only see lessons of published courses.
func GetLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	lesson, course, status, msg := findLesson(db, validators.ID(c, "id"))
	if lesson == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	if !canManage(c, course) {
		if course.Status != models.CoursePublished {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		enrolled, err := isEnrolled(db, userId, course.ID)
		if err != nil {
			utils.LogError("check enrollment", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson!", nil)
		}
		if !enrolled {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in the course to view its lessons!", nil)
		}
	}

	var quizID *uint
	var quiz models.Quiz
	if err := db.Select("id").Where("lesson_id = ?", lesson.ID).First(&quiz).Error; err == nil {
		quizID = &quiz.ID
	} else if !utils.IsNotFound(err) {
		utils.LogError("look up lesson quiz", err)
	}

	var completed int64
	db.Model(&models.LessonCompletion{}).Where("user_id = ? AND lesson_id = ?", userId, lesson.ID).Count(&completed)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully.", fiber.Map{
		"lesson":    lesson,
		"quizId":    quizID,
		"completed": completed > 0,
	})
}

// CompleteLesson records the lesson as done and recomputes course progress
func CompleteLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	lesson, course, status, msg := findLesson(db, validators.ID(c, "id"))
	if lesson == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	enrolled, err := isEnrolled(db, userId, course.ID)
	if err != nil {
		utils.LogError("check enrollment", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}
	if !enrolled {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	completion := models.LessonCompletion{UserID: userId, LessonID: lesson.ID, CourseID: course.ID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil && !utils.IsDuplicateKey(err) {
		utils.LogError("record lesson completion", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}

	progress, err := utils.RecalculateProgress(db, userId, course.ID)
	if err != nil {
		utils.LogError("recalculate progress", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete.", progress)
}
