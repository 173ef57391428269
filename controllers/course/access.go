package controllers

import (
	"learnit/models"
	"learnit/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// canManage reports whether the caller owns the course or is an admin
func canManage(c *fiber.Ctx, course *models.Course) bool {
	userId, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	return role == models.RoleAdmin || (userId != 0 && course.InstructorID == userId)
}

func isEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count > 0, err
}

// findCourse loads a course by id. A nil course comes with the status and message to answer.
func findCourse(db *gorm.DB, id uint) (*models.Course, int, string) {
	var course models.Course
	if err := db.First(&course, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "Course not found!"
		}
		utils.LogError("load course", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch course!"
	}
	return &course, fiber.StatusOK, ""
}

// findLesson loads a lesson together with its course
func findLesson(db *gorm.DB, id uint) (*models.Lesson, *models.Course, int, string) {
	var lesson models.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, nil, fiber.StatusNotFound, "Lesson not found!"
		}
		utils.LogError("load lesson", err)
		return nil, nil, fiber.StatusInternalServerError, "Failed to fetch lesson!"
	}
	course, status, msg := findCourse(db, lesson.CourseID)
	if course == nil {
		return nil, nil, status, msg
	}
	return &lesson, course, fiber.StatusOK, ""
}
