package controllers

import (
	"strings"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	courseValidator "learnit/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func instructorSummary(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "avatar_url", "bio")
}

func orderedLessonSummaries(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "course_id", "title", "order_index").Order("order_index ASC, id ASC")
}

// GetAllCourses lists published courses for the public catalogue
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[courseValidator.CourseListQuery](c, "validatedCourseList")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	paging := validators.PageQuery{Page: reqData.Page, Limit: reqData.Limit}
	offset := paging.Normalize()

	query := database.Database.Db.Model(&models.Course{}).Where("status = ?", models.CoursePublished)
	if reqData.Search != "" {
		like := "%" + strings.ToLower(reqData.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if reqData.Category != "" {
		query = query.Where("category = ?", reqData.Category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count courses", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []models.Course
	if err := query.Preload("Instructor", instructorSummary).
		Order("published_at DESC, id DESC").
		Offset(offset).Limit(paging.Limit).
		Find(&courses).Error; err != nil {
		utils.LogError("fetch courses", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", fiber.Map{
		"courses":    courses,
		"pagination": middleware.Pagination(total, paging.Page, paging.Limit),
	})
}

// GetCourseDetails returns a published course with its ordered lesson summaries
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := validators.ID(c, "id")

	var course models.Course
	err := database.Database.Db.
		Where("id = ? AND status = ?", courseID, models.CoursePublished).
		Preload("Instructor", instructorSummary).
		Preload("Lessons", orderedLessonSummaries).
		First(&course).Error
	if err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		utils.LogError("fetch course details", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", course)
}

// GetMyCourses lists the caller's authored courses in any status
func GetMyCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var courses []models.Course
	if err := database.Database.Db.
		Where("instructor_id = ?", userId).
		Preload("Lessons", orderedLessonSummaries).
		Order("updated_at DESC").
		Find(&courses).Error; err != nil {
		utils.LogError("fetch instructor courses", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully.", courses)
}

func CreateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[courseValidator.CreateCourseRequest](c, "validatedCourse")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		InstructorID: userId,
		Title:        reqData.Title,
		Description:  reqData.Description,
		Category:     reqData.Category,
		ThumbnailURL: reqData.ThumbnailURL,
		IsPremium:    reqData.IsPremium,
		Status:       models.CourseDraft,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		utils.LogError("create course", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[courseValidator.UpdateCourseRequest](c, "validatedCourse")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if !canManage(c, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own courses!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.ThumbnailURL != nil {
		updates["thumbnail_url"] = *reqData.ThumbnailURL
	}
	if reqData.IsPremium != nil {
		updates["is_premium"] = *reqData.IsPremium
	}

	if len(updates) > 0 {
		if err := db.Model(course).Updates(updates).Error; err != nil {
			utils.LogError("update course", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

// DeleteCourse soft-deletes the course and its lessons
func DeleteCourse(c *fiber.Ctx) error {
	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if !canManage(c, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own courses!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		utils.LogError("delete course", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// SubmitCourse sends a draft or unpublished course to admin review
func SubmitCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if course.InstructorID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only submit your own courses!", nil)
	}

	var lessons int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessons).Error; err != nil {
		utils.LogError("count lessons", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit course!", nil)
	}
	if lessons == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Add at least one lesson before submitting!", nil)
	}

	// The status guard in the WHERE keeps concurrent transitions from overwriting each other
	result := db.Model(&models.Course{}).
		Where("id = ? AND status IN ?", course.ID, []string{models.CourseDraft, models.CourseUnpublished}).
		Updates(map[string]interface{}{"status": models.CoursePendingReview, "rejection_reason": ""})
	if result.Error != nil {
		utils.LogError("submit course", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft or unpublished courses can be submitted for review!", nil)
	}

	course.Status = models.CoursePendingReview
	course.RejectionReason = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course submitted for review.", course)
}
