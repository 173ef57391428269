package controllers

import (
	"log"
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	courseValidator "learnit/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminPendingCourses lists courses waiting for review, oldest submission first
func AdminPendingCourses(c *fiber.Ctx) error {
	page, limit, offset := validators.Paging(c)
	query := database.Database.Db.Model(&models.Course{}).Where("status = ?", models.CoursePendingReview)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count pending courses", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.
		Where("status = ?", models.CoursePendingReview).
		Preload("Instructor", instructorSummary).
		Preload("Lessons", orderedLessonSummaries).
		Order("updated_at ASC").
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		utils.LogError("fetch pending courses", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending courses fetched successfully.", fiber.Map{
		"courses":    courses,
		"pagination": middleware.Pagination(total, page, limit),
	})
}

// AdminReviewCourse approves or rejects a course in PENDING_REVIEW. Approval
// publishes it; rejection sends it back to DRAFT with the reason.
func AdminReviewCourse(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[courseValidator.ReviewCourseRequest](c, "validatedReview")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	updates := map[string]interface{}{}
	if reqData.Action == courseValidator.ReviewApprove {
		now := time.Now().UTC()
		updates["status"] = models.CoursePublished
		updates["rejection_reason"] = ""
		updates["published_at"] = now
		course.PublishedAt = &now
		course.Status = models.CoursePublished
		course.RejectionReason = ""
	} else {
		updates["status"] = models.CourseDraft
		updates["rejection_reason"] = reqData.Reason
		course.Status = models.CourseDraft
		course.RejectionReason = reqData.Reason
	}

	result := db.Model(&models.Course{}).
		Where("id = ? AND status = ?", course.ID, models.CoursePendingReview).
		Updates(updates)
	if result.Error != nil {
		utils.LogError("review course", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only courses pending review can be reviewed!", nil)
	}

	log.Printf("[COURSE-REVIEW] course %d %s by admin %d", course.ID, reqData.Action, c.Locals("userId").(uint))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course reviewed successfully.", course)
}

// AdminUnpublishCourse takes a published course out of the catalogue
func AdminUnpublishCourse(c *fiber.Ctx) error {
	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	result := db.Model(&models.Course{}).
		Where("id = ? AND status = ?", course.ID, models.CoursePublished).
		Update("status", models.CourseUnpublished)
	if result.Error != nil {
		utils.LogError("unpublish course", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unpublish course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only published courses can be unpublished!", nil)
	}

	course.Status = models.CourseUnpublished
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course unpublished successfully.", course)
}
