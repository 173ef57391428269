package userController

import (
	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	userValidator "learnit/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollmentView is an enrollment with the student's progress on the course
type EnrollmentView struct {
	models.Enrollment
	Progress    float64 `json:"progress"`
	IsCompleted bool    `json:"isCompleted"`
}

func GetProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[userValidator.UpdateProfileRequest](c, "validatedProfile")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Bio != nil {
		updates["bio"] = *reqData.Bio
	}
	if reqData.AvatarURL != nil {
		updates["avatar_url"] = *reqData.AvatarURL
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		utils.LogError("update profile", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

func GetEnrollments(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", userId).
		Preload("Course", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "category", "thumbnail_url", "is_premium", "status", "instructor_id")
		}).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		utils.LogError("fetch enrollments", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var progressRows []models.Progress
	if err := db.Where("user_id = ?", userId).Find(&progressRows).Error; err != nil {
		utils.LogError("fetch progress", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}
	progressByCourse := make(map[uint]models.Progress, len(progressRows))
	for _, p := range progressRows {
		progressByCourse[p.CourseID] = p
	}

	views := make([]EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		p := progressByCourse[e.CourseID]
		views = append(views, EnrollmentView{Enrollment: e, Progress: p.Percentage, IsCompleted: p.IsComplete()})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", views)
}

func GetCertificates(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var certificates []models.Certificate
	if err := database.Database.Db.Where("user_id = ?", userId).Order("issued_at DESC").Find(&certificates).Error; err != nil {
		utils.LogError("fetch certificates", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully.", certificates)
}

// GetAttempts lists the caller's quiz attempts, newest first
func GetAttempts(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[userValidator.AttemptsQuery](c, "validatedAttempts")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	paging := validators.PageQuery{Page: reqData.Page, Limit: reqData.Limit}
	offset := paging.Normalize()

	query := database.Database.Db.Model(&models.QuizAttempt{}).Where("user_id = ?", userId)
	if reqData.QuizID != 0 {
		query = query.Where("quiz_id = ?", reqData.QuizID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count attempts", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	var attempts []models.QuizAttempt
	if err := query.Order("submitted_at DESC, id DESC").Offset(offset).Limit(paging.Limit).Find(&attempts).Error; err != nil {
		utils.LogError("fetch attempts", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully.", fiber.Map{
		"attempts":   attempts,
		"pagination": middleware.Pagination(total, paging.Page, paging.Limit),
	})
}
