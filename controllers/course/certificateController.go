package controllers

import (
	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	certificateValidator "learnit/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// GenerateCertificate returns the caller's certificate for a completed course,
// issuing it on first request. Progress below 100 is refused no matter how many
// quizzes were passed.
func GenerateCertificate(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[certificateValidator.GenerateCertificateRequest](c, "validatedCertificate")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var progress models.Progress
	if err := db.Where("user_id = ? AND course_id = ?", userId, reqData.CourseID).First(&progress).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not completed yet!", nil)
		}
		utils.LogError("load progress", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}
	if !progress.IsComplete() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not completed yet!", fiber.Map{
			"percentage": progress.Percentage,
		})
	}

	certificate, created, err := utils.IssueCertificate(db, userId, reqData.CourseID)
	if err != nil {
		utils.LogError("issue certificate", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	if created {
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate generated successfully.", certificate)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully.", certificate)
}

// VerifyCertificate is the public lookup behind a shared certificate number
func VerifyCertificate(c *fiber.Ctx) error {
	number, _ := c.Locals("certificateNumber").(string)
	db := database.Database.Db

	var certificate models.Certificate
	if err := db.Where("certificate_number = ?", number).First(&certificate).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		utils.LogError("verify certificate", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	var user models.User
	// certificates outlive soft-deleted holders and courses
	if err := db.Unscoped().Select("id", "name").First(&user, certificate.UserID).Error; err != nil {
		utils.LogError("load certificate holder", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}
	var course models.Course
	if err := db.Unscoped().Select("id", "title").First(&course, certificate.CourseID).Error; err != nil {
		utils.LogError("load certificate course", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", fiber.Map{
		"certificateNumber": certificate.CertificateNumber,
		"certificateUrl":    certificate.CertificateURL,
		"issuedAt":          certificate.IssuedAt,
		"studentName":       user.Name,
		"courseTitle":       course.Title,
	})
}
