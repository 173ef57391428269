package certificateValidator

import (
	"strings"

	"learnit/middleware"
	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type GenerateCertificateRequest struct {
	CourseID uint `json:"courseId" validate:"required"`
}

func GenerateCertificate() fiber.Handler {
	return validators.Body[GenerateCertificateRequest]("validatedCertificate", nil)
}

// VerifyCertificate checks the shape of a public certificate number
func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
		if number == "" || len(number) > 64 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate number!", nil)
		}
		c.Locals("certificateNumber", number)
		return c.Next()
	}
}
