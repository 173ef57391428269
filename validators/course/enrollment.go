package courseValidator

import (
	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type ProgressRequest struct {
	Percentage *float64 `json:"percentage" validate:"required,gte=0,lte=100"`
}

// UpdateProgress validates a manual progress update
func UpdateProgress() fiber.Handler {
	return validators.Body[ProgressRequest]("validatedProgress", nil)
}
