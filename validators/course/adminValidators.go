package courseValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	ReviewApprove = "APPROVE"
	ReviewReject  = "REJECT"
)

type ReviewCourseRequest struct {
	Action string `json:"action" validate:"required,oneof=APPROVE REJECT"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *ReviewCourseRequest) Normalize() {
	r.Action = strings.ToUpper(strings.TrimSpace(r.Action))
	r.Reason = strings.TrimSpace(r.Reason)
}

// ReviewCourse validates an admin decision on a course awaiting review.
// A rejection must carry a reason for the instructor.
func ReviewCourse() fiber.Handler {
	return validators.Body("validatedReview", func(c *fiber.Ctx, req *ReviewCourseRequest, errors map[string]string) {
		if req.Action == ReviewReject && req.Reason == "" {
			errors["reason"] = "reason is required when rejecting a course!"
		}
	})
}
