package userValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=3,max=100,excludesall=<>{}"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

func (r *UpdateProfileRequest) Normalize() {
	for _, field := range []*string{r.Name, r.Bio, r.AvatarURL} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

type AttemptsQuery struct {
	QuizID uint `query:"quizId"`
	Page   int  `query:"page" validate:"omitempty,min=1"`
	Limit  int  `query:"limit" validate:"omitempty,min=1,max=100"`
}

// UpdateProfile validates the editable profile fields; at least one must be sent
func UpdateProfile() fiber.Handler {
	return validators.Body("validatedProfile", func(c *fiber.Ctx, req *UpdateProfileRequest, errors map[string]string) {
		if req.Name == nil && req.Bio == nil && req.AvatarURL == nil {
			errors["profile"] = "Nothing to update!"
		}
		if req.Name != nil && *req.Name == "" {
			errors["name"] = "name is required!"
		}
	})
}

func Attempts() fiber.Handler {
	return validators.Query[AttemptsQuery]("validatedAttempts", nil)
}
