package courseValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

// ============ Lesson Validators ============

type CreateLessonRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Content    string `json:"content"`
	VideoURL   string `json:"videoUrl" validate:"omitempty,url"`
	OrderIndex *int   `json:"orderIndex" validate:"omitempty,gte=0"`
}

func (r *CreateLessonRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.VideoURL = strings.TrimSpace(r.VideoURL)
}

type UpdateLessonRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=3,max=200"`
	Content    *string `json:"content"`
	VideoURL   *string `json:"videoUrl" validate:"omitempty,url"`
	OrderIndex *int    `json:"orderIndex" validate:"omitempty,gte=0"`
}

func (r *UpdateLessonRequest) Normalize() {
	for _, field := range []*string{r.Title, r.Content, r.VideoURL} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

func CreateLesson() fiber.Handler {
	return validators.Body[CreateLessonRequest]("validatedLesson", nil)
}

func UpdateLesson() fiber.Handler {
	return validators.Body("validatedLesson", func(c *fiber.Ctx, req *UpdateLessonRequest, errors map[string]string) {
		if req.Title != nil && *req.Title == "" {
			errors["title"] = "title is required!"
		}
	})
}
