package courseValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

// ============ Course Validators ============

type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200,excludesall=<>{}"`
	Description  string `json:"description" validate:"required,min=5"`
	Category     string `json:"category" validate:"omitempty,max=100"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	IsPremium    bool   `json:"isPremium"`
}

func (r *CreateCourseRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.ThumbnailURL = strings.TrimSpace(r.ThumbnailURL)
}

type UpdateCourseRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=200,excludesall=<>{}"`
	Description  *string `json:"description" validate:"omitempty,min=5"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	ThumbnailURL *string `json:"thumbnailUrl" validate:"omitempty,url"`
	IsPremium    *bool   `json:"isPremium"`
}

func (r *UpdateCourseRequest) Normalize() {
	for _, field := range []*string{r.Title, r.Description, r.Category, r.ThumbnailURL} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

type CourseListQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Search   string `query:"search" validate:"omitempty,max=100"`
	Category string `query:"category" validate:"omitempty,max=100"`
}

func (q *CourseListQuery) Normalize() {
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
}

// CreateCourse validates course creation by an instructor or admin
func CreateCourse() fiber.Handler {
	return validators.Body[CreateCourseRequest]("validatedCourse", nil)
}

// UpdateCourse validates a partial course update
func UpdateCourse() fiber.Handler {
	return validators.Body("validatedCourse", func(c *fiber.Ctx, req *UpdateCourseRequest, errors map[string]string) {
		if req.Title != nil && *req.Title == "" {
			errors["title"] = "title is required!"
		}
		if req.Description != nil && *req.Description == "" {
			errors["description"] = "description is required!"
		}
	})
}

// CourseList validates the public catalogue query
func CourseList() fiber.Handler {
	return validators.Query[CourseListQuery]("validatedCourseList", nil)
}
