package forumValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type CreatePostRequest struct {
	Title string `json:"title" validate:"required,min=3,max=200,excludesall=<>{}"`
	Body  string `json:"body" validate:"required,max=10000"`
}

func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
}

type ReplyRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

func (r *ReplyRequest) Normalize() {
	r.Body = strings.TrimSpace(r.Body)
}

func CreatePost() fiber.Handler {
	return validators.Body[CreatePostRequest]("validatedPost", nil)
}

func Reply() fiber.Handler {
	return validators.Body[ReplyRequest]("validatedReply", nil)
}
