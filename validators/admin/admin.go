package adminValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type UserListQuery struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Role   string `query:"role" validate:"omitempty,oneof=STUDENT INSTRUCTOR ADMIN"`
	Search string `query:"search" validate:"omitempty,max=100"`
}

func (q *UserListQuery) Normalize() {
	q.Role = strings.ToUpper(strings.TrimSpace(q.Role))
	q.Search = strings.TrimSpace(q.Search)
}

type BlockUserRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR ADMIN"`
}

func (r *ChangeRoleRequest) Normalize() {
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

type HidePostRequest struct {
	Hidden *bool `json:"hidden" validate:"required"`
}

func UserList() fiber.Handler {
	return validators.Query[UserListQuery]("validatedUserList", nil)
}

// BlockUser validates a block or unblock; admins cannot block themselves
func BlockUser() fiber.Handler {
	return validators.Body("validatedBlock", func(c *fiber.Ctx, req *BlockUserRequest, errors map[string]string) {
		if adminID, _ := c.Locals("userId").(uint); adminID != 0 && adminID == validators.ID(c, "id") {
			errors["id"] = "You cannot block your own account!"
		}
	})
}

func ChangeRole() fiber.Handler {
	return validators.Body("validatedRole", func(c *fiber.Ctx, req *ChangeRoleRequest, errors map[string]string) {
		if adminID, _ := c.Locals("userId").(uint); adminID != 0 && adminID == validators.ID(c, "id") {
			errors["id"] = "You cannot change your own role!"
		}
	})
}

func HidePost() fiber.Handler {
	return validators.Body[HidePostRequest]("validatedHide", nil)
}
