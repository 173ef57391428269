package authValidator

import (
	"strings"

	"learnit/models"
	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100,excludesall=<>{}"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT INSTRUCTOR"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	if r.Role == "" {
		r.Role = models.RoleStudent
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return validators.Body[SignupRequest]("validatedUser", nil)
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body[LoginRequest]("validatedLogin", nil)
}

func ChangePassword() fiber.Handler {
	return validators.Body("validatedPassword", func(c *fiber.Ctx, req *ChangePasswordRequest, errors map[string]string) {
		if req.OldPassword != "" && req.OldPassword == req.NewPassword {
			errors["newPassword"] = "New password must differ from the old password!"
		}
	})
}
