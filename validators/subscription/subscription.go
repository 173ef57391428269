package subscriptionValidator

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type SubscribeRequest struct {
	PlanID    uint   `json:"planId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required,max=100"`
}

func (r *SubscribeRequest) Normalize() {
	r.PaymentID = strings.TrimSpace(r.PaymentID)
}

type PlanRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Period      string  `json:"period" validate:"required,oneof=MONTHLY YEARLY"`
	IsActive    *bool   `json:"isActive"`
}

func (r *PlanRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Period = strings.ToUpper(strings.TrimSpace(r.Period))
}

type UpdatePlanRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Period      *string  `json:"period" validate:"omitempty,oneof=MONTHLY YEARLY"`
	IsActive    *bool    `json:"isActive"`
}

func (r *UpdatePlanRequest) Normalize() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
	}
	if r.Period != nil {
		*r.Period = strings.ToUpper(strings.TrimSpace(*r.Period))
	}
}

func Subscribe() fiber.Handler {
	return validators.Body[SubscribeRequest]("validatedSubscription", nil)
}

func CreatePlan() fiber.Handler {
	return validators.Body[PlanRequest]("validatedPlan", nil)
}

func UpdatePlan() fiber.Handler {
	return validators.Body("validatedPlan", func(c *fiber.Ctx, req *UpdatePlanRequest, errors map[string]string) {
		if req.Name != nil && *req.Name == "" {
			errors["name"] = "name is required!"
		}
	})
}
