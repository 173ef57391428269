package supportValidators

import (
	"strings"

	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateTicketRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=100,excludesall=<>{}"`
	Message  string `json:"message" validate:"required,max=5000"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Category string `json:"category" validate:"omitempty,oneof=GENERAL TECHNICAL BILLING"`
}

func (r *CreateTicketRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	r.Priority = strings.ToUpper(strings.TrimSpace(r.Priority))
	r.Category = strings.ToUpper(strings.TrimSpace(r.Category))
	if r.Priority == "" {
		r.Priority = "MEDIUM"
	}
	if r.Category == "" {
		r.Category = "GENERAL"
	}
}

type TicketListQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Status   string `query:"status" validate:"omitempty,oneof=OPEN PENDING CLOSED"`
	Priority string `query:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Category string `query:"category" validate:"omitempty,oneof=GENERAL TECHNICAL BILLING"`
}

func (q *TicketListQuery) Normalize() {
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	q.Priority = strings.ToUpper(strings.TrimSpace(q.Priority))
	q.Category = strings.ToUpper(strings.TrimSpace(q.Category))
}

type ReplyTicketRequest struct {
	TicketID uint   `json:"ticketId" validate:"required"`
	Message  string `json:"message" validate:"required,max=5000"`
}

func (r *ReplyTicketRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

type CloseTicketRequest struct {
	TicketID uint `json:"ticketId" validate:"required"`
}

func CreateSupportTicket() fiber.Handler {
	return validators.Body[CreateTicketRequest]("validatedSupportTicket", nil)
}

// TicketList validates both the student and the admin listing filters
func TicketList() fiber.Handler {
	return validators.Query[TicketListQuery]("validatedList", nil)
}

func ReplyTicket() fiber.Handler {
	return validators.Body[ReplyTicketRequest]("validatedReply", nil)
}

func CloseTicket() fiber.Handler {
	return validators.Body[CloseTicketRequest]("validatedCloseTicket", nil)
}
