package supportControllers

import (
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	supportValidators "learnit/validators/support"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	senderUser  = "user"
	senderAdmin = "admin"
)

func newMessage(sender, text string) models.TicketMessage {
	return models.TicketMessage{
		Sender: sender,
		Text:   text,
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}

func CreateSupportTicket(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[supportValidators.CreateTicketRequest](c, "validatedSupportTicket")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ticket := models.SupportTicket{
		UserID:   userId,
		Title:    reqData.Title,
		Messages: []models.TicketMessage{newMessage(senderUser, reqData.Message)},
		Status:   models.TicketOpen,
		Priority: reqData.Priority,
		Category: reqData.Category,
	}

	if err := database.Database.Db.Create(&ticket).Error; err != nil {
		utils.LogError("create support ticket", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create support ticket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Support ticket created successfully!", ticket)
}

func listTickets(c *fiber.Ctx, query *gorm.DB) error {
	reqData, ok := validators.Validated[supportValidators.TicketListQuery](c, "validatedList")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	paging := validators.PageQuery{Page: reqData.Page, Limit: reqData.Limit}
	offset := paging.Normalize()

	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}
	if reqData.Priority != "" {
		query = query.Where("priority = ?", reqData.Priority)
	}
	if reqData.Category != "" {
		query = query.Where("category = ?", reqData.Category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count tickets", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	var tickets []models.SupportTicket
	if err := query.Order("created_at DESC").Offset(offset).Limit(paging.Limit).Find(&tickets).Error; err != nil {
		utils.LogError("fetch tickets", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", fiber.Map{
		"tickets":    tickets,
		"pagination": middleware.Pagination(total, paging.Page, paging.Limit),
	})
}

func TicketList(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	return listTickets(c, database.Database.Db.Model(&models.SupportTicket{}).Where("user_id = ?", userId))
}

func AdminTicketList(c *fiber.Ctx) error {
	return listTickets(c, database.Database.Db.Model(&models.SupportTicket{}))
}

// findTicket loads a ticket; ownerID 0 skips the ownership check
func findTicket(ticketID, ownerID uint) (*models.SupportTicket, int, string) {
	query := database.Database.Db.Where("id = ?", ticketID)
	if ownerID != 0 {
		query = query.Where("user_id = ?", ownerID)
	}

	var ticket models.SupportTicket
	if err := query.First(&ticket).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "Ticket not found!"
		}
		utils.LogError("load ticket", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch ticket!"
	}
	return &ticket, fiber.StatusOK, ""
}

// appendReply adds a message to an open ticket and moves it to status
func appendReply(ticket *models.SupportTicket, sender, text, status string) error {
	ticket.Messages = append(ticket.Messages, newMessage(sender, text))
	ticket.Status = status
	return database.Database.Db.Model(ticket).Updates(map[string]interface{}{
		"messages": ticket.Messages,
		"status":   status,
	}).Error
}

func UserReplyTicket(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[supportValidators.ReplyTicketRequest](c, "validatedReply")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ticket, status, msg := findTicket(reqData.TicketID, userId)
	if ticket == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if ticket.Status == models.TicketClosed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Ticket is closed!", nil)
	}

	if err := appendReply(ticket, senderUser, reqData.Message, models.TicketOpen); err != nil {
		utils.LogError("user reply ticket", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reply to ticket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply added successfully!", ticket)
}

// AdminReplyTicket answers a ticket, marks it PENDING on the user and e-mails the owner
func AdminReplyTicket(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[supportValidators.ReplyTicketRequest](c, "validatedReply")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ticket, status, msg := findTicket(reqData.TicketID, 0)
	if ticket == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if ticket.Status == models.TicketClosed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Ticket is closed!", nil)
	}

	if err := appendReply(ticket, senderAdmin, reqData.Message, models.TicketPending); err != nil {
		utils.LogError("admin reply ticket", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reply to ticket!", nil)
	}

	var owner models.User
	if err := database.Database.Db.Select("id", "name", "email").First(&owner, ticket.UserID).Error; err == nil {
		utils.SendSupportReplyEmail(owner.Email, owner.Name, ticket.Title, reqData.Message)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply sent successfully!", ticket)
}

func closeTicket(c *fiber.Ctx, ownerID uint) error {
	reqData, ok := validators.Validated[supportValidators.CloseTicketRequest](c, "validatedCloseTicket")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ticket, status, msg := findTicket(reqData.TicketID, ownerID)
	if ticket == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if ticket.Status == models.TicketClosed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Ticket is already closed!", nil)
	}

	if err := database.Database.Db.Model(ticket).Update("status", models.TicketClosed).Error; err != nil {
		utils.LogError("close ticket", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close ticket!", nil)
	}
	ticket.Status = models.TicketClosed

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket closed successfully!", ticket)
}

func UserCloseTicket(c *fiber.Ctx) error {
	return closeTicket(c, c.Locals("userId").(uint))
}

func AdminCloseTicket(c *fiber.Ctx) error {
	return closeTicket(c, 0)
}

// AdminTicketStats counts tickets per status, priority and category
func AdminTicketStats(c *fiber.Ctx) error {
	type row struct {
		Status   string
		Priority string
		Category string
		Total    int64
	}

	var rows []row
	if err := database.Database.Db.Model(&models.SupportTicket{}).
		Select("status, priority, category, COUNT(*) AS total").
		Group("status, priority, category").
		Scan(&rows).Error; err != nil {
		utils.LogError("ticket stats", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket stats!", nil)
	}

	byStatus := map[string]int64{models.TicketOpen: 0, models.TicketPending: 0, models.TicketClosed: 0}
	byPriority := map[string]int64{}
	byCategory := map[string]int64{}
	var total int64
	for _, r := range rows {
		byStatus[r.Status] += r.Total
		byPriority[r.Priority] += r.Total
		byCategory[r.Category] += r.Total
		total += r.Total
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket stats fetched successfully!", fiber.Map{
		"total":      total,
		"byStatus":   byStatus,
		"byPriority": byPriority,
		"byCategory": byCategory,
	})
}
