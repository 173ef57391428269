package subscriptionController

import (
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	subscriptionValidator "learnit/validators/subscription"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreatePlan(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[subscriptionValidator.PlanRequest](c, "validatedPlan")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	active := reqData.IsActive == nil || *reqData.IsActive
	plan := models.SubscriptionPlan{
		Name:        reqData.Name,
		Description: reqData.Description,
		Price:       reqData.Price,
		Period:      reqData.Period,
		IsActive:    active,
	}
	db := database.Database.Db
	if err := db.Create(&plan).Error; err != nil {
		utils.LogError("create plan", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create plan!", nil)
	}
	// false is the zero value, so the column default wins on insert
	if !active {
		if err := db.Model(&plan).Update("is_active", false).Error; err != nil {
			utils.LogError("deactivate plan", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Plan created successfully.", plan)
}

func UpdatePlan(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[subscriptionValidator.UpdatePlanRequest](c, "validatedPlan")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var plan models.SubscriptionPlan
	if err := db.First(&plan, validators.ID(c, "id")).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Plan not found!", nil)
		}
		utils.LogError("load plan", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update plan!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.Period != nil {
		updates["period"] = *reqData.Period
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&plan).Updates(updates).Error; err != nil {
			utils.LogError("update plan", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update plan!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan updated successfully.", plan)
}

// SubscriptionWithUser adds the subscriber's contact details for the admin list
type SubscriptionWithUser struct {
	models.Subscription
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// GetAllSubscriptions returns subscriptions for admin, expiring lapsed ones first
func GetAllSubscriptions(c *fiber.Ctx) error {
	page, limit, offset := validators.Paging(c)
	status := c.Query("status", models.SubscriptionActive)

	db := database.Database.Db
	utils.ExpireSubscriptions(db, time.Now())

	query := db.Model(&models.Subscription{})
	if status != "" && status != "ALL" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("count subscriptions", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
	}

	var subscriptions []models.Subscription
	if err := query.Preload("Plan").Order("expires_at ASC").Offset(offset).Limit(limit).Find(&subscriptions).Error; err != nil {
		utils.LogError("fetch subscriptions", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
	}

	userIDs := make([]uint, 0, len(subscriptions))
	for _, sub := range subscriptions {
		userIDs = append(userIDs, sub.UserID)
	}
	users := map[uint]models.User{}
	if len(userIDs) > 0 {
		var rows []models.User
		if err := db.Select("id", "name", "email").Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
			utils.LogError("fetch subscribers", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
		}
		for _, u := range rows {
			users[u.ID] = u
		}
	}

	response := make([]SubscriptionWithUser, 0, len(subscriptions))
	for _, sub := range subscriptions {
		response = append(response, SubscriptionWithUser{
			Subscription: sub,
			UserName:     users[sub.UserID].Name,
			UserEmail:    users[sub.UserID].Email,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscriptions fetched!", fiber.Map{
		"subscriptions": response,
		"pagination":    middleware.Pagination(total, page, limit),
	})
}
