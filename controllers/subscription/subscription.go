package subscriptionController

import (
	"errors"
	"log"
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	subscriptionValidator "learnit/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

// GetPlans lists the plans open for purchase
func GetPlans(c *fiber.Ctx) error {
	var plans []models.SubscriptionPlan
	if err := database.Database.Db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error; err != nil {
		utils.LogError("fetch plans", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch plans!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plans fetched successfully.", plans)
}

func activeSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := database.Database.Db.
		Where("user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)", userID, models.SubscriptionActive, time.Now()).
		Preload("Plan").
		Order("expires_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Subscribe activates a plan once the gateway confirms the payment
func Subscribe(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[subscriptionValidator.SubscribeRequest](c, "validatedSubscription")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var plan models.SubscriptionPlan
	if err := db.Where("id = ? AND is_active = ?", reqData.PlanID, true).First(&plan).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Plan not found!", nil)
		}
		utils.LogError("load plan", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}

	now := time.Now()
	if err := utils.ExpireUserSubscriptions(db, userId, now); err != nil {
		utils.LogError("expire lapsed subscriptions", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}

	if _, err := activeSubscription(userId); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have an active subscription!", nil)
	} else if !utils.IsNotFound(err) {
		utils.LogError("check active subscription", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}

	// fast path; the unique indexes settle concurrent requests
	var reused int64
	if err := db.Model(&models.Subscription{}).Where("payment_id = ?", reqData.PaymentID).Count(&reused).Error; err != nil {
		utils.LogError("check payment reuse", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}
	if reused > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This payment has already been used!", nil)
	}

	if err := utils.VerifyPayment(reqData.PaymentID, plan.Price); err != nil {
		if errors.Is(err, utils.ErrPaymentNotConfirmed) {
			return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Payment could not be confirmed!", nil)
		}
		utils.LogError("verify payment", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify payment!", nil)
	}

	startedAt := time.Now()
	expiresAt := utils.SubscriptionExpiry(startedAt, plan.Period)
	sub := models.Subscription{
		UserID:       userId,
		PlanID:       plan.ID,
		Status:       models.SubscriptionActive,
		StartedAt:    startedAt,
		ExpiresAt:    &expiresAt,
		PaymentID:    reqData.PaymentID,
		AmountPaid:   plan.Price,
		ActiveUserID: &userId,
	}
	if err := db.Create(&sub).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			if _, activeErr := activeSubscription(userId); activeErr == nil {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have an active subscription!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This payment has already been used!", nil)
		}
		utils.LogError("create subscription", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}
	sub.Plan = plan

	var user models.User
	if err := db.Select("id", "name", "email").First(&user, userId).Error; err == nil {
		utils.SendSubscriptionEmail(user.Email, user.Name, plan.Name, expiresAt)
	}

	log.Printf("[SUBSCRIPTION] user %d subscribed to plan %d until %s", userId, plan.ID, expiresAt.Format(time.RFC3339))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subscription activated successfully.", sub)
}

// MySubscription returns the caller's active subscription and their history
func MySubscription(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var active *models.Subscription
	if sub, err := activeSubscription(userId); err == nil {
		active = sub
	} else if !utils.IsNotFound(err) {
		utils.LogError("fetch active subscription", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscription!", nil)
	}

	var history []models.Subscription
	if err := database.Database.Db.Where("user_id = ?", userId).Preload("Plan").Order("started_at DESC").Find(&history).Error; err != nil {
		utils.LogError("fetch subscription history", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription fetched successfully.", fiber.Map{
		"active":  active,
		"history": history,
	})
}

// CancelSubscription ends the caller's active subscription immediately
func CancelSubscription(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	sub, err := activeSubscription(userId)
	if err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No active subscription found!", nil)
		}
		utils.LogError("fetch active subscription", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel subscription!", nil)
	}

	cancelled := map[string]interface{}{"status": models.SubscriptionCancelled, "active_user_id": nil}
	if err := database.Database.Db.Model(sub).Updates(cancelled).Error; err != nil {
		utils.LogError("cancel subscription", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel subscription!", nil)
	}

	sub.Status = models.SubscriptionCancelled
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription cancelled successfully.", sub)
}
