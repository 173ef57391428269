package utils

import (
	"log"
	"time"

	"learnit/database"
	"learnit/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SubscriptionExpiry returns when a subscription started at start ends: the end of
// the day one period later.
func SubscriptionExpiry(start time.Time, period string) time.Time {
	var end time.Time
	switch period {
	case models.PeriodYearly:
		end = start.AddDate(1, 0, 0)
	default:
		end = start.AddDate(0, 1, 0)
	}
	return now.With(end).EndOfDay()
}

// InitializeSubscriptionScheduler sets up the daily subscription expiry job
func InitializeSubscriptionScheduler() *cron.Cron {
	log.Println("[SUBSCRIPTION-SCHEDULER] Initializing subscription scheduler...")

	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		log.Println("[SUBSCRIPTION-SCHEDULER] Running daily subscription check...")
		db := database.Database.Db
		ProcessExpiringSubscriptions(db, time.Now())
		ExpireSubscriptions(db, time.Now())
	})

	c.Start()
	log.Println("[SUBSCRIPTION-SCHEDULER] Subscription scheduler started - runs daily at 9 AM")
	return c
}

// ProcessExpiringSubscriptions sends one reminder for subscriptions expiring within two days
func ProcessExpiringSubscriptions(db *gorm.DB, at time.Time) int {
	twoDaysLater := at.AddDate(0, 0, 2)

	var expiring []models.Subscription
	if err := db.
		Where("status = ? AND reminder_sent = ? AND expires_at IS NOT NULL", models.SubscriptionActive, false).
		Where("expires_at BETWEEN ? AND ?", at, twoDaysLater).
		Preload("Plan").
		Find(&expiring).Error; err != nil {
		LogError("[SUBSCRIPTION-SCHEDULER] fetch expiring subscriptions", err)
		return 0
	}

	log.Printf("[SUBSCRIPTION-SCHEDULER] Found %d subscriptions expiring soon", len(expiring))

	sent := 0
	for _, sub := range expiring {
		var user models.User
		if err := db.Select("id", "name", "email").First(&user, sub.UserID).Error; err != nil {
			log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching user %d: %v", sub.UserID, err)
			continue
		}

		SendSubscriptionExpiryReminder(user.Email, user.Name, sub.Plan.Name, sub.ExpiresAt)

		if err := db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Update("reminder_sent", true).Error; err != nil {
			LogError("[SUBSCRIPTION-SCHEDULER] mark reminder sent", err)
			continue
		}
		sent++
	}
	return sent
}

// ExpireSubscriptions marks ACTIVE subscriptions past their expiry as EXPIRED
func ExpireSubscriptions(db *gorm.DB, at time.Time) int64 {
	result := lapsedSubscriptions(db, at).Updates(expiredColumns())

	if result.Error != nil {
		LogError("[SUBSCRIPTION-SCHEDULER] expire subscriptions", result.Error)
		return 0
	}

	log.Printf("[SUBSCRIPTION-SCHEDULER] Expired %d subscriptions", result.RowsAffected)
	return result.RowsAffected
}

// ExpireUserSubscriptions expires one user's lapsed subscriptions, freeing their active slot
func ExpireUserSubscriptions(db *gorm.DB, userID uint, at time.Time) error {
	return lapsedSubscriptions(db, at).Where("user_id = ?", userID).Updates(expiredColumns()).Error
}

func lapsedSubscriptions(db *gorm.DB, at time.Time) *gorm.DB {
	return db.Model(&models.Subscription{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.SubscriptionActive, at)
}

func expiredColumns() map[string]interface{} {
	return map[string]interface{}{"status": models.SubscriptionExpired, "active_user_id": nil}
}

// HasActiveSubscription reports whether the user currently holds an unexpired ACTIVE subscription
func HasActiveSubscription(db *gorm.DB, userID uint, at time.Time) (bool, error) {
	var count int64
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)", userID, models.SubscriptionActive, at).
		Count(&count).Error
	return count > 0, err
}
