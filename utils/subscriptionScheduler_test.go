package utils_test

import (
	"testing"
	"time"

	"learnit/models"
	"learnit/testutil"
	"learnit/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubscriptionExpiry(t *testing.T) {
	start := time.Date(2024, time.January, 31, 8, 30, 0, 0, time.UTC)

	monthly := utils.SubscriptionExpiry(start, models.PeriodMonthly)
	assert.Equal(t, time.Date(2024, time.March, 2, 23, 59, 59, 999999999, time.UTC), monthly)

	yearly := utils.SubscriptionExpiry(start, models.PeriodYearly)
	assert.Equal(t, time.Date(2025, time.January, 31, 23, 59, 59, 999999999, time.UTC), yearly)
}

func seedSubscription(t *testing.T, db *gorm.DB, userID, planID uint, expiresAt *time.Time) models.Subscription {
	t.Helper()
	sub := models.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    models.SubscriptionActive,
		StartedAt: time.Now().UTC().AddDate(0, -1, 0),
		ExpiresAt: expiresAt,
		PaymentID: "pay_" + uuid.NewString(),
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

func TestSubscriptionScheduler(t *testing.T) {
	db := testutil.OpenDB(t)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	plan := models.SubscriptionPlan{Name: "Pro", Price: 9.99, Period: models.PeriodMonthly, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)

	at := time.Now().UTC()
	past := at.Add(-time.Hour)
	soon := at.Add(24 * time.Hour)
	later := at.AddDate(0, 0, 10)

	lapsed := seedSubscription(t, db, student.ID, plan.ID, &past)
	expiring := seedSubscription(t, db, student.ID, plan.ID, &soon)
	seedSubscription(t, db, student.ID, plan.ID, &later)
	seedSubscription(t, db, student.ID, plan.ID, nil)

	t.Run("reminders go out once", func(t *testing.T) {
		assert.Equal(t, 1, utils.ProcessExpiringSubscriptions(db, at))
		assert.Equal(t, 0, utils.ProcessExpiringSubscriptions(db, at))

		var reloaded models.Subscription
		require.NoError(t, db.First(&reloaded, expiring.ID).Error)
		assert.True(t, reloaded.ReminderSent)
	})

	t.Run("only lapsed subscriptions expire", func(t *testing.T) {
		assert.EqualValues(t, 1, utils.ExpireSubscriptions(db, at))

		var reloaded models.Subscription
		require.NoError(t, db.First(&reloaded, lapsed.ID).Error)
		assert.Equal(t, models.SubscriptionExpired, reloaded.Status)

		var active int64
		require.NoError(t, db.Model(&models.Subscription{}).Where("status = ?", models.SubscriptionActive).Count(&active).Error)
		assert.EqualValues(t, 3, active)
	})

	t.Run("active check", func(t *testing.T) {
		ok, err := utils.HasActiveSubscription(db, student.ID, at)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = utils.HasActiveSubscription(db, student.ID+1, at)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
