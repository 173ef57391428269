package app_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"learnit/config"
	"learnit/models"
	"learnit/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatewayStub settles pay_* ids for 20.00 and reports everything else as pending
func gatewayStub(t *testing.T, delay time.Duration) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		id := strings.TrimPrefix(r.URL.Path, "/payments/")
		w.Header().Set("Content-Type", "application/json")
		status := "pending"
		if strings.HasPrefix(id, "pay_") {
			status = "paid"
		}
		_, _ = w.Write([]byte(`{"id":"` + id + `","status":"` + status + `","amount":20,"currency":"USD"}`))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

type mySubscription struct {
	Active  *models.Subscription  `json:"active"`
	History []models.Subscription `json:"history"`
}

func TestSubscriptionFlow(t *testing.T) {
	app, db := testutil.NewApp(t)
	config.AppConfig.PaymentApiURL = gatewayStub(t, 0)
	admin := testutil.CreateUser(t, db, "Ada", "ada@learnit.test", models.RoleAdmin)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	adminToken, token := testutil.Token(t, admin), testutil.Token(t, student)

	code, _ := testutil.Do(t, app, fiber.MethodPost, "/admin/plans", token, fiber.Map{"name": "Monthly", "price": 19.99, "period": "MONTHLY"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env := testutil.Do(t, app, fiber.MethodPost, "/admin/plans", adminToken, fiber.Map{"name": "Monthly", "price": 19.99, "period": "monthly"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	monthly := testutil.DecodeData[models.SubscriptionPlan](t, env)
	assert.True(t, monthly.IsActive)
	assert.Equal(t, models.PeriodMonthly, monthly.Period)

	code, env = testutil.Do(t, app, fiber.MethodPost, "/admin/plans", adminToken, fiber.Map{"name": "Legacy", "price": 5, "period": "YEARLY", "isActive": false})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	legacy := testutil.DecodeData[models.SubscriptionPlan](t, env)
	assert.False(t, legacy.IsActive)

	code, env = testutil.Do(t, app, fiber.MethodPost, "/admin/plans", adminToken, fiber.Map{"name": "Big", "price": 50, "period": "YEARLY"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	yearly := testutil.DecodeData[models.SubscriptionPlan](t, env)

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/admin/plans", adminToken, fiber.Map{"name": "Weekly", "price": 1, "period": "WEEKLY"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, env = testutil.Do(t, app, fiber.MethodGet, "/subscription/plans", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	plans := testutil.DecodeData[[]models.SubscriptionPlan](t, env)
	require.Len(t, plans, 2, "inactive plans are not offered")
	assert.Equal(t, monthly.ID, plans[0].ID, "cheapest first")

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": legacy.ID, "paymentId": "pay_1"})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": monthly.ID, "paymentId": "chk_1"})
	assert.Equal(t, fiber.StatusPaymentRequired, code, "unsettled payments are refused")

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": yearly.ID, "paymentId": "pay_small"})
	assert.Equal(t, fiber.StatusPaymentRequired, code, "the payment must cover the price")

	code, env = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": monthly.ID, "paymentId": "pay_1"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	sub := testutil.DecodeData[models.Subscription](t, env)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.Equal(t, 19.99, sub.AmountPaid)
	require.NotNil(t, sub.ExpiresAt)
	assert.True(t, sub.ExpiresAt.After(time.Now().AddDate(0, 0, 27)))

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": monthly.ID, "paymentId": "pay_2"})
	assert.Equal(t, fiber.StatusConflict, code, "one active subscription at a time")

	code, env = testutil.Do(t, app, fiber.MethodGet, "/subscription/me", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	me := testutil.DecodeData[mySubscription](t, env)
	require.NotNil(t, me.Active)
	assert.Equal(t, sub.ID, me.Active.ID)
	assert.Equal(t, "Monthly", me.Active.Plan.Name)

	code, env = testutil.Do(t, app, fiber.MethodGet, "/admin/subscriptions", adminToken, nil)
	require.Equal(t, fiber.StatusOK, code)
	listed := testutil.DecodeData[struct {
		Subscriptions []struct {
			ID        uint   `json:"ID"`
			UserEmail string `json:"userEmail"`
		} `json:"subscriptions"`
	}](t, env)
	require.Len(t, listed.Subscriptions, 1)
	assert.Equal(t, student.Email, listed.Subscriptions[0].UserEmail)

	code, env = testutil.Do(t, app, fiber.MethodPost, "/subscription/cancel", token, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Equal(t, models.SubscriptionCancelled, testutil.DecodeData[models.Subscription](t, env).Status)

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/cancel", token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": monthly.ID, "paymentId": "pay_1"})
	assert.Equal(t, fiber.StatusConflict, code, "a payment pays for one subscription only")

	code, env = testutil.Do(t, app, fiber.MethodGet, "/subscription/me", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	me = testutil.DecodeData[mySubscription](t, env)
	assert.Nil(t, me.Active)
	assert.Len(t, me.History, 1)

	code, env = testutil.Do(t, app, fiber.MethodPut, fmt.Sprintf("/admin/plans/%d", legacy.ID), adminToken, fiber.Map{"isActive": true, "price": 7.5})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	updated := testutil.DecodeData[models.SubscriptionPlan](t, env)
	assert.True(t, updated.IsActive)
	assert.Equal(t, 7.5, updated.Price)

	code, _ = testutil.Do(t, app, fiber.MethodPut, "/admin/plans/9999", adminToken, fiber.Map{"price": 1})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestAdminSubscriptions_ExpiresLapsed(t *testing.T) {
	app, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Ada", "ada@learnit.test", models.RoleAdmin)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)

	plan := models.SubscriptionPlan{Name: "Monthly", Price: 10, Period: models.PeriodMonthly, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)
	lapsed := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Subscription{
		UserID: student.ID, PlanID: plan.ID, Status: models.SubscriptionActive,
		StartedAt: lapsed.AddDate(0, -1, 0), ExpiresAt: &lapsed, PaymentID: "pay_old", AmountPaid: 10,
	}).Error)

	code, env := testutil.Do(t, app, fiber.MethodGet, "/admin/subscriptions", testutil.Token(t, admin), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	active := testutil.DecodeData[struct {
		Subscriptions []models.Subscription `json:"subscriptions"`
	}](t, env)
	assert.Empty(t, active.Subscriptions)

	code, env = testutil.Do(t, app, fiber.MethodGet, "/admin/subscriptions?status=EXPIRED", testutil.Token(t, admin), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	expired := testutil.DecodeData[struct {
		Subscriptions []models.Subscription `json:"subscriptions"`
	}](t, env)
	require.Len(t, expired.Subscriptions, 1)
	assert.Equal(t, models.SubscriptionExpired, expired.Subscriptions[0].Status)
}

// subscribeAll fires the requests together while the gateway holds each one open
func subscribeAll(t *testing.T, app *fiber.App, tokens []string, bodies []fiber.Map) []int {
	t.Helper()
	codes := make([]int, len(tokens))
	var wg sync.WaitGroup
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], _ = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", tokens[i], bodies[i])
		}(i)
	}
	wg.Wait()
	sort.Ints(codes)
	return codes
}

func TestSubscribe_ConcurrentRequests(t *testing.T) {
	app, db := testutil.NewApp(t)
	config.AppConfig.PaymentApiURL = gatewayStub(t, 200*time.Millisecond)
	sam := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	ola := testutil.CreateUser(t, db, "Ola", "ola@learnit.test", models.RoleStudent)
	plan := models.SubscriptionPlan{Name: "Monthly", Price: 10, Period: models.PeriodMonthly, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)

	t.Run("one payment funds one subscription", func(t *testing.T) {
		body := fiber.Map{"planId": plan.ID, "paymentId": "pay_shared"}
		codes := subscribeAll(t, app,
			[]string{testutil.Token(t, sam), testutil.Token(t, ola)},
			[]fiber.Map{body, body})
		assert.Equal(t, []int{fiber.StatusCreated, fiber.StatusConflict}, codes)

		var paid int64
		require.NoError(t, db.Model(&models.Subscription{}).Where("payment_id = ?", "pay_shared").Count(&paid).Error)
		assert.EqualValues(t, 1, paid)
	})

	t.Run("one active subscription per user", func(t *testing.T) {
		require.NoError(t, db.Unscoped().Where("1 = 1").Delete(&models.Subscription{}).Error)

		token := testutil.Token(t, sam)
		codes := subscribeAll(t, app,
			[]string{token, token},
			[]fiber.Map{
				{"planId": plan.ID, "paymentId": "pay_a"},
				{"planId": plan.ID, "paymentId": "pay_b"},
			})
		assert.Equal(t, []int{fiber.StatusCreated, fiber.StatusConflict}, codes)

		var active int64
		require.NoError(t, db.Model(&models.Subscription{}).Where("user_id = ? AND status = ?", sam.ID, models.SubscriptionActive).Count(&active).Error)
		assert.EqualValues(t, 1, active)
	})
}

func TestSubscribe_AfterLapse(t *testing.T) {
	app, db := testutil.NewApp(t)
	config.AppConfig.PaymentApiURL = gatewayStub(t, 0)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	token := testutil.Token(t, student)
	plan := models.SubscriptionPlan{Name: "Monthly", Price: 10, Period: models.PeriodMonthly, IsActive: true}
	require.NoError(t, db.Create(&plan).Error)

	code, env := testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": plan.ID, "paymentId": "pay_first"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	first := testutil.DecodeData[models.Subscription](t, env)

	lapsed := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Subscription{}).Where("id = ?", first.ID).Update("expires_at", lapsed).Error)

	code, env = testutil.Do(t, app, fiber.MethodPost, "/subscription/subscribe", token, fiber.Map{"planId": plan.ID, "paymentId": "pay_second"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)

	var reloaded models.Subscription
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.Equal(t, models.SubscriptionExpired, reloaded.Status)
	assert.Nil(t, reloaded.ActiveUserID)
}
