package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionStatus enum values
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
)

// SubscriptionPeriod enum values
const (
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
)

// SubscriptionPlan unlocks premium courses for its period
type SubscriptionPlan struct {
	gorm.Model
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null;default:0"`
	Period      string  `json:"period" gorm:"type:varchar(20);default:'MONTHLY'"`
	IsActive    bool    `json:"isActive" gorm:"default:true"`
}

type Subscription struct {
	gorm.Model
	UserID       uint       `json:"userId" gorm:"not null;index"`
	PlanID       uint       `json:"planId" gorm:"not null;index"`
	Status       string     `json:"status" gorm:"not null;type:varchar(20);default:'ACTIVE'"`
	StartedAt    time.Time  `json:"startedAt"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	PaymentID    string     `json:"paymentId" gorm:"not null;type:varchar(100);uniqueIndex"`
	AmountPaid   float64    `json:"amountPaid"`
	ReminderSent bool       `json:"reminderSent" gorm:"default:false"`
	// set to UserID while ACTIVE and cleared on cancel or expiry
	ActiveUserID *uint `json:"-" gorm:"uniqueIndex"`

	Plan SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}
