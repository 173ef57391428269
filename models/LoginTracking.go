package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records each successful login
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"userId" gorm:"index;not null"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	LoggedAt  time.Time `json:"loggedAt"`
}
