package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles carried in the JWT role claim
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"not null"`
	Email               string     `json:"email" gorm:"uniqueIndex;not null"`
	Password            string     `json:"-" gorm:"not null"`
	Role                string     `json:"role" gorm:"type:varchar(20);default:'STUDENT'"`
	Bio                 string     `json:"bio"`
	AvatarURL           string     `json:"avatarUrl"`
	LastLogin           *time.Time `json:"lastLogin"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	IsBlocked           bool       `json:"isBlocked" gorm:"default:false"`
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}
