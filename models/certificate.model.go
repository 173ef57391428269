package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued at most once per (student, course)
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"userId" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CourseID          uint      `json:"courseId" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CertificateNumber string    `json:"certificateNumber" gorm:"uniqueIndex;not null"`
	CertificateURL    string    `json:"certificateUrl" gorm:"type:text"`
	IssuedAt          time.Time `json:"issuedAt"`
}
