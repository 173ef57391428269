package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model
	UserID     uint      `json:"userId" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID   uint      `json:"courseId" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	EnrolledAt time.Time `json:"enrolledAt"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// Progress holds one completion percentage per (student, course)
type Progress struct {
	gorm.Model
	UserID      uint       `json:"userId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID    uint       `json:"courseId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	Percentage  float64    `json:"percentage" gorm:"default:0"`
	CompletedAt *time.Time `json:"completedAt"`
}

// IsComplete reports whether the course counts as finished
func (p Progress) IsComplete() bool {
	return p.Percentage >= 100
}
