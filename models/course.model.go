package models

import (
	"time"

	"gorm.io/gorm"
)

// Course status values
const (
	CourseDraft         = "DRAFT"
	CoursePendingReview = "PENDING_REVIEW"
	CoursePublished     = "PUBLISHED"
	CourseUnpublished   = "UNPUBLISHED"
)

// Course is authored by an instructor and only visible to students once published
type Course struct {
	gorm.Model
	InstructorID    uint       `json:"instructorId" gorm:"index;not null"`
	Title           string     `json:"title" gorm:"not null"`
	Description     string     `json:"description" gorm:"type:text"`
	Category        string     `json:"category" gorm:"index"`
	ThumbnailURL    string     `json:"thumbnailUrl"`
	IsPremium       bool       `json:"isPremium" gorm:"default:false"`
	Status          string     `json:"status" gorm:"type:varchar(20);index;default:'DRAFT'"`
	RejectionReason string     `json:"rejectionReason"`
	PublishedAt     *time.Time `json:"publishedAt"`

	Instructor User     `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Lessons    []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

// Lesson is one ordered unit of a course
type Lesson struct {
	gorm.Model
	CourseID   uint   `json:"courseId" gorm:"index;not null"`
	Title      string `json:"title" gorm:"not null"`
	Content    string `json:"content,omitempty" gorm:"type:text"`
	VideoURL   string `json:"videoUrl,omitempty"`
	OrderIndex int    `json:"orderIndex" gorm:"default:0"`
}

// LessonCompletion marks a lesson as done by a student
type LessonCompletion struct {
	gorm.Model
	UserID   uint `json:"userId" gorm:"uniqueIndex:idx_completion_user_lesson;not null"`
	LessonID uint `json:"lessonId" gorm:"uniqueIndex:idx_completion_user_lesson;not null"`
	CourseID uint `json:"courseId" gorm:"index;not null"`
}
