package utils

import (
	"fmt"
	"math"
	"time"

	"learnit/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetProgress upserts the (user, course) completion percentage, clamped to 0-100.
// Reaching 100 issues the course certificate; a failure there is logged and does not
// fail the progress update.
func SetProgress(db *gorm.DB, userID, courseID uint, percentage float64) (*models.Progress, error) {
	percentage = math.Max(0, math.Min(100, percentage))

	var current models.Progress
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&current).Error
	if err != nil && !IsNotFound(err) {
		return nil, errors.Wrap(err, "load progress")
	}

	var completedAt *time.Time
	if percentage >= 100 {
		completedAt = current.CompletedAt
		if completedAt == nil {
			now := time.Now().UTC()
			completedAt = &now
		}
	}

	row := models.Progress{
		UserID:      userID,
		CourseID:    courseID,
		Percentage:  percentage,
		CompletedAt: completedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"percentage", "completed_at", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return nil, errors.Wrap(err, "upsert progress")
	}

	var saved models.Progress
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&saved).Error; err != nil {
		return nil, errors.Wrap(err, "reload progress")
	}

	if saved.IsComplete() {
		if _, _, err := IssueCertificate(db, userID, courseID); err != nil {
			LogError(fmt.Sprintf("issue certificate user=%d course=%d", userID, courseID), err)
		}
	}

	return &saved, nil
}

// RecalculateProgress derives the percentage from completed lessons over all lessons of the course
func RecalculateProgress(db *gorm.DB, userID, courseID uint) (*models.Progress, error) {
	var totalLessons int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons).Error; err != nil {
		return nil, errors.Wrap(err, "count lessons")
	}

	var completed int64
	if err := db.Model(&models.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id AND lessons.deleted_at IS NULL").
		Where("lesson_completions.user_id = ? AND lesson_completions.course_id = ?", userID, courseID).
		Count(&completed).Error; err != nil {
		return nil, errors.Wrap(err, "count completions")
	}

	percentage := 0.0
	if totalLessons > 0 {
		percentage = float64(completed) / float64(totalLessons) * 100
	}

	return SetProgress(db, userID, courseID, percentage)
}
