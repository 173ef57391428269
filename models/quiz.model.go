package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PassMarkUnit says how a pass mark value is read
type PassMarkUnit string

const (
	// PassMarkCount compares the raw number of correct answers
	PassMarkCount PassMarkUnit = "COUNT"
	// PassMarkPercent compares the share of correct answers, 0-100
	PassMarkPercent PassMarkUnit = "PERCENT"
)

// Valid reports whether u is a known unit
func (u PassMarkUnit) Valid() bool {
	return u == PassMarkCount || u == PassMarkPercent
}

// PassMark is a threshold together with its unit, so a count is never compared as a percentage.
type PassMark struct {
	Unit  PassMarkUnit `json:"unit"`
	Value int          `json:"value"`
}

// Passed reports whether score correct answers out of total questions meets the mark.
// Equality passes.
func (p PassMark) Passed(score, total int) bool {
	switch p.Unit {
	case PassMarkPercent:
		return score*100 >= p.Value*total
	default:
		return score >= p.Value
	}
}

// Quiz belongs to exactly one lesson
type Quiz struct {
	gorm.Model
	LessonID     uint         `json:"lessonId" gorm:"uniqueIndex;not null"`
	PassMark     int          `json:"passMark" gorm:"not null;default:0"`
	PassMarkUnit PassMarkUnit `json:"passMarkUnit" gorm:"type:varchar(10);not null;default:'PERCENT'"`

	Lesson    Lesson     `json:"-" gorm:"foreignKey:LessonID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// Threshold returns the quiz pass mark with its unit
func (q Quiz) Threshold() PassMark {
	unit := q.PassMarkUnit
	if !unit.Valid() {
		unit = PassMarkCount
	}
	return PassMark{Unit: unit, Value: q.PassMark}
}

type Question struct {
	gorm.Model
	QuizID     uint     `json:"quizId" gorm:"index;not null"`
	Text       string   `json:"text" gorm:"type:text;not null"`
	OrderIndex int      `json:"orderIndex" gorm:"default:0"`
	Options    []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type Option struct {
	gorm.Model
	QuestionID uint   `json:"questionId" gorm:"index;not null"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"isCorrect" gorm:"default:false"`
	OrderIndex int    `json:"orderIndex" gorm:"default:0"`
}

// QuizAttempt is append-only: one row per submission
type QuizAttempt struct {
	gorm.Model
	UserID         uint              `json:"userId" gorm:"index;not null"`
	QuizID         uint              `json:"quizId" gorm:"index;not null"`
	Answers        datatypes.JSONMap `json:"answers"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	Passed         bool              `json:"passed"`
	SubmittedAt    time.Time         `json:"submittedAt"`
}
