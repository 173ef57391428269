package utils

import (
	"strconv"
	"time"

	"learnit/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrAttemptLimitReached = errors.New("maximum quiz attempts reached")
)

// QuizResult is the outcome of scoring one submission
type QuizResult struct {
	Score  int  `json:"score"`
	Total  int  `json:"total"`
	Passed bool `json:"passed"`
}

// ScoreQuiz counts the questions whose selected option is flagged correct. Only the
// quiz's own questions are scored; answers for other question ids, unknown option ids
// and unanswered questions add nothing.
func ScoreQuiz(quiz models.Quiz, answers map[uint]uint) QuizResult {
	score := 0
	for _, question := range quiz.Questions {
		selected, ok := answers[question.ID]
		if !ok {
			continue
		}
		for _, option := range question.Options {
			if option.ID == selected {
				if option.IsCorrect {
					score++
				}
				break
			}
		}
	}

	total := len(quiz.Questions)
	return QuizResult{
		Score:  score,
		Total:  total,
		Passed: quiz.Threshold().Passed(score, total),
	}
}

// SubmitQuiz scores answers against the stored quiz and appends one attempt.
// maxAttempts <= 0 means unlimited.
func SubmitQuiz(db *gorm.DB, userID, quizID uint, answers map[uint]uint, maxAttempts int) (*models.QuizAttempt, QuizResult, error) {
	var quiz models.Quiz
	err := db.Preload("Questions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index asc, id asc")
	}).Preload("Questions.Options").First(&quiz, quizID).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, QuizResult{}, ErrQuizNotFound
		}
		return nil, QuizResult{}, errors.Wrap(err, "load quiz")
	}

	result := ScoreQuiz(quiz, answers)

	recorded := make(map[string]interface{}, len(answers))
	for questionID, optionID := range answers {
		recorded[strconv.FormatUint(uint64(questionID), 10)] = optionID
	}

	attempt := models.QuizAttempt{
		UserID:         userID,
		QuizID:         quiz.ID,
		Answers:        recorded,
		Score:          result.Score,
		TotalQuestions: result.Total,
		Passed:         result.Passed,
		SubmittedAt:    time.Now().UTC(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if maxAttempts > 0 {
			// the user row lock serialises one student's submissions; sqlite already allows a single writer
			if tx.Dialector.Name() != "sqlite" {
				var owner models.User
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&owner, userID).Error; err != nil {
					return errors.Wrap(err, "lock user")
				}
			}

			var used int64
			if err := tx.Model(&models.QuizAttempt{}).
				Where("user_id = ? AND quiz_id = ?", userID, quizID).
				Count(&used).Error; err != nil {
				return errors.Wrap(err, "count attempts")
			}
			if used >= int64(maxAttempts) {
				return ErrAttemptLimitReached
			}
		}

		return errors.Wrap(tx.Create(&attempt).Error, "save attempt")
	})
	if err != nil {
		return nil, QuizResult{}, err
	}

	return &attempt, result, nil
}
