package controllers

import (
	"errors"

	"learnit/config"
	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"
	quizValidator "learnit/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PublicOption is an option as shown to students before they answer
type PublicOption struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"orderIndex"`
}

type PublicQuestion struct {
	ID         uint           `json:"id"`
	Text       string         `json:"text"`
	OrderIndex int            `json:"orderIndex"`
	Options    []PublicOption `json:"options"`
}

// PublicQuiz is a quiz without its answer key
type PublicQuiz struct {
	ID        uint             `json:"id"`
	LessonID  uint             `json:"lessonId"`
	PassMark  models.PassMark  `json:"passMark"`
	Questions []PublicQuestion `json:"questions"`
}

func publicQuiz(quiz models.Quiz) PublicQuiz {
	out := PublicQuiz{
		ID:        quiz.ID,
		LessonID:  quiz.LessonID,
		PassMark:  quiz.Threshold(),
		Questions: make([]PublicQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		question := PublicQuestion{ID: q.ID, Text: q.Text, OrderIndex: q.OrderIndex, Options: make([]PublicOption, 0, len(q.Options))}
		for _, o := range q.Options {
			question.Options = append(question.Options, PublicOption{ID: o.ID, Text: o.Text, OrderIndex: o.OrderIndex})
		}
		out.Questions = append(out.Questions, question)
	}
	return out
}

func withOrderedQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC, id ASC")
		}).
		Preload("Questions.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC, id ASC")
		})
}

// SubmitQuiz scores the caller's answers and records the attempt
func SubmitQuiz(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	reqData, ok := validators.Validated[quizValidator.SubmitQuizRequest](c, "validatedSubmission")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attempt, result, err := utils.SubmitQuiz(database.Database.Db, userId, reqData.QuizID, reqData.Selections, config.AppConfig.MaxQuizAttempts)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrQuizNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		case errors.Is(err, utils.ErrAttemptLimitReached):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You have used all attempts for this quiz!", nil)
		}
		utils.LogError("submit quiz", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully.", fiber.Map{
		"attempt": attempt,
		"score":   result.Score,
		"passed":  result.Passed,
	})
}

// GetLessonQuiz returns the quiz of a published lesson with the answer key stripped
func GetLessonQuiz(c *fiber.Ctx) error {
	db := database.Database.Db
	lesson, course, status, msg := findLesson(db, validators.ID(c, "lessonId"))
	if lesson == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if course.Status != models.CoursePublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var quiz models.Quiz
	if err := withOrderedQuestions(db).Where("lesson_id = ?", lesson.ID).First(&quiz).Error; err != nil {
		if utils.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		utils.LogError("fetch lesson quiz", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", publicQuiz(quiz))
}

func buildQuestions(quizID uint, inputs []quizValidator.QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for i, in := range inputs {
		question := models.Question{QuizID: quizID, Text: in.Text, OrderIndex: i}
		for j, opt := range in.Options {
			question.Options = append(question.Options, models.Option{Text: opt.Text, IsCorrect: opt.IsCorrect, OrderIndex: j})
		}
		questions = append(questions, question)
	}
	return questions
}

// UpsertLessonQuiz creates the lesson's quiz or replaces its pass mark and questions.
// The replacement runs in one transaction so students never see a half-written quiz.
func UpsertLessonQuiz(c *fiber.Ctx) error {
	reqData, ok := validators.Validated[quizValidator.UpsertQuizRequest](c, "validatedQuiz")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	lesson, course, status, msg := findLesson(db, validators.ID(c, "id"))
	if lesson == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	if !canManage(c, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit quizzes of your own courses!", nil)
	}

	mark := reqData.Threshold()
	created := false
	var quizID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		// A deleted quiz still holds the lesson's unique slot, so it is revived rather than re-inserted
		var quiz models.Quiz
		err := tx.Unscoped().Where("lesson_id = ?", lesson.ID).First(&quiz).Error
		switch {
		case err == nil:
			created = quiz.DeletedAt.Valid
			var questionIDs []uint
			if err := tx.Unscoped().Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Unscoped().Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
					return err
				}
				if err := tx.Unscoped().Where("id IN ?", questionIDs).Delete(&models.Question{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Unscoped().Model(&quiz).Updates(map[string]interface{}{
				"pass_mark":      mark.Value,
				"pass_mark_unit": mark.Unit,
				"deleted_at":     nil,
			}).Error; err != nil {
				return err
			}
		case utils.IsNotFound(err):
			quiz = models.Quiz{LessonID: lesson.ID, PassMark: mark.Value, PassMarkUnit: mark.Unit}
			if err := tx.Create(&quiz).Error; err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		questions := buildQuestions(quiz.ID, reqData.Questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		quizID = quiz.ID
		return nil
	})
	if err != nil {
		utils.LogError("save quiz", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz!", nil)
	}

	var saved models.Quiz
	if err := withOrderedQuestions(db).First(&saved, quizID).Error; err != nil {
		utils.LogError("reload quiz", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	if created {
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully.", saved)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully.", saved)
}

// findManagedQuiz loads a quiz the caller may edit
func findManagedQuiz(c *fiber.Ctx, db *gorm.DB) (*models.Quiz, int, string) {
	var quiz models.Quiz
	if err := withOrderedQuestions(db).First(&quiz, validators.ID(c, "id")).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, fiber.StatusNotFound, "Quiz not found!"
		}
		utils.LogError("load quiz", err)
		return nil, fiber.StatusInternalServerError, "Failed to fetch quiz!"
	}

	lesson, course, status, msg := findLesson(db, quiz.LessonID)
	if lesson == nil {
		return nil, status, msg
	}
	if !canManage(c, course) {
		return nil, fiber.StatusForbidden, "You can only manage quizzes of your own courses!"
	}
	return &quiz, fiber.StatusOK, ""
}

// GetQuizForManagement returns the full quiz including correct answers
func GetQuizForManagement(c *fiber.Ctx) error {
	quiz, status, msg := findManagedQuiz(c, database.Database.Db)
	if quiz == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	db := database.Database.Db
	quiz, status, msg := findManagedQuiz(c, db)
	if quiz == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	if err := db.Delete(&models.Quiz{}, quiz.ID).Error; err != nil {
		utils.LogError("delete quiz", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}
