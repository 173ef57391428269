package quizValidator

import (
	"fmt"
	"strconv"
	"strings"

	"learnit/config"
	"learnit/models"
	"learnit/validators"

	"github.com/gofiber/fiber/v2"
)

type OptionInput struct {
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionInput struct {
	Text    string        `json:"text" validate:"required,max=2000"`
	Options []OptionInput `json:"options" validate:"required,min=2,max=10,dive"`
}

// UpsertQuizRequest creates or replaces the quiz of a lesson
type UpsertQuizRequest struct {
	PassMark     *int                `json:"passMark" validate:"omitempty,gte=0"`
	PassMarkUnit models.PassMarkUnit `json:"passMarkUnit"`
	Questions    []QuestionInput     `json:"questions" validate:"required,min=1,max=100,dive"`
}

func (r *UpsertQuizRequest) Normalize() {
	r.PassMarkUnit = models.PassMarkUnit(strings.ToUpper(strings.TrimSpace(string(r.PassMarkUnit))))
	for i := range r.Questions {
		r.Questions[i].Text = strings.TrimSpace(r.Questions[i].Text)
		for j := range r.Questions[i].Options {
			r.Questions[i].Options[j].Text = strings.TrimSpace(r.Questions[i].Options[j].Text)
		}
	}
}

// Threshold is the pass mark the quiz is stored with. Without a value the global
// percentage applies; a value without a unit is a count of correct answers.
func (r *UpsertQuizRequest) Threshold() models.PassMark {
	if r.PassMark == nil {
		return models.PassMark{Unit: models.PassMarkPercent, Value: config.AppConfig.GlobalQuizPassMark}
	}
	unit := r.PassMarkUnit
	if unit == "" {
		unit = models.PassMarkCount
	}
	return models.PassMark{Unit: unit, Value: *r.PassMark}
}

type SubmitQuizRequest struct {
	QuizID  uint            `json:"quizId" validate:"required"`
	Answers map[string]uint `json:"answers"`

	// Selections maps question id to option id; keys that are not ids are dropped
	Selections map[uint]uint `json:"-"`
}

func (r *SubmitQuizRequest) Normalize() {
	r.Selections = make(map[uint]uint, len(r.Answers))
	for key, optionID := range r.Answers {
		questionID, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil || questionID == 0 {
			continue
		}
		r.Selections[uint(questionID)] = optionID
	}
}

// UpsertQuiz validates quiz authoring. Questions are single-select: each needs
// exactly one correct option.
func UpsertQuiz() fiber.Handler {
	return validators.Body("validatedQuiz", func(c *fiber.Ctx, req *UpsertQuizRequest, errors map[string]string) {
		if req.PassMarkUnit != "" && !req.PassMarkUnit.Valid() {
			errors["passMarkUnit"] = "passMarkUnit must be one of: COUNT, PERCENT"
			return
		}

		mark := req.Threshold()
		switch mark.Unit {
		case models.PassMarkPercent:
			if mark.Value > 100 {
				errors["passMark"] = "passMark must be at most 100 percent!"
			}
		case models.PassMarkCount:
			if mark.Value > len(req.Questions) {
				errors["passMark"] = "passMark cannot exceed the number of questions!"
			}
		}

		for i, question := range req.Questions {
			correct := 0
			for _, option := range question.Options {
				if option.IsCorrect {
					correct++
				}
			}
			if len(question.Options) >= 2 && correct != 1 {
				errors[fmt.Sprintf("questions[%d].options", i)] = "Exactly one option must be marked correct!"
			}
		}
	})
}

func SubmitQuiz() fiber.Handler {
	return validators.Body[SubmitQuizRequest]("validatedSubmission", nil)
}
