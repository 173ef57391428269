package quizValidator_test

import (
	"testing"

	"learnit/middleware"
	"learnit/models"
	"learnit/testutil"
	quizValidator "learnit/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpsertApp() *fiber.App {
	app := fiber.New()
	app.Post("/quiz", quizValidator.UpsertQuiz(), func(c *fiber.Ctx) error {
		req := c.Locals("validatedQuiz").(*quizValidator.UpsertQuizRequest)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", req.Threshold())
	})
	app.Post("/submit", quizValidator.SubmitQuiz(), func(c *fiber.Ctx) error {
		req := c.Locals("validatedSubmission").(*quizValidator.SubmitQuizRequest)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", req.Selections)
	})
	return app
}

func question(correct ...bool) fiber.Map {
	options := make([]fiber.Map, 0, len(correct))
	for _, isCorrect := range correct {
		options = append(options, fiber.Map{"text": "option", "isCorrect": isCorrect})
	}
	return fiber.Map{"text": "What is a goroutine?", "options": options}
}

func TestUpsertQuiz(t *testing.T) {
	testutil.UseTestConfig()
	app := newUpsertApp()

	tests := []struct {
		name      string
		body      fiber.Map
		wantCode  int
		wantField string
		wantMark  *models.PassMark
	}{
		{
			name:     "default pass mark is the global percentage",
			body:     fiber.Map{"questions": []fiber.Map{question(true, false)}},
			wantCode: fiber.StatusOK,
			wantMark: &models.PassMark{Unit: models.PassMarkPercent, Value: 70},
		},
		{
			name:     "pass mark without unit is a count",
			body:     fiber.Map{"passMark": 2, "questions": []fiber.Map{question(true, false), question(false, true)}},
			wantCode: fiber.StatusOK,
			wantMark: &models.PassMark{Unit: models.PassMarkCount, Value: 2},
		},
		{
			name:     "lowercase unit is accepted",
			body:     fiber.Map{"passMark": 50, "passMarkUnit": "percent", "questions": []fiber.Map{question(true, false)}},
			wantCode: fiber.StatusOK,
			wantMark: &models.PassMark{Unit: models.PassMarkPercent, Value: 50},
		},
		{
			name:      "no questions",
			body:      fiber.Map{"questions": []fiber.Map{}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "questions",
		},
		{
			name:      "single option",
			body:      fiber.Map{"questions": []fiber.Map{question(true)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "questions[0].options",
		},
		{
			name:      "no correct option",
			body:      fiber.Map{"questions": []fiber.Map{question(true, false), question(false, false)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "questions[1].options",
		},
		{
			name:      "two correct options",
			body:      fiber.Map{"questions": []fiber.Map{question(true, true, false)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "questions[0].options",
		},
		{
			name:      "count above question total",
			body:      fiber.Map{"passMark": 3, "passMarkUnit": "COUNT", "questions": []fiber.Map{question(true, false)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "passMark",
		},
		{
			name:      "percent above 100",
			body:      fiber.Map{"passMark": 101, "passMarkUnit": "PERCENT", "questions": []fiber.Map{question(true, false)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "passMark",
		},
		{
			name:      "negative pass mark",
			body:      fiber.Map{"passMark": -1, "questions": []fiber.Map{question(true, false)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "passMark",
		},
		{
			name:      "unknown unit",
			body:      fiber.Map{"passMark": 1, "passMarkUnit": "POINTS", "questions": []fiber.Map{question(true, false)}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "passMarkUnit",
		},
		{
			name:      "blank question text",
			body:      fiber.Map{"questions": []fiber.Map{{"text": "  ", "options": question(true, false)["options"]}}},
			wantCode:  fiber.StatusUnprocessableEntity,
			wantField: "questions[0].text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := testutil.Do(t, app, fiber.MethodPost, "/quiz", "", tt.body)
			require.Equal(t, tt.wantCode, code, env.Message)

			if tt.wantField != "" {
				errs := testutil.DecodeData[map[string]string](t, env)
				assert.Contains(t, errs, tt.wantField)
			}
			if tt.wantMark != nil {
				assert.Equal(t, *tt.wantMark, testutil.DecodeData[models.PassMark](t, env))
			}
		})
	}
}

func TestSubmitQuiz_DropsNonNumericKeys(t *testing.T) {
	app := newUpsertApp()

	code, env := testutil.Do(t, app, fiber.MethodPost, "/submit", "", fiber.Map{
		"quizId":  4,
		"answers": fiber.Map{"12": 40, " 13 ": 41, "abc": 42, "0": 43},
	})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, map[string]uint{"12": 40, "13": 41}, testutil.DecodeData[map[string]uint](t, env))

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/submit", "", fiber.Map{"answers": fiber.Map{}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}
