// Package testutil wires an in-memory database and the HTTP app for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"learnit/app"
	"learnit/config"
	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain password of every user made by CreateUser
const Password = "password123"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// UseTestConfig installs a fresh configuration; tests may change fields freely.
func UseTestConfig() *config.Config {
	config.AppConfig = &config.Config{
		Env:                     "test",
		JWTKey:                  "test-secret",
		JWTTTL:                  1,
		SaltRound:               bcrypt.MinCost,
		DBDriver:                "sqlite",
		EmailSender:             "noreply@learnit.test",
		EmailSenderName:         "LearnIt",
		CertificateImageBaseURL: "https://img.learnit.test/image/upload",
		CertificateTemplateID:   "certificate_template.png",
		GlobalQuizPassMark:      70,
		CorsAllowOrigins:        "*",
	}
	return config.AppConfig
}

// OpenDB migrates a private in-memory sqlite database and installs it as the global connection
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	UseTestConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	db.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	database.Database = database.DbInstance{Db: db}
	database.Redis = nil

	t.Cleanup(func() {
		database.Database = database.DbInstance{}
		_ = sqlDB.Close()
	})
	return db
}

// NewApp returns the full application backed by a fresh database
func NewApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := OpenDB(t)
	return app.NewApp(), db
}

// CreateUser inserts a user with Password as password
func CreateUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	t.Helper()
	hashed, err := utils.HashPassword(Password)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, Password: hashed, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// Token signs a JWT for user
func Token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

// Envelope is the body every JSON endpoint answers with
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DoRaw sends one request and returns the response with its body read
func DoRaw(t *testing.T, a *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// Do sends one JSON request and decodes the envelope
func Do(t *testing.T, a *fiber.App, method, path, token string, body interface{}) (int, Envelope) {
	t.Helper()
	resp, raw := DoRaw(t, a, method, path, token, body)

	var env Envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

// DecodeData unmarshals the envelope data into T
func DecodeData[T any](t *testing.T, env Envelope) T {
	t.Helper()
	var out T
	require.NoError(t, sonic.Unmarshal(env.Data, &out), "data: %s", env.Data)
	return out
}

// SeedCourse inserts a course with lessons numbered from 0
func SeedCourse(t *testing.T, db *gorm.DB, instructorID uint, status string, premium bool, lessons int) (models.Course, []models.Lesson) {
	t.Helper()

	course := models.Course{
		InstructorID: instructorID,
		Title:        "Go, Fast",
		Description:  "Concurrency from first principles",
		Category:     "programming",
		IsPremium:    premium,
		Status:       status,
	}
	if status == models.CoursePublished {
		published := time.Now().UTC()
		course.PublishedAt = &published
	}
	require.NoError(t, db.Create(&course).Error)

	out := make([]models.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		lesson := models.Lesson{CourseID: course.ID, Title: fmt.Sprintf("Lesson %d", i+1), Content: "content", OrderIndex: i}
		require.NoError(t, db.Create(&lesson).Error)
		out = append(out, lesson)
	}
	return course, out
}

// SeedQuiz inserts a quiz of n questions with three options each; option 0 is the correct one
func SeedQuiz(t *testing.T, db *gorm.DB, lessonID uint, mark models.PassMark, n int) models.Quiz {
	t.Helper()

	quiz := models.Quiz{LessonID: lessonID, PassMark: mark.Value, PassMarkUnit: mark.Unit}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			Text:       fmt.Sprintf("Question %d", i+1),
			OrderIndex: i,
			Options: []models.Option{
				{Text: "right", IsCorrect: true, OrderIndex: 0},
				{Text: "wrong", OrderIndex: 1},
				{Text: "also wrong", OrderIndex: 2},
			},
		})
	}
	require.NoError(t, db.Create(&quiz).Error)
	return quiz
}

// Answers picks option pick(i) for question i of quiz
func Answers(quiz models.Quiz, pick func(i int) int) map[uint]uint {
	out := make(map[uint]uint, len(quiz.Questions))
	for i, q := range quiz.Questions {
		idx := pick(i)
		if idx < 0 || idx >= len(q.Options) {
			continue
		}
		out[q.ID] = q.Options[idx].ID
	}
	return out
}

// Enroll inserts an enrollment row
func Enroll(t *testing.T, db *gorm.DB, userID, courseID uint) models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{UserID: userID, CourseID: courseID, EnrolledAt: time.Now().UTC()}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}
