package app_test

import (
	"fmt"
	"strings"
	"testing"

	"learnit/models"
	"learnit/testutil"
	"learnit/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCertificate(t *testing.T) {
	app, db := testutil.NewApp(t)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	course, lessons := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 1)
	quiz := testutil.SeedQuiz(t, db, lessons[0].ID, models.PassMark{Unit: models.PassMarkCount, Value: 1}, 1)
	testutil.Enroll(t, db, student.ID, course.ID)
	token := testutil.Token(t, student)
	body := fiber.Map{"courseId": course.ID}

	t.Run("no progress", func(t *testing.T) {
		code, _ := testutil.Do(t, app, fiber.MethodPost, "/certificate/generate", token, body)
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("passed quizzes do not replace progress", func(t *testing.T) {
		_, _, err := utils.SubmitQuiz(db, student.ID, quiz.ID, testutil.Answers(quiz, func(int) int { return 0 }), 0)
		require.NoError(t, err)
		_, err = utils.SetProgress(db, student.ID, course.ID, 99.5)
		require.NoError(t, err)

		code, _ := testutil.Do(t, app, fiber.MethodPost, "/certificate/generate", token, body)
		assert.Equal(t, fiber.StatusBadRequest, code)

		var certificates int64
		require.NoError(t, db.Model(&models.Certificate{}).Count(&certificates).Error)
		assert.Zero(t, certificates)
	})

	t.Run("first call creates, second returns the same row", func(t *testing.T) {
		// set directly so the progress hook does not issue it first
		require.NoError(t, db.Model(&models.Progress{}).
			Where("user_id = ? AND course_id = ?", student.ID, course.ID).
			Update("percentage", 100).Error)

		code, env := testutil.Do(t, app, fiber.MethodPost, "/certificate/generate", token, body)
		require.Equal(t, fiber.StatusCreated, code, env.Message)
		first := testutil.DecodeData[models.Certificate](t, env)

		code, env = testutil.Do(t, app, fiber.MethodPost, "/certificate/generate", token, body)
		require.Equal(t, fiber.StatusOK, code, env.Message)
		second := testutil.DecodeData[models.Certificate](t, env)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

		var certificates int64
		require.NoError(t, db.Model(&models.Certificate{}).Count(&certificates).Error)
		assert.EqualValues(t, 1, certificates)
	})

	t.Run("missing course id", func(t *testing.T) {
		code, _ := testutil.Do(t, app, fiber.MethodPost, "/certificate/generate", token, fiber.Map{})
		assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	})
}

func TestVerifyCertificate(t *testing.T) {
	app, db := testutil.NewApp(t)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	student := testutil.CreateUser(t, db, "Sam Lee", "sam@learnit.test", models.RoleStudent)
	course, _ := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 1)

	cert, _, err := utils.IssueCertificate(db, student.ID, course.ID)
	require.NoError(t, err)

	code, env := testutil.Do(t, app, fiber.MethodGet, "/certificate/verify/"+strings.ToLower(cert.CertificateNumber), "", nil)
	require.Equal(t, fiber.StatusOK, code)
	got := testutil.DecodeData[map[string]interface{}](t, env)
	assert.Equal(t, "Sam Lee", got["studentName"])
	assert.Equal(t, course.Title, got["courseTitle"])
	assert.Equal(t, cert.CertificateNumber, got["certificateNumber"])

	code, _ = testutil.Do(t, app, fiber.MethodGet, "/certificate/verify/LIT-NOPE", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	require.NoError(t, db.Delete(&models.Course{}, course.ID).Error)
	code, env = testutil.Do(t, app, fiber.MethodGet, "/certificate/verify/"+cert.CertificateNumber, "", nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Equal(t, course.Title, testutil.DecodeData[map[string]interface{}](t, env)["courseTitle"])

	// a failed course lookup must not pass as a valid certificate
	require.NoError(t, db.Migrator().DropTable(&models.Course{}))
	code, env = testutil.Do(t, app, fiber.MethodGet, "/certificate/verify/"+cert.CertificateNumber, "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.False(t, env.Status)
}

func TestCompleteLessons_IssuesCertificate(t *testing.T) {
	app, db := testutil.NewApp(t)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	outsider := testutil.CreateUser(t, db, "Ola", "ola@learnit.test", models.RoleStudent)
	course, lessons := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 2)
	testutil.Enroll(t, db, student.ID, course.ID)
	token := testutil.Token(t, student)

	code, _ := testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/lesson/%d/complete", lessons[0].ID), testutil.Token(t, outsider), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env := testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/lesson/%d/complete", lessons[0].ID), token, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Equal(t, 50.0, testutil.DecodeData[models.Progress](t, env).Percentage)

	// completing the same lesson again changes nothing
	code, env = testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/lesson/%d/complete", lessons[0].ID), token, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Equal(t, 50.0, testutil.DecodeData[models.Progress](t, env).Percentage)

	code, env = testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/lesson/%d/complete", lessons[1].ID), token, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.Equal(t, 100.0, testutil.DecodeData[models.Progress](t, env).Percentage)

	code, env = testutil.Do(t, app, fiber.MethodGet, fmt.Sprintf("/course/%d/progress", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, code)
	progress := testutil.DecodeData[struct {
		Progress         models.Progress     `json:"progress"`
		CompletedLessons []uint              `json:"completedLessons"`
		Certificate      *models.Certificate `json:"certificate"`
	}](t, env)
	assert.ElementsMatch(t, []uint{lessons[0].ID, lessons[1].ID}, progress.CompletedLessons)
	require.NotNil(t, progress.Certificate)

	// the certificate the hook issued is the one generate returns
	code, env = testutil.Do(t, app, fiber.MethodPost, "/certificate/generate", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, progress.Certificate.CertificateNumber, testutil.DecodeData[models.Certificate](t, env).CertificateNumber)

	code, env = testutil.Do(t, app, fiber.MethodGet, "/user/certificates", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, testutil.DecodeData[[]models.Certificate](t, env), 1)
}
