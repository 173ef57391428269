package app_test

import (
	"bytes"
	"fmt"
	"testing"

	"learnit/models"
	"learnit/testutil"
	"learnit/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAdminUserList(t *testing.T) {
	app, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Ada", "ada@learnit.test", models.RoleAdmin)
	testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	testutil.CreateUser(t, db, "Sam Lee", "sam@learnit.test", models.RoleStudent)
	testutil.CreateUser(t, db, "Ola", "ola@learnit.test", models.RoleStudent)
	token := testutil.Token(t, admin)

	type userPage struct {
		Users      []models.User `json:"users"`
		Pagination struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
		} `json:"pagination"`
	}

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal int64
		wantLen   int
	}{
		{name: "everyone", query: "", wantCode: fiber.StatusOK, wantTotal: 4, wantLen: 4},
		{name: "by role", query: "?role=student", wantCode: fiber.StatusOK, wantTotal: 2, wantLen: 2},
		{name: "search name", query: "?search=LEE", wantCode: fiber.StatusOK, wantTotal: 1, wantLen: 1},
		{name: "search email", query: "?search=ines@", wantCode: fiber.StatusOK, wantTotal: 1, wantLen: 1},
		{name: "paged", query: "?limit=3&page=2", wantCode: fiber.StatusOK, wantTotal: 4, wantLen: 1},
		{name: "bad role", query: "?role=GUEST", wantCode: fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := testutil.Do(t, app, fiber.MethodGet, "/admin/users"+tt.query, token, nil)
			require.Equal(t, tt.wantCode, code, env.Message)
			if code != fiber.StatusOK {
				return
			}
			page := testutil.DecodeData[userPage](t, env)
			assert.Equal(t, tt.wantTotal, page.Pagination.Total)
			assert.Len(t, page.Users, tt.wantLen)
		})
	}
}

func TestAdminBlockUser(t *testing.T) {
	app, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Ada", "ada@learnit.test", models.RoleAdmin)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	token := testutil.Token(t, admin)

	code, env := testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/admin/user/%d/block", admin.ID), token, fiber.Map{"blocked": true})
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), `"id"`)

	code, _ = testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/admin/user/%d/block", student.ID), token, fiber.Map{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code, "blocked is required")

	code, _ = testutil.Do(t, app, fiber.MethodPost, "/admin/user/9999/block", token, fiber.Map{"blocked": true})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env = testutil.Do(t, app, fiber.MethodPost, fmt.Sprintf("/admin/user/%d/block", student.ID), token, fiber.Map{"blocked": true})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	assert.True(t, testutil.DecodeData[models.User](t, env).IsBlocked)

	code, _ = testutil.Do(t, app, fiber.MethodGet, "/admin/users", testutil.Token(t, student), nil)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestAdminDashboardStats(t *testing.T) {
	app, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Ada", "ada@learnit.test", models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	published, _ := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 1)
	testutil.SeedCourse(t, db, instructor.ID, models.CourseDraft, false, 1)
	testutil.Enroll(t, db, student.ID, published.ID)
	_, _, err := utils.IssueCertificate(db, student.ID, published.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.SupportTicket{UserID: student.ID, Title: "Help", Status: models.TicketOpen, Priority: "LOW", Category: "GENERAL"}).Error)

	code, env := testutil.Do(t, app, fiber.MethodGet, "/admin/dashboard/stats", testutil.Token(t, admin), nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)

	stats := testutil.DecodeData[struct {
		UsersByRole         map[string]int64 `json:"usersByRole"`
		CoursesByStatus     map[string]int64 `json:"coursesByStatus"`
		TotalEnrollments    int64            `json:"totalEnrollments"`
		TotalCertificates   int64            `json:"totalCertificates"`
		ActiveSubscriptions int64            `json:"activeSubscriptions"`
		OpenTickets         int64            `json:"openTickets"`
		ThisMonth           struct {
			NewUsers     int64   `json:"newUsers"`
			Enrollments  int64   `json:"enrollments"`
			Certificates int64   `json:"certificates"`
			Revenue      float64 `json:"revenue"`
		} `json:"thisMonth"`
	}](t, env)

	assert.Equal(t, map[string]int64{models.RoleAdmin: 1, models.RoleInstructor: 1, models.RoleStudent: 1}, stats.UsersByRole)
	assert.Equal(t, map[string]int64{models.CoursePublished: 1, models.CourseDraft: 1}, stats.CoursesByStatus)
	assert.EqualValues(t, 1, stats.TotalEnrollments)
	assert.EqualValues(t, 1, stats.TotalCertificates)
	assert.Zero(t, stats.ActiveSubscriptions)
	assert.EqualValues(t, 1, stats.OpenTickets)
	assert.EqualValues(t, 3, stats.ThisMonth.NewUsers)
	assert.EqualValues(t, 1, stats.ThisMonth.Enrollments)
	assert.EqualValues(t, 1, stats.ThisMonth.Certificates)
	assert.Zero(t, stats.ThisMonth.Revenue)
}

func TestAdminExportEnrollments(t *testing.T) {
	app, db := testutil.NewApp(t)
	admin := testutil.CreateUser(t, db, "Ada", "ada@learnit.test", models.RoleAdmin)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	done := testutil.CreateUser(t, db, "Sam Lee", "sam@learnit.test", models.RoleStudent)
	halfway := testutil.CreateUser(t, db, "Ola", "ola@learnit.test", models.RoleStudent)
	course, _ := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 2)
	testutil.Enroll(t, db, done.ID, course.ID)
	testutil.Enroll(t, db, halfway.ID, course.ID)
	_, err := utils.SetProgress(db, done.ID, course.ID, 100)
	require.NoError(t, err)
	_, err = utils.SetProgress(db, halfway.ID, course.ID, 50)
	require.NoError(t, err)

	code, _ := testutil.Do(t, app, fiber.MethodGet, fmt.Sprintf("/admin/course/%d/enrollments/export", course.ID), testutil.Token(t, instructor), nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	resp, raw := testutil.DoRaw(t, app, fiber.MethodGet, fmt.Sprintf("/admin/course/%d/enrollments/export", course.ID), testutil.Token(t, admin), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="Go_Fast-enrollments-`)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Enrollments")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, course.Title, rows[0][0])
	assert.Equal(t, []string{"Student", "Email", "Enrolled At", "Progress (%)", "Certificate"}, rows[2])

	byEmail := map[string][]string{}
	for _, row := range rows[3:] {
		byEmail[row[1]] = row
	}
	require.Contains(t, byEmail, done.Email)
	require.Contains(t, byEmail, halfway.Email)
	assert.Equal(t, "100", byEmail[done.Email][3])
	require.Len(t, byEmail[done.Email], 5)
	assert.Regexp(t, `^LIT-[0-9A-F]{16}$`, byEmail[done.Email][4])
	assert.Equal(t, "50", byEmail[halfway.Email][3])
	if row := byEmail[halfway.Email]; len(row) > 4 {
		assert.Empty(t, row[4], "unfinished students have no certificate")
	}

	code, _ = testutil.Do(t, app, fiber.MethodGet, "/admin/course/9999/enrollments/export", testutil.Token(t, admin), nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
