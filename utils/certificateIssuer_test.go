package utils_test

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"learnit/models"
	"learnit/testutil"
	"learnit/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCertificateURL(t *testing.T) {
	issued := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	got := utils.BuildCertificateURL("https://img.test/upload/", "/tpl.png", "Ana María", "Go, Fast/Slow", issued)

	assert.Equal(t,
		"https://img.test/upload"+
			"/l_text:Arial_60_bold:Ana%20Mar%C3%ADa,co_rgb:1f2937,g_center,y_-40"+
			"/l_text:Arial_36:Go%252C%20Fast%252FSlow,co_rgb:374151,g_center,y_60"+
			"/l_text:Arial_28:March%205%252C%202024,co_rgb:6b7280,g_south,y_90"+
			"/tpl.png",
		got)
}

func TestNewCertificateNumber(t *testing.T) {
	format := regexp.MustCompile(`^LIT-[0-9A-F]{16}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := utils.NewCertificateNumber()
		assert.Regexp(t, format, n)
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
}

func TestIssueCertificate(t *testing.T) {
	db := testutil.OpenDB(t)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	student := testutil.CreateUser(t, db, "Sam Lee", "sam@learnit.test", models.RoleStudent)
	course, _ := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 1)

	first, created, err := utils.IssueCertificate(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, first.CertificateURL, "Sam%20Lee")
	assert.Contains(t, first.CertificateURL, "Go%252C%20Fast")

	second, created, err := utils.IssueCertificate(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var rows int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestIssueCertificate_Concurrent(t *testing.T) {
	db := testutil.OpenDB(t)
	instructor := testutil.CreateUser(t, db, "Ines", "ines@learnit.test", models.RoleInstructor)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)
	course, _ := testutil.SeedCourse(t, db, instructor.ID, models.CoursePublished, false, 1)

	const callers = 8
	var wg sync.WaitGroup
	numbers := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, _, err := utils.IssueCertificate(db, student.ID, course.ID)
			errs[i] = err
			if cert != nil {
				numbers[i] = cert.CertificateNumber
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, numbers[0], numbers[i])
	}

	var rows int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestIssueCertificate_UnknownCourse(t *testing.T) {
	db := testutil.OpenDB(t)
	student := testutil.CreateUser(t, db, "Sam", "sam@learnit.test", models.RoleStudent)

	_, _, err := utils.IssueCertificate(db, student.ID, 404)
	assert.Error(t, err)
}
