package controllers

import (
	"fmt"
	"regexp"
	"time"

	"learnit/database"
	"learnit/middleware"
	"learnit/models"
	"learnit/utils"
	"learnit/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

type countRow struct {
	Label string
	Total int64
}

func groupCounts(model interface{}, column string) (map[string]int64, error) {
	var rows []countRow
	err := database.Database.Db.Model(model).
		Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Total
	}
	return out, err
}

// AdminDashboardStats returns platform totals and the current month's activity
func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db
	monthStart := now.BeginningOfMonth()

	usersByRole, err := groupCounts(&models.User{}, "role")
	if err != nil {
		utils.LogError("dashboard users", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}
	coursesByStatus, err := groupCounts(&models.Course{}, "status")
	if err != nil {
		utils.LogError("dashboard courses", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}

	var enrollments, certificates, activeSubscriptions, openTickets int64
	var newUsers, newEnrollments, newCertificates int64
	var monthRevenue float64

	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dest  *int64
	}{
		{&models.Enrollment{}, "", nil, &enrollments},
		{&models.Certificate{}, "", nil, &certificates},
		{&models.Subscription{}, "status = ?", []interface{}{models.SubscriptionActive}, &activeSubscriptions},
		{&models.SupportTicket{}, "status <> ?", []interface{}{models.TicketClosed}, &openTickets},
		{&models.User{}, "created_at >= ?", []interface{}{monthStart}, &newUsers},
		{&models.Enrollment{}, "enrolled_at >= ?", []interface{}{monthStart}, &newEnrollments},
		{&models.Certificate{}, "issued_at >= ?", []interface{}{monthStart}, &newCertificates},
	}
	for _, q := range counts {
		tx := db.Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, q.args...)
		}
		if err := tx.Count(q.dest).Error; err != nil {
			utils.LogError("dashboard counts", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
		}
	}

	if err := db.Model(&models.Subscription{}).
		Where("started_at >= ?", monthStart).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&monthRevenue).Error; err != nil {
		utils.LogError("dashboard revenue", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully.", fiber.Map{
		"usersByRole":         usersByRole,
		"coursesByStatus":     coursesByStatus,
		"totalEnrollments":    enrollments,
		"totalCertificates":   certificates,
		"activeSubscriptions": activeSubscriptions,
		"openTickets":         openTickets,
		"thisMonth": fiber.Map{
			"since":        monthStart,
			"newUsers":     newUsers,
			"enrollments":  newEnrollments,
			"certificates": newCertificates,
			"revenue":      monthRevenue,
		},
	})
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// AdminExportEnrollments downloads a course's enrollments with progress and certificate status as XLSX
func AdminExportEnrollments(c *fiber.Ctx) error {
	db := database.Database.Db
	course, status, msg := findCourse(db, validators.ID(c, "id"))
	if course == nil {
		return middleware.JsonResponse(c, status, false, msg, nil)
	}

	var enrollments []models.Enrollment
	if err := db.Where("course_id = ?", course.ID).Order("enrolled_at ASC").Find(&enrollments).Error; err != nil {
		utils.LogError("export enrollments", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export enrollments!", nil)
	}

	userIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		userIDs = append(userIDs, e.UserID)
	}

	users := map[uint]models.User{}
	progress := map[uint]float64{}
	certificates := map[uint]string{}
	if len(userIDs) > 0 {
		var userRows []models.User
		var progressRows []models.Progress
		var certificateRows []models.Certificate
		if err := db.Select("id", "name", "email").Where("id IN ?", userIDs).Find(&userRows).Error; err != nil {
			utils.LogError("export users", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export enrollments!", nil)
		}
		if err := db.Where("course_id = ? AND user_id IN ?", course.ID, userIDs).Find(&progressRows).Error; err != nil {
			utils.LogError("export progress", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export enrollments!", nil)
		}
		if err := db.Where("course_id = ? AND user_id IN ?", course.ID, userIDs).Find(&certificateRows).Error; err != nil {
			utils.LogError("export certificates", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export enrollments!", nil)
		}
		for _, u := range userRows {
			users[u.ID] = u
		}
		for _, p := range progressRows {
			progress[p.UserID] = p.Percentage
		}
		for _, cert := range certificateRows {
			certificates[cert.UserID] = cert.CertificateNumber
		}
	}

	rows := make([]utils.EnrollmentExportRow, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, utils.EnrollmentExportRow{
			StudentName:       users[e.UserID].Name,
			StudentEmail:      users[e.UserID].Email,
			EnrolledAt:        e.EnrolledAt,
			Progress:          progress[e.UserID],
			CertificateNumber: certificates[e.UserID],
		})
	}

	buf, err := utils.BuildEnrollmentWorkbook(course.Title, rows)
	if err != nil {
		utils.LogError("build enrollment workbook", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export enrollments!", nil)
	}

	filename := fmt.Sprintf("%s-enrollments-%s.xlsx", unsafeFileChars.ReplaceAllString(course.Title, "_"), time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
