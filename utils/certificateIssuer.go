package utils

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"learnit/config"
	"learnit/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CertificateDateLayout is the long-form date printed on certificates
const CertificateDateLayout = "January 2, 2006"

// overlayText encodes s for a text-overlay transformation. Commas and slashes are
// transformation separators on the image service, so they are escaped twice.
func overlayText(s string) string {
	escaped := url.PathEscape(strings.TrimSpace(s))
	return strings.NewReplacer("%2C", "%252C", "%2F", "%252F").Replace(escaped)
}

// BuildCertificateURL renders the certificate as text overlays on the template image
func BuildCertificateURL(baseURL, templateID, studentName, courseTitle string, issuedAt time.Time) string {
	return fmt.Sprintf(
		"%s/l_text:Arial_60_bold:%s,co_rgb:1f2937,g_center,y_-40/l_text:Arial_36:%s,co_rgb:374151,g_center,y_60/l_text:Arial_28:%s,co_rgb:6b7280,g_south,y_90/%s",
		strings.TrimRight(baseURL, "/"),
		overlayText(studentName),
		overlayText(courseTitle),
		overlayText(issuedAt.Format(CertificateDateLayout)),
		strings.TrimLeft(templateID, "/"),
	)
}

// NewCertificateNumber returns a public, unguessable certificate reference
func NewCertificateNumber() string {
	return "LIT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// FindCertificate returns the certificate for the pair, or gorm.ErrRecordNotFound
func FindCertificate(db *gorm.DB, userID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// IssueCertificate makes sure exactly one certificate exists for (userID, courseID).
// The insert is conditional on the pair's unique index, so a caller that loses a
// concurrent race reads back and returns the winner's row. The bool reports whether
// this call inserted the row.
func IssueCertificate(db *gorm.DB, userID, courseID uint) (*models.Certificate, bool, error) {
	existing, err := FindCertificate(db, userID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !IsNotFound(err) {
		return nil, false, errors.Wrap(err, "look up certificate")
	}

	var user models.User
	if err := db.Select("id", "name", "email").First(&user, userID).Error; err != nil {
		return nil, false, errors.Wrap(err, "load student")
	}
	var course models.Course
	if err := db.Select("id", "title").First(&course, courseID).Error; err != nil {
		return nil, false, errors.Wrap(err, "load course")
	}

	issuedAt := time.Now().UTC()
	cfg := config.AppConfig
	newCert := models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: NewCertificateNumber(),
		CertificateURL:    BuildCertificateURL(cfg.CertificateImageBaseURL, cfg.CertificateTemplateID, user.Name, course.Title, issuedAt),
		IssuedAt:          issuedAt,
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&newCert)
	if res.Error != nil && !IsDuplicateKey(res.Error) {
		return nil, false, errors.Wrap(res.Error, "insert certificate")
	}

	if res.Error != nil || res.RowsAffected == 0 {
		winner, err := FindCertificate(db, userID, courseID)
		if err != nil {
			return nil, false, errors.Wrap(err, "read concurrent certificate")
		}
		return winner, false, nil
	}

	log.Printf("[CERTIFICATE] issued %s to user %d for course %d", newCert.CertificateNumber, userID, courseID)
	SendCertificateEmail(user.Email, user.Name, course.Title, newCert.CertificateURL)

	return &newCert, true, nil
}
