package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// EnrollmentExportRow is one student line of a course enrollment export
type EnrollmentExportRow struct {
	StudentName       string
	StudentEmail      string
	EnrolledAt        time.Time
	Progress          float64
	CertificateNumber string
}

var enrollmentExportHeader = []interface{}{"Student", "Email", "Enrolled At", "Progress (%)", "Certificate"}

// BuildEnrollmentWorkbook renders rows into an XLSX workbook with a single sheet
func BuildEnrollmentWorkbook(courseTitle string, rows []EnrollmentExportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Enrollments"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}

	if err := f.SetCellValue(sheet, "A1", courseTitle); err != nil {
		return nil, errors.Wrap(err, "write title")
	}
	if err := f.SetSheetRow(sheet, "A3", &enrollmentExportHeader); err != nil {
		return nil, errors.Wrap(err, "write header")
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+4)
		values := []interface{}{
			row.StudentName,
			row.StudentEmail,
			row.EnrolledAt.Format("2006-01-02"),
			row.Progress,
			row.CertificateNumber,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+1)
		}
	}

	if err := f.SetColWidth(sheet, "A", "E", 24); err != nil {
		return nil, errors.Wrap(err, "set column width")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "encode workbook")
	}
	return buf, nil
}
