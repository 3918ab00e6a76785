package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"hrportal/internal/domain/attendance"
)

var attendanceHeaders = []string{"Employee", "Number", "Department", "Date", "Time In", "Time Out", "Status"}

// AttendanceXLSX renders one month of attendance as a workbook, one row
// per record.
func AttendanceXLSX(year int, month time.Month, rows []attendance.MonthRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Attendance %d-%02d", year, int(month))
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, header := range attendanceHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{
			row.EmployeeName,
			row.EmployeeNumber,
			row.Department,
			row.Date.Format("2006-01-02"),
			formatClock(row.TimeIn),
			formatClock(row.TimeOut),
			string(row.Status),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// AttendancePDF renders the same month as a tabular PDF.
func AttendancePDF(year int, month time.Month, rows []attendance.MonthRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Attendance Report - %s %d", month.String(), year))
	pdf.Ln(14)

	widths := []float64{55, 25, 40, 28, 25, 25, 25}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range attendanceHeaders {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		values := []string{
			row.EmployeeName,
			row.EmployeeNumber,
			row.Department,
			row.Date.Format("2006-01-02"),
			formatClock(row.TimeIn),
			formatClock(row.TimeOut),
			string(row.Status),
		}
		for i, value := range values {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}
