package handlers

import (
	"fmt"
	"net/http"
	"time"

	"civiceye/models"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReportsHandler streams the full case register as an XLSX workbook
func ExportReportsHandler(c echo.Context) error {
	summaries, err := reportService(c).ListAll()
	if err != nil {
		return respondError(c, httpStatusFor(err), err.Error())
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reports"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Sequence", "Report ID", "Name", "Crime Type", "Location",
		"State", "Status", "Assigned Officer", "Evidence Files", "Created At",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for row, s := range summaries {
		values := []interface{}{
			s.SequenceID,
			s.ReportID,
			s.Name,
			s.CrimeType,
			s.Location,
			s.State,
			models.ReportStatusDisplayName(s.Status),
			s.AssignedOfficer,
			s.EvidenceCount,
			s.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to generate export")
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=crime_reports_%s.xlsx", time.Now().Format("20060102_150405")))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
