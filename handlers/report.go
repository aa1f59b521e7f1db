package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"civiceye/config"
	"civiceye/db"
	"civiceye/services"

	"github.com/labstack/echo/v4"
)

// respondError writes the uniform error body: a stable success flag plus a
// human-readable message.
func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// httpStatusFor maps the service error taxonomy onto HTTP codes
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// reportService builds the lifecycle service for a request
func reportService(c echo.Context) *services.ReportService {
	cfg, _ := c.Get("config").(*config.Config)
	return services.NewReportService(db.DB, cfg)
}

// SubmitReportHandler handles the public crime report submission.
// Evidence arrives over two transports: multipart files under the "evidence"
// key and inline camera captures in cameraImage* form fields.
func SubmitReportHandler(c echo.Context) error {
	var files []*multipart.FileHeader
	fields := map[string]string{}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["evidence"]
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	} else if err := c.Request().ParseForm(); err == nil {
		for key, values := range c.Request().PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}

	input := services.SubmitReportInput{
		Name:        fields["name"],
		Email:       fields["email"],
		Phone:       fields["phone"],
		CrimeType:   fields["crimeType"],
		Date:        fields["date"],
		Time:        fields["time"],
		Location:    fields["location"],
		State:       fields["state"],
		Description: fields["description"],
		Files:       files,
		Fields:      fields,
	}

	report, err := reportService(c).Submit(c.Request().Context(), input)
	if err != nil {
		return respondError(c, httpStatusFor(err), err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":       true,
		"message":       "Report submitted successfully",
		"reportId":      report.ReportCode,
		"evidenceCount": len(report.Evidence),
	})
}

// GetReportHandler returns the full case record for a report code
func GetReportHandler(c echo.Context) error {
	report, err := reportService(c).GetByCode(c.Param("reportCode"))
	if err != nil {
		return respondError(c, httpStatusFor(err), err.Error())
	}

	return c.JSON(http.StatusOK, report)
}

// ListReportsHandler serves two listings on one path: with an email query
// parameter it returns the owner's cases newest first; without it, the
// admin summary projection of every case.
func ListReportsHandler(c echo.Context) error {
	svc := reportService(c)

	if _, present := c.QueryParams()["email"]; present {
		email := strings.TrimSpace(c.QueryParam("email"))
		if email == "" {
			return respondError(c, http.StatusBadRequest, "email query parameter is required")
		}

		reports, err := svc.ListByOwner(email)
		if err != nil {
			return respondError(c, httpStatusFor(err), err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"reports": reports,
		})
	}

	summaries, err := svc.ListAll()
	if err != nil {
		return respondError(c, httpStatusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"reports": summaries,
	})
}

// UpdateReportStatusHandler advances a case through the lifecycle and
// optionally records the handling officer.
func UpdateReportStatusHandler(c echo.Context) error {
	var payload struct {
		Status          string `json:"status" form:"status"`
		AssignedOfficer string `json:"assignedOfficer" form:"assignedOfficer"`
	}
	if err := c.Bind(&payload); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	report, err := reportService(c).TransitionStatus(c.Param("reportCode"), payload.Status, payload.AssignedOfficer)
	if err != nil {
		return respondError(c, httpStatusFor(err), err.Error())
	}

	return c.JSON(http.StatusOK, report)
}

// EvidenceFileHandler serves a stored evidence blob by filename
func EvidenceFileHandler(c echo.Context) error {
	filename := c.Param("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return respondError(c, http.StatusNotFound, "Evidence file not found")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), services.EvidenceKey(filename))
	if err != nil {
		return respondError(c, http.StatusNotFound, "Evidence file not found")
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, contentType, reader)
}
