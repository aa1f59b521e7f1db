package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"civiceye/config"
	"civiceye/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// codeAllocationAttempts bounds report-code retries on store collisions
const codeAllocationAttempts = 5

// sanitizer strips all HTML from reporter-supplied free text
var sanitizer = bluemonday.StrictPolicy()

// SubmitReportInput carries a raw submission across the upload boundary.
// Files are the multipart attachments; Fields is the full form field set,
// scanned for inline camera captures by the evidence reconciler.
type SubmitReportInput struct {
	Name        string
	Email       string
	Phone       string
	CrimeType   string
	Date        string // 2006-01-02, optional together with Time
	Time        string // 15:04
	Location    string
	State       string // jurisdiction code
	Description string

	Files  []*multipart.FileHeader
	Fields map[string]string
}

// ReportSummary is the projection returned by the admin listing
type ReportSummary struct {
	SequenceID      uint      `json:"sequenceId"`
	ReportID        string    `json:"reportId"`
	Name            string    `json:"name"`
	CrimeType       string    `json:"crimeType"`
	Location        string    `json:"location"`
	State           string    `json:"state"`
	Status          string    `json:"status"`
	AssignedOfficer string    `json:"assignedOfficer"`
	EvidenceCount   int       `json:"evidenceCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ReportService orchestrates the case lifecycle: submission, lookup, and
// status transitions. It is stateless between calls; all durable state lives
// in the store.
type ReportService struct {
	DB     *gorm.DB
	Config *config.Config

	// buildCode is swappable so tests can force deterministic collisions
	buildCode func(jurisdiction string, year int) string
}

// NewReportService creates a report service backed by the given store
func NewReportService(db *gorm.DB, cfg *config.Config) *ReportService {
	return &ReportService{
		DB:        db,
		Config:    cfg,
		buildCode: BuildReportCode,
	}
}

// Submit validates a submission, reconciles its evidence, allocates the case
// identifiers, and persists the record. Once the create succeeds the case is
// durably queryable by both identifiers; the confirmation email that follows
// is fire-and-forget and cannot fail the submission.
func (s *ReportService) Submit(ctx context.Context, input SubmitReportInput) (*models.Report, error) {
	// Validate before any allocation or file writes so a rejected
	// submission leaves no partial side effects
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	for _, file := range input.Files {
		if err := ValidateEvidenceUpload(file); err != nil {
			return nil, err
		}
	}

	// Camera captures are decoded here without writing so a malformed
	// payload cannot strand already-saved upload blobs
	if err := ValidateCameraCaptures(input.Fields); err != nil {
		return nil, err
	}

	occurredAt, err := combineOccurrence(input.Date, input.Time)
	if err != nil {
		return nil, err
	}

	// Upload boundary: persist multipart attachments, then hand their
	// references plus the raw field set to the reconciler
	uploaded := make([]string, 0, len(input.Files))
	for _, file := range input.Files {
		name, err := SaveEvidenceUpload(ctx, file)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, name)
	}

	evidence, err := ReconcileEvidence(ctx, uploaded, input.Fields)
	if err != nil {
		return nil, err
	}

	report, err := s.createWithCode(ctx, input, occurredAt, evidence)
	if err != nil {
		return nil, err
	}

	if s.Config != nil {
		SendEmailAsync(s.Config, BuildReportConfirmationEmail(report.Email, report.Name, report.ReportCode, len(report.Evidence)))
	}

	return report, nil
}

// createWithCode draws a report code and persists the record, retrying with
// a fresh draw when the store rejects the code as a duplicate. The sequence
// id comes from the auto-increment primary key in the same insert, so both
// identifiers become visible atomically.
func (s *ReportService) createWithCode(ctx context.Context, input SubmitReportInput, occurredAt *time.Time, evidence []string) (*models.Report, error) {
	for attempt := 0; attempt < codeAllocationAttempts; attempt++ {
		report := models.Report{
			ReportCode:  s.buildCode(input.State, 0),
			Name:        sanitizer.Sanitize(strings.TrimSpace(input.Name)),
			Email:       strings.TrimSpace(input.Email),
			Phone:       strings.TrimSpace(input.Phone),
			CrimeType:   sanitizer.Sanitize(strings.TrimSpace(input.CrimeType)),
			OccurredAt:  occurredAt,
			Location:    sanitizer.Sanitize(strings.TrimSpace(input.Location)),
			State:       strings.TrimSpace(input.State),
			Description: sanitizer.Sanitize(strings.TrimSpace(input.Description)),
			Evidence:    evidence,
			Status:      models.ReportStatusRegistered,
		}

		err := s.DB.WithContext(ctx).Create(&report).Error
		if err == nil {
			return &report, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Collision on the random serial, draw again
			continue
		}
		return nil, fmt.Errorf("%w: failed to create report: %v", ErrPersistence, err)
	}

	return nil, fmt.Errorf("%w: no unique report code after %d attempts", ErrAllocationExhausted, codeAllocationAttempts)
}

// GetByCode returns the full case record for a report code
func (s *ReportService) GetByCode(code string) (*models.Report, error) {
	var report models.Report
	if err := s.DB.First(&report, "report_code = ?", strings.TrimSpace(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no report with code %q", ErrNotFound, code)
		}
		return nil, fmt.Errorf("%w: failed to fetch report: %v", ErrPersistence, err)
	}
	return &report, nil
}

// ListByOwner returns all cases submitted under the given email, newest
// first. An unknown email yields an empty list, not an error, so the
// endpoint discloses nothing about enrollment.
func (s *ReportService) ListByOwner(email string) ([]models.Report, error) {
	reports := []models.Report{}
	err := s.DB.Where("email = ?", strings.TrimSpace(email)).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list reports: %v", ErrPersistence, err)
	}
	return reports, nil
}

// ListAll returns the admin summary projection of every case, newest first
func (s *ReportService) ListAll() ([]ReportSummary, error) {
	var reports []models.Report
	if err := s.DB.Order("id DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list reports: %v", ErrPersistence, err)
	}

	summaries := make([]ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, ReportSummary{
			SequenceID:      r.ID,
			ReportID:        r.ReportCode,
			Name:            r.Name,
			CrimeType:       r.CrimeType,
			Location:        r.Location,
			State:           r.State,
			Status:          r.Status,
			AssignedOfficer: r.AssignedOfficer,
			EvidenceCount:   len(r.Evidence),
			CreatedAt:       r.CreatedAt,
		})
	}
	return summaries, nil
}

// TransitionStatus advances a case to the next lifecycle state. Only the
// immediate successor is accepted; the terminal state rejects every further
// transition. The officer assignment is persisted alongside when provided.
func (s *ReportService) TransitionStatus(code, newStatus, officer string) (*models.Report, error) {
	newStatus = strings.TrimSpace(newStatus)
	if !models.IsValidReportStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	report, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if report.IsResolved() {
		return nil, fmt.Errorf("%w: case %s is resolved and accepts no further transitions", ErrInvalidTransition, report.ReportCode)
	}
	if !models.CanTransition(report.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move from %q to %q", ErrInvalidTransition, report.Status, newStatus)
	}

	updates := map[string]interface{}{"status": newStatus}
	if officer = strings.TrimSpace(officer); officer != "" {
		updates["assigned_officer"] = sanitizer.Sanitize(officer)
	}

	if err := s.DB.Model(report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrPersistence, err)
	}

	return s.GetByCode(code)
}

// validateSubmission enforces the required field set. Date and time are
// optional as a pair: the occurrence timestamp is simply absent without them.
func validateSubmission(input SubmitReportInput) error {
	var missing []string

	required := []struct {
		name, value string
	}{
		{"name", input.Name},
		{"email", input.Email},
		{"phone", input.Phone},
		{"crimeType", input.CrimeType},
		{"location", input.Location},
		{"state", input.State},
		{"description", input.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// combineOccurrence merges the date and time form fields into a single
// occurrence timestamp, or nil when either is absent.
func combineOccurrence(date, timeOfDay string) (*time.Time, error) {
	date = strings.TrimSpace(date)
	timeOfDay = strings.TrimSpace(timeOfDay)
	if date == "" || timeOfDay == "" {
		return nil, nil
	}

	occurred, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date/time: %v", ErrValidation, err)
	}
	return &occurred, nil
}
