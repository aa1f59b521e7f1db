package models

import "time"

// Report lifecycle statuses, in strict forward order
const (
	ReportStatusRegistered      = "registered"
	ReportStatusApproved        = "approved"
	ReportStatusOfficerAssigned = "officer-assigned"
	ReportStatusInvestigating   = "investigating"
	ReportStatusResolved        = "resolved"
)

// reportStatusOrder defines the only legal progression of a case.
// A transition is valid iff the target is the immediate successor of the
// current status; "resolved" is terminal.
var reportStatusOrder = []string{
	ReportStatusRegistered,
	ReportStatusApproved,
	ReportStatusOfficerAssigned,
	ReportStatusInvestigating,
	ReportStatusResolved,
}

// Report represents a submitted crime report and its full lifecycle state.
// ID doubles as the sequence id: sqlite assigns it via the auto-increment
// primary key, giving a strictly increasing total order across all cases.
type Report struct {
	ID         uint   `gorm:"primarykey" json:"sequenceId"`
	ReportCode string `gorm:"not null;uniqueIndex" json:"reportId"`

	// Reporter identity (immutable after submission)
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"not null;index" json:"email"`
	Phone string `gorm:"not null" json:"phone"`

	// Incident descriptor
	CrimeType   string     `gorm:"not null" json:"crimeType"`
	OccurredAt  *time.Time `json:"date"`
	Location    string     `gorm:"not null" json:"location"`
	State       string     `gorm:"not null" json:"state"` // jurisdiction code, drives the report code prefix
	Description string     `gorm:"type:text;not null" json:"description"`

	// Evidence filenames, uploads first then camera captures
	Evidence []string `gorm:"serializer:json" json:"evidence"`

	// Lifecycle
	Status          string `gorm:"not null;default:registered;index" json:"status"`
	AssignedOfficer string `gorm:"default:''" json:"assignedOfficer"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Report model
func (Report) TableName() string {
	return "reports"
}

// IsResolved checks if the report reached the terminal status
func (r *Report) IsResolved() bool {
	return r.Status == ReportStatusResolved
}

// IsValidReportStatus checks if the status is one of the lifecycle states
func IsValidReportStatus(status string) bool {
	for _, s := range reportStatusOrder {
		if s == status {
			return true
		}
	}
	return false
}

// NextReportStatus returns the immediate successor of the given status.
// The second return value is false for the terminal status and for unknown
// statuses.
func NextReportStatus(status string) (string, bool) {
	for i, s := range reportStatusOrder {
		if s == status {
			if i == len(reportStatusOrder)-1 {
				return "", false
			}
			return reportStatusOrder[i+1], true
		}
	}
	return "", false
}

// CanTransition reports whether moving from one status to another is legal:
// only single forward steps are allowed, never skips or reversals.
func CanTransition(from, to string) bool {
	next, ok := NextReportStatus(from)
	return ok && next == to
}

// ReportStatusDisplayName returns the human-readable label for a status
func ReportStatusDisplayName(status string) string {
	switch status {
	case ReportStatusRegistered:
		return "Registered"
	case ReportStatusApproved:
		return "Approved"
	case ReportStatusOfficerAssigned:
		return "Officer Assigned"
	case ReportStatusInvestigating:
		return "Under Investigation"
	case ReportStatusResolved:
		return "Resolved"
	default:
		return status
	}
}
