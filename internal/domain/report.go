package domain

import "time"

// ReportStatus enumerates lifecycle states for reports.
type ReportStatus string

const (
	ReportStatusPending            ReportStatus = "PENDING"
	ReportStatusUnderInvestigation ReportStatus = "UNDER_INVESTIGATION"
	ReportStatusResolved           ReportStatus = "RESOLVED"
	ReportStatusRejected           ReportStatus = "REJECTED"
)

// ValidReportStatus reports whether the value belongs to the status set.
// Every status is reachable from every other one; membership is the only
// transition rule.
func ValidReportStatus(status ReportStatus) bool {
	switch status {
	case ReportStatusPending, ReportStatusUnderInvestigation, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

// ReportType enumerates the two incident categories.
type ReportType string

const (
	ReportTypeRedFlag      ReportType = "RED_FLAG"
	ReportTypeIntervention ReportType = "INTERVENTION"
)

// ValidReportType reports whether the value belongs to the type set.
func ValidReportType(t ReportType) bool {
	return t == ReportTypeRedFlag || t == ReportTypeIntervention
}

// Location is the embedded coordinate pair on a report. It is written
// wholesale, never merged field by field.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid checks both coordinates against their ranges. Out-of-range values
// are rejected, not clamped.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Report is the aggregate for citizen incident records.
type Report struct {
	ID           string
	Type         ReportType
	Title        string
	Description  string
	Status       ReportStatus
	Location     Location
	IncidentDate time.Time
	ReportDate   time.Time
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Editable reports whether field edits and deletion are still allowed.
// Only PENDING reports may be changed by their submitter.
func (r *Report) Editable() bool {
	return r.Status == ReportStatusPending
}
