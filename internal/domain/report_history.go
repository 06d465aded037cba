package domain

import "time"

// ReportStatusHistory is an append-only record of a status transition.
type ReportStatusHistory struct {
	ID        string
	ReportID  string
	OldStatus ReportStatus
	NewStatus ReportStatus
	CreatedAt time.Time
}
