package events

import (
	"time"

	"github.com/spec-kit/incident-report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportFieldsUpdated EventType = "report_fields_updated"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportDeleted       EventType = "report_deleted"
)

// Event represents a domain event emitted by the lifecycle service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Type     domain.ReportType   `json:"type"`
	Status   domain.ReportStatus `json:"status"`
	Title    string              `json:"title"`
	Location domain.Location     `json:"location"`
}

// ReportFieldsUpdatedPayload payload.
type ReportFieldsUpdatedPayload struct {
	UpdatedFields []string `json:"updated_fields"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// ReportDeletedPayload payload.
type ReportDeletedPayload struct {
	Status domain.ReportStatus `json:"status"`
}
