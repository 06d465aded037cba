package dto

import (
	"time"

	"github.com/spec-kit/incident-report-service/internal/domain"
)

// CreateReportRequest payload. Coordinates are pointers so a missing value
// is distinguishable from a legitimate zero (the equator exists).
type CreateReportRequest struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	IncidentDate string   `json:"incidentDate"`
	ReportDate   string   `json:"reportDate"`
	UserID       string   `json:"userId"`
}

// UpdateReportRequest carries a partial field update.
type UpdateReportRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	IncidentDate *string  `json:"incidentDate"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// UpdateStatusRequest payload for the status transition endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ReportResponse is the wire shape of a report.
type ReportResponse struct {
	ID           string              `json:"id"`
	Type         domain.ReportType   `json:"type"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       domain.ReportStatus `json:"status"`
	Location     domain.Location     `json:"location"`
	IncidentDate time.Time           `json:"incidentDate"`
	ReportDate   time.Time           `json:"reportDate"`
	UserID       string              `json:"userId"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// StatusHistoryResponse is one recorded status transition.
type StatusHistoryResponse struct {
	ID        string              `json:"id"`
	OldStatus domain.ReportStatus `json:"oldStatus"`
	NewStatus domain.ReportStatus `json:"newStatus"`
	CreatedAt time.Time           `json:"createdAt"`
}
