package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-report-service/internal/cache"
	"github.com/spec-kit/incident-report-service/internal/domain"
	"github.com/spec-kit/incident-report-service/internal/events"
	"github.com/spec-kit/incident-report-service/internal/repository"
	apperrors "github.com/spec-kit/incident-report-service/pkg/util/errorutil"
)

// ReportService owns the report lifecycle: creation, listing, field updates,
// status transitions, and deletion. It is the only place the lifecycle rules
// are enforced; callers arrive already authenticated.
type ReportService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	history    repository.ReportStatusHistoryRepository
	listings   *cache.ReportCache
	dispatcher events.Dispatcher
}

// ReportDependencies bundles collaborators for the lifecycle service.
type ReportDependencies struct {
	ReportRepo  repository.ReportRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.ReportStatusHistoryRepository
	Cache       *cache.ReportCache
	Dispatcher  events.Dispatcher
}

// ReportCreateInput describes report creation payload. Coordinates are
// pointers so a missing value is distinguishable from zero.
type ReportCreateInput struct {
	Type         string
	Title        string
	Description  string
	Status       string
	Latitude     *float64
	Longitude    *float64
	IncidentDate string
	ReportDate   string
	UserID       string
}

// ReportUpdateInput carries a partial field update. Nil fields are left
// unchanged; coordinates must be supplied as a pair.
type ReportUpdateInput struct {
	Title        *string
	Description  *string
	IncidentDate *string
	Latitude     *float64
	Longitude    *float64
}

// Empty reports whether no recognized field was supplied.
func (in ReportUpdateInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.IncidentDate == nil &&
		in.Latitude == nil && in.Longitude == nil
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		listings:   deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates and persists a new report with status defaulting to
// PENDING. The owning user must exist; nothing is written otherwise.
func (s *ReportService) Create(ctx context.Context, input ReportCreateInput) (*domain.Report, error) {
	if input.Latitude == nil || input.Longitude == nil || input.IncidentDate == "" || input.ReportDate == "" {
		return nil, apperrors.NewValidationError("latitude, longitude, incidentDate, and reportDate are required", nil)
	}
	if input.UserID == "" {
		return nil, apperrors.NewValidationError("userId is required", nil)
	}

	location := domain.Location{Latitude: *input.Latitude, Longitude: *input.Longitude}
	if err := validateLocation(location); err != nil {
		return nil, err
	}

	incidentDate, err := parseDate(input.IncidentDate)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date format for incidentDate", nil)
	}
	reportDate, err := parseDate(input.ReportDate)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date format for reportDate", nil)
	}

	reportType := domain.ReportType(input.Type)
	if input.Type == "" {
		reportType = domain.ReportTypeRedFlag
	} else if !domain.ValidReportType(reportType) {
		return nil, apperrors.NewValidationError("invalid report type", map[string]any{"type": input.Type})
	}

	status := domain.ReportStatusPending
	if input.Status != "" {
		status = domain.ReportStatus(input.Status)
		if !domain.ValidReportStatus(status) {
			return nil, apperrors.NewValidationError("invalid status provided", map[string]any{"status": input.Status})
		}
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"userId": input.UserID})
		}
		return nil, apperrors.MapError(err)
	}

	report := &domain.Report{
		Type:         reportType,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       status,
		Location:     location,
		IncidentDate: incidentDate,
		ReportDate:   reportDate,
		UserID:       input.UserID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.listings.Invalidate(ctx, report.UserID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportCreated,
		ReportID: report.ID,
		UserID:   report.UserID,
		Payload: events.ReportCreatedPayload{
			Type:     report.Type,
			Status:   report.Status,
			Title:    report.Title,
			Location: report.Location,
		},
	})
	return report, nil
}

// List returns every report, newest first.
func (s *ReportService) List(ctx context.Context) ([]domain.Report, error) {
	if reports, ok := s.listings.GetAll(ctx); ok {
		return reports, nil
	}
	reports, err := s.reports.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.listings.SetAll(ctx, reports)
	return reports, nil
}

// ListByUser returns the user's reports, newest first. Zero matches is an
// error for this endpoint, unlike List which returns an empty slice.
func (s *ReportService) ListByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	if reports, ok := s.listings.GetByUser(ctx, userID); ok && len(reports) > 0 {
		return reports, nil
	}
	reports, err := s.reports.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(reports) == 0 {
		return nil, apperrors.NewNotFound("reports for user", map[string]any{"userId": userID})
	}
	s.listings.SetByUser(ctx, userID, reports)
	return reports, nil
}

// UpdateFields applies a partial update to an editable report. Input is
// validated before the store is touched; the update is all-or-nothing.
func (s *ReportService) UpdateFields(ctx context.Context, id string, input ReportUpdateInput) (*domain.Report, error) {
	if input.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, apperrors.NewValidationError("latitude and longitude must be supplied together", nil)
	}

	var location *domain.Location
	if input.Latitude != nil {
		loc := domain.Location{Latitude: *input.Latitude, Longitude: *input.Longitude}
		if err := validateLocation(loc); err != nil {
			return nil, err
		}
		location = &loc
	}

	var incidentDate *time.Time
	if input.IncidentDate != nil {
		parsed, err := parseDate(*input.IncidentDate)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid date format for incidentDate", nil)
		}
		incidentDate = &parsed
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !report.Editable() {
		return nil, apperrors.NewPreconditionFailed("only pending reports can be edited", map[string]any{"status": report.Status})
	}

	updated := []string{}
	if input.Title != nil {
		report.Title = strings.TrimSpace(*input.Title)
		updated = append(updated, "title")
	}
	if input.Description != nil {
		report.Description = strings.TrimSpace(*input.Description)
		updated = append(updated, "description")
	}
	if incidentDate != nil {
		report.IncidentDate = *incidentDate
		updated = append(updated, "incidentDate")
	}
	if location != nil {
		// the embedded location is replaced wholesale, never merged
		report.Location = *location
		updated = append(updated, "location")
	}

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.listings.Invalidate(ctx, report.UserID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportFieldsUpdated,
		ReportID: report.ID,
		UserID:   report.UserID,
		Payload:  events.ReportFieldsUpdatedPayload{UpdatedFields: updated},
	})
	return report, nil
}

// UpdateStatus sets the report status. Any status can follow any other; the
// only rule is membership in the enumerated set.
func (s *ReportService) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	if !domain.ValidReportStatus(status) {
		return nil, apperrors.NewValidationError("invalid status provided", map[string]any{"status": status})
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := report.Status
	report.Status = status
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordStatusChange(ctx, report.ID, oldStatus, status); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.listings.Invalidate(ctx, report.UserID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: report.ID,
		UserID:   report.UserID,
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return report, nil
}

// Delete hard-deletes an editable report and returns the deleted record.
func (s *ReportService) Delete(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !report.Editable() {
		return nil, apperrors.NewPreconditionFailed("only pending reports can be deleted", map[string]any{"status": report.Status})
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.listings.Invalidate(ctx, report.UserID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportDeleted,
		ReportID: report.ID,
		UserID:   report.UserID,
		Payload:  events.ReportDeletedPayload{Status: report.Status},
	})
	return report, nil
}

// StatusHistory returns the recorded transitions for a report.
func (s *ReportService) StatusHistory(ctx context.Context, id string) ([]domain.ReportStatusHistory, error) {
	if s.history == nil {
		return []domain.ReportStatusHistory{}, nil
	}
	if _, err := s.reports.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.history.ListByReport(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *ReportService) recordStatusChange(ctx context.Context, reportID string, oldStatus, newStatus domain.ReportStatus) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.ReportStatusHistory{
		ReportID:  reportID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	return s.history.Create(ctx, entry)
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateLocation(loc domain.Location) error {
	if math.IsNaN(loc.Latitude) || math.IsInf(loc.Latitude, 0) || loc.Latitude < -90 || loc.Latitude > 90 {
		return apperrors.NewValidationError("invalid latitude, must be between -90 and 90", map[string]any{"latitude": loc.Latitude})
	}
	if math.IsNaN(loc.Longitude) || math.IsInf(loc.Longitude, 0) || loc.Longitude < -180 || loc.Longitude > 180 {
		return apperrors.NewValidationError("invalid longitude, must be between -180 and 180", map[string]any{"longitude": loc.Longitude})
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
