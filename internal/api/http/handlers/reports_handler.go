package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-report-service/internal/api/dto"
	"github.com/spec-kit/incident-report-service/internal/domain"
	"github.com/spec-kit/incident-report-service/internal/service"
	apperrors "github.com/spec-kit/incident-report-service/pkg/util/errorutil"
)

// ReportsHandler exposes the report lifecycle endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// CreateReport POST /report.
func (h *ReportsHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ReportCreateInput{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		IncidentDate: req.IncidentDate,
		ReportDate:   req.ReportDate,
		UserID:       req.UserID,
	}
	report, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportResponse(report)})
}

// ListReports GET /reports.
func (h *ReportsHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponses(reports)})
}

// ListUserReports GET /report/:userId.
func (h *ReportsHandler) ListUserReports(c *fiber.Ctx) error {
	reports, err := h.service.ListByUser(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponses(reports)})
}

// UpdateReport PATCH /report/:id.
func (h *ReportsHandler) UpdateReport(c *fiber.Ctx) error {
	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ReportUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		IncidentDate: req.IncidentDate,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
	report, err := h.service.UpdateFields(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// UpdateStatus PUT /report/:id.
func (h *ReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	report, err := h.service.UpdateStatus(c.Context(), c.Params("id"), domain.ReportStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// DeleteReport DELETE /report/:id.
func (h *ReportsHandler) DeleteReport(c *fiber.Ctx) error {
	report, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

// StatusHistory GET /report/:id/history.
func (h *ReportsHandler) StatusHistory(c *fiber.Ctx) error {
	entries, err := h.service.StatusHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.StatusHistoryResponse{
			ID:        entry.ID,
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func reportResponse(report *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:           report.ID,
		Type:         report.Type,
		Title:        report.Title,
		Description:  report.Description,
		Status:       report.Status,
		Location:     report.Location,
		IncidentDate: report.IncidentDate,
		ReportDate:   report.ReportDate,
		UserID:       report.UserID,
		CreatedAt:    report.CreatedAt,
		UpdatedAt:    report.UpdatedAt,
	}
}

func reportResponses(reports []domain.Report) []dto.ReportResponse {
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reportResponse(&reports[i]))
	}
	return items
}
