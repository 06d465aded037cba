package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-report-service/internal/domain"
)

// ReportStatusHistoryRepository stores append-only status transitions.
type ReportStatusHistoryRepository interface {
	Create(ctx context.Context, entry *domain.ReportStatusHistory) error
	ListByReport(ctx context.Context, reportID string) ([]domain.ReportStatusHistory, error)
}

type reportHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewReportStatusHistoryRepository instantiates the repository.
func NewReportStatusHistoryRepository(pool *pgxpool.Pool) ReportStatusHistoryRepository {
	return &reportHistoryRepository{pool: pool}
}

func (r *reportHistoryRepository) Create(ctx context.Context, entry *domain.ReportStatusHistory) error {
	const query = `
        INSERT INTO report_status_history (report_id, old_status, new_status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ReportID,
		entry.OldStatus,
		entry.NewStatus,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *reportHistoryRepository) ListByReport(ctx context.Context, reportID string) ([]domain.ReportStatusHistory, error) {
	const query = `
        SELECT id, report_id, old_status, new_status, created_at
        FROM report_status_history WHERE report_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ReportStatusHistory{}
	for rows.Next() {
		var entry domain.ReportStatusHistory
		if err := rows.Scan(&entry.ID, &entry.ReportID, &entry.OldStatus, &entry.NewStatus, &entry.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
