package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-report-service/internal/domain"
)

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	ListAll(ctx context.Context) ([]domain.Report, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Report, error)
	Delete(ctx context.Context, id string) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates a Postgres-backed repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (type, title, description, status, latitude, longitude, incident_date, report_date, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.Type,
		report.Title,
		report.Description,
		report.Status,
		report.Location.Latitude,
		report.Location.Longitude,
		report.IncidentDate,
		report.ReportDate,
		report.UserID,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	const query = `
        UPDATE reports SET title=$1, description=$2, status=$3, latitude=$4, longitude=$5,
            incident_date=$6, report_date=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		report.Title,
		report.Description,
		report.Status,
		report.Location.Latitude,
		report.Location.Longitude,
		report.IncidentDate,
		report.ReportDate,
		report.ID,
	).Scan(&report.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

const reportColumns = `id, type, title, description, status, latitude, longitude,
               incident_date, report_date, user_id, created_at, updated_at`

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	const query = `
        SELECT ` + reportColumns + `
        FROM reports WHERE id=$1`
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Type,
		&report.Title,
		&report.Description,
		&report.Status,
		&report.Location.Latitude,
		&report.Location.Longitude,
		&report.IncidentDate,
		&report.ReportDate,
		&report.UserID,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) ListAll(ctx context.Context) ([]domain.Report, error) {
	const query = `
        SELECT ` + reportColumns + `
        FROM reports ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	const query = `
        SELECT ` + reportColumns + `
        FROM reports WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	result := []domain.Report{}
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.Type,
			&report.Title,
			&report.Description,
			&report.Status,
			&report.Location.Latitude,
			&report.Location.Longitude,
			&report.IncidentDate,
			&report.ReportDate,
			&report.UserID,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
