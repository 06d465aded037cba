package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-report-service/internal/domain"
)

// Memory-backed repositories serve the test suite and the no-DSN startup
// path. They return pgx.ErrNoRows on misses so error mapping stays uniform
// with the Postgres implementations.

// MemoryReportRepository is a mutex-guarded in-memory ReportRepository.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

// NewMemoryReportRepository creates an empty store.
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{reports: make(map[string]domain.Report)}
}

func (r *MemoryReportRepository) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	report.ID = uuid.NewString()
	report.CreatedAt = now
	report.UpdatedAt = now
	r.reports[report.ID] = *report
	return nil
}

func (r *MemoryReportRepository) Update(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return pgx.ErrNoRows
	}
	report.UpdatedAt = time.Now()
	r.reports[report.ID] = *report
	return nil
}

func (r *MemoryReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &report, nil
}

func (r *MemoryReportRepository) ListAll(_ context.Context) ([]domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Report, 0, len(r.reports))
	for _, report := range r.reports {
		result = append(result, report)
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *MemoryReportRepository) ListByUser(_ context.Context, userID string) ([]domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Report{}
	for _, report := range r.reports {
		if report.UserID == userID {
			result = append(result, report)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *MemoryReportRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reports, id)
	return nil
}

func sortNewestFirst(reports []domain.Report) {
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID > reports[j].ID
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}

// MemoryUserRepository is a mutex-guarded in-memory UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository creates an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	user.ID = uuid.NewString()
	user.DateOfJoining = now
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// MemoryReportStatusHistoryRepository keeps transitions in insertion order.
type MemoryReportStatusHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.ReportStatusHistory
}

// NewMemoryReportStatusHistoryRepository creates an empty store.
func NewMemoryReportStatusHistoryRepository() *MemoryReportStatusHistoryRepository {
	return &MemoryReportStatusHistoryRepository{}
}

func (r *MemoryReportStatusHistoryRepository) Create(_ context.Context, entry *domain.ReportStatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryReportStatusHistoryRepository) ListByReport(_ context.Context, reportID string) ([]domain.ReportStatusHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.ReportStatusHistory{}
	for _, entry := range r.entries {
		if entry.ReportID == reportID {
			result = append(result, entry)
		}
	}
	return result, nil
}

var (
	_ ReportRepository              = (*MemoryReportRepository)(nil)
	_ UserRepository                = (*MemoryUserRepository)(nil)
	_ ReportStatusHistoryRepository = (*MemoryReportStatusHistoryRepository)(nil)
)
