package storage

import (
	"context"
	"errors"
	"sync"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// ErrNotFound возвращается, когда отчёт с таким ID не сохранялся.
var ErrNotFound = errors.New("report is not found")

// MemoryReportRepository — in-memory хранилище результатов анализа.
// Результаты живут до перезапуска процесса; фронтенд забирает их по ID.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	records map[string]*entity.AnalysisRecord
}

// NewMemoryReportRepository создаёт новое in-memory хранилище.
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{
		records: make(map[string]*entity.AnalysisRecord),
	}
}

// Save сохраняет результат анализа.
func (r *MemoryReportRepository) Save(ctx context.Context, rec *entity.AnalysisRecord) error {
	_ = ctx
	r.mu.Lock()
	r.records[rec.ID] = rec
	r.mu.Unlock()
	return nil
}

// Get возвращает результат по ID запроса.
func (r *MemoryReportRepository) Get(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	_ = ctx
	r.mu.RLock()
	rec, exists := r.records[id]
	r.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Проверка реализации интерфейса
var _ port.ReportRepository = (*MemoryReportRepository)(nil)
