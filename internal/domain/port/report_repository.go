package port

import (
	"context"

	"obscura/internal/domain/entity"
)

// ReportRepository интерфейс хранилища результатов анализа
type ReportRepository interface {
	// Save сохраняет результат анализа
	Save(ctx context.Context, rec *entity.AnalysisRecord) error

	// Get возвращает результат по ID запроса
	Get(ctx context.Context, id string) (*entity.AnalysisRecord, error)
}
