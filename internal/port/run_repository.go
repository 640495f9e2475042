package port

import (
	"context"

	"github.com/google/uuid"

	"labsight/internal/domain"
)

// RunRepository persists archived pipeline runs.
type RunRepository interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error)
	List(ctx context.Context, offset, limit int) ([]domain.PipelineRun, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
