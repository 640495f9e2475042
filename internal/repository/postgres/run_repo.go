package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"labsight/internal/domain"
	"labsight/internal/port"
)

type runRepo struct {
	db *sqlx.DB
}

// NewRunRepo creates a new PostgreSQL-backed RunRepository.
func NewRunRepo(db *sqlx.DB) port.RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO pipeline_runs
		(id, request_id, status, input_kind, s3_bucket, s3_key, tests, explanations,
		 summary, confidence, normalization_confidence, reason, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.RequestID, run.Status, run.InputKind, run.S3Bucket, run.S3Key,
		run.Tests, run.Explanations, run.Summary, run.Confidence,
		run.NormalizationConfidence, run.Reason, run.Message, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("runRepo.Create: %w", err)
	}
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	err := r.db.GetContext(ctx, &run,
		"SELECT * FROM pipeline_runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("runRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *runRepo) List(ctx context.Context, offset, limit int) ([]domain.PipelineRun, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM pipeline_runs")
	if err != nil {
		return nil, 0, fmt.Errorf("runRepo.List count: %w", err)
	}

	var runs []domain.PipelineRun
	err = r.db.SelectContext(ctx, &runs,
		`SELECT * FROM pipeline_runs
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("runRepo.List: %w", err)
	}
	return runs, total, nil
}

func (r *runRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pipeline_runs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("runRepo.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("runRepo.Delete: %w", err)
	}
	if n == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}
