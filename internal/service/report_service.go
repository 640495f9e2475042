package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"

	"labsight/internal/config"
	"labsight/internal/domain"
	"labsight/internal/extractor"
	"labsight/internal/pipeline"
	"labsight/internal/port"
)

// ProcessInput carries one report submission.
type ProcessInput struct {
	Text        string
	FileBytes   []byte
	ContentType string
	RequestID   string
}

// OriginalUpload is a stored original report document.
type OriginalUpload struct {
	Data        []byte
	ContentType string
	Key         string
}

// ReportService runs the analysis pipeline and, when the archive is
// enabled, records runs and stores original uploads.
type ReportService interface {
	Process(ctx context.Context, in ProcessInput) (*domain.PipelineResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error)
	ListRuns(ctx context.Context, offset, limit int) ([]domain.PipelineRun, int, error)
	GetOriginal(ctx context.Context, id uuid.UUID) (*OriginalUpload, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}

type reportService struct {
	orchestrator *pipeline.Orchestrator
	runRepo      port.RunRepository  // nil when the archive is disabled
	storage      port.ObjectStorage  // nil when the archive is disabled
	s3cfg        *config.S3Config
}

// NewReportService creates a ReportService. runRepo and storage may be nil;
// processing then leaves no trace, which is the default.
func NewReportService(
	orchestrator *pipeline.Orchestrator,
	runRepo port.RunRepository,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
) ReportService {
	return &reportService{
		orchestrator: orchestrator,
		runRepo:      runRepo,
		storage:      storage,
		s3cfg:        s3cfg,
	}
}

func (s *reportService) Process(ctx context.Context, in ProcessInput) (*domain.PipelineResult, error) {
	if in.Text == "" && len(in.FileBytes) == 0 {
		return nil, domain.ErrMissingInput
	}
	if s.s3cfg != nil && int64(len(in.FileBytes)) > s.s3cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	// Store the original upload first so a failed run can still be traced
	// back to its source document.
	var s3Bucket, s3Key string
	if s.storage != nil && len(in.FileBytes) > 0 {
		s3Bucket, s3Key = s.storeOriginal(ctx, in)
	}

	result := s.orchestrator.Process(ctx, extractor.Input{
		Text:        in.Text,
		FileBytes:   in.FileBytes,
		ContentType: in.ContentType,
	})

	if s.runRepo != nil {
		s.archive(ctx, in, result, s3Bucket, s3Key)
	}

	return result, nil
}

func (s *reportService) storeOriginal(ctx context.Context, in ProcessInput) (bucket, key string) {
	key = fmt.Sprintf("reports/%s%s", uuid.New(), extensionFor(in.ContentType))
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(in.FileBytes),
		ContentType: in.ContentType,
	})
	if err != nil {
		// Archival must not block processing.
		log.Printf("reportService: storing original upload failed: %v", err)
		return "", ""
	}
	return s.s3cfg.Bucket, key
}

func (s *reportService) archive(ctx context.Context, in ProcessInput, result *domain.PipelineResult, s3Bucket, s3Key string) {
	run := &domain.PipelineRun{
		ID:                      uuid.New(),
		RequestID:               in.RequestID,
		Status:                  result.Status,
		InputKind:               inputKind(in),
		S3Bucket:                s3Bucket,
		S3Key:                   s3Key,
		Summary:                 result.Summary,
		Confidence:              result.Confidence,
		NormalizationConfidence: result.NormalizationConfidence,
		Reason:                  result.Reason,
		Message:                 result.Message,
		CreatedAt:               time.Now().UTC(),
	}
	if result.Tests != nil {
		run.Tests, _ = json.Marshal(result.Tests)
	}
	if result.Explanations != nil {
		run.Explanations, _ = json.Marshal(result.Explanations)
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		log.Printf("reportService: archiving run failed: %v", err)
	}
}

func (s *reportService) GetRun(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	if s.runRepo == nil {
		return nil, domain.ErrArchiveDisabled
	}
	return s.runRepo.GetByID(ctx, id)
}

func (s *reportService) ListRuns(ctx context.Context, offset, limit int) ([]domain.PipelineRun, int, error) {
	if s.runRepo == nil {
		return nil, 0, domain.ErrArchiveDisabled
	}
	return s.runRepo.List(ctx, offset, limit)
}

func (s *reportService) GetOriginal(ctx context.Context, id uuid.UUID) (*OriginalUpload, error) {
	if s.runRepo == nil || s.storage == nil {
		return nil, domain.ErrArchiveDisabled
	}
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.S3Key == "" {
		return nil, domain.ErrOriginalNotFound
	}
	data, err := s.storage.Download(ctx, run.S3Bucket, run.S3Key)
	if err != nil {
		return nil, fmt.Errorf("reportService.GetOriginal: %w", err)
	}
	return &OriginalUpload{
		Data:        data,
		ContentType: contentTypeFor(run.S3Key),
		Key:         run.S3Key,
	}, nil
}

func (s *reportService) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if s.runRepo == nil {
		return domain.ErrArchiveDisabled
	}
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.runRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.storage != nil && run.S3Key != "" {
		if err := s.storage.Delete(ctx, run.S3Bucket, run.S3Key); err != nil {
			// The row is already gone; an orphaned object should not fail
			// the request.
			log.Printf("reportService: deleting original upload failed: %v", err)
		}
	}
	return nil
}

func inputKind(in ProcessInput) domain.InputKind {
	if in.Text != "" {
		return domain.InputKindText
	}
	if ft, ok := domain.AllowedContentTypes[in.ContentType]; ok {
		return domain.InputKindForFileType(ft)
	}
	return domain.InputKindImage
}

func contentTypeFor(key string) string {
	switch path.Ext(key) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}
