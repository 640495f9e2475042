package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"labsight/internal/domain"
	"labsight/internal/service"
)

// MockReportService is a mock implementation of service.ReportService. It
// lives with the handler tests because a shared mock of the service layer
// would drag the whole pipeline into every test binary's import graph.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Process(ctx context.Context, in service.ProcessInput) (*domain.PipelineResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineResult), args.Error(1)
}

func (m *MockReportService) GetRun(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineRun), args.Error(1)
}

func (m *MockReportService) ListRuns(ctx context.Context, offset, limit int) ([]domain.PipelineRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PipelineRun), args.Int(1), args.Error(2)
}

func (m *MockReportService) GetOriginal(ctx context.Context, id uuid.UUID) (*service.OriginalUpload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OriginalUpload), args.Error(1)
}

func (m *MockReportService) DeleteRun(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
