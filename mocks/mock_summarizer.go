package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labsight/internal/domain"
	"labsight/internal/port"
)

// MockSummarizer is a mock implementation of port.Summarizer.
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, tests []domain.LabTest) (*port.SummarizeOutput, error) {
	args := m.Called(ctx, tests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.SummarizeOutput), args.Error(1)
}
