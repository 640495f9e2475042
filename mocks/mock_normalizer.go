package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labsight/internal/port"
)

// MockNormalizer is a mock implementation of port.Normalizer.
type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) Normalize(ctx context.Context, rawText string) (*port.NormalizeOutput, error) {
	args := m.Called(ctx, rawText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.NormalizeOutput), args.Error(1)
}
