package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labsight/internal/port"
)

// MockJudge is a mock implementation of port.Judge.
type MockJudge struct {
	mock.Mock
}

func (m *MockJudge) Judge(ctx context.Context, input port.JudgeInput) (*port.JudgeOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.JudgeOutput), args.Error(1)
}
