package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/resumehelp-api/internal/model"
)

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, req model.EvaluationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockEvaluator) ImproveResume(ctx context.Context, resumeText, role string) (string, error) {
	args := m.Called(ctx, resumeText, role)
	return args.String(0), args.Error(1)
}
