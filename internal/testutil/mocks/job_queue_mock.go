package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueStreakDecay(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
