package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/linguaflash/internal/models"
)

// MockOnboardingRepository is a mock implementation of repository.OnboardingRepository
type MockOnboardingRepository struct {
	mock.Mock
}

func (m *MockOnboardingRepository) Get(ctx context.Context, userID string) (*models.OnboardingState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OnboardingState), args.Error(1)
}

func (m *MockOnboardingRepository) Save(ctx context.Context, state models.OnboardingState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockOnboardingRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
