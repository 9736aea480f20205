package services

import (
	"context"
	"encoding/json"

	"github.com/vytor/linguaflash/internal/errors"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/repository"
)

// OnboardingService handles the first-run flags kept outside the progress document
type OnboardingService interface {
	GetOnboarding(ctx context.Context, userID string) (*models.OnboardingState, error)
	SaveOnboarding(ctx context.Context, userID string, completed bool, userData json.RawMessage) (*models.OnboardingState, error)
	DeleteOnboarding(ctx context.Context, userID string) error
}

type onboardingService struct {
	onboardingRepo repository.OnboardingRepository
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(onboardingRepo repository.OnboardingRepository) OnboardingService {
	return &onboardingService{onboardingRepo: onboardingRepo}
}

// GetOnboarding returns the stored flags, or a not-yet-onboarded state.
func (s *onboardingService) GetOnboarding(ctx context.Context, userID string) (*models.OnboardingState, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting onboarding: user_id=%s", userID)

	if userID == "" {
		return nil, errors.NewBadRequestError("missing user id")
	}

	state, err := s.onboardingRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get onboarding: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if state == nil {
		return &models.OnboardingState{UserID: userID}, nil
	}

	return state, nil
}

func (s *onboardingService) SaveOnboarding(ctx context.Context, userID string, completed bool, userData json.RawMessage) (*models.OnboardingState, error) {
	log := logger.FromContext(ctx)
	log.Debug("saving onboarding: user_id=%s, completed=%t", userID, completed)

	if userID == "" {
		return nil, errors.NewBadRequestError("missing user id")
	}
	if len(userData) > 0 && !json.Valid(userData) {
		return nil, errors.NewValidationError("userData", "must be valid JSON")
	}

	state := models.OnboardingState{UserID: userID, Completed: completed, UserData: userData}
	if err := s.onboardingRepo.Save(ctx, state); err != nil {
		log.Error("failed to save onboarding: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.GetOnboarding(ctx, userID)
}

func (s *onboardingService) DeleteOnboarding(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting onboarding: user_id=%s", userID)

	if err := s.onboardingRepo.Delete(ctx, userID); err != nil {
		log.Error("failed to delete onboarding: %v", err)
		return errors.NewInternalError(err)
	}

	return nil
}
