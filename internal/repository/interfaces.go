package repository

import (
	"context"

	"github.com/vytor/linguaflash/internal/models"
)

// StorageKey is the record name progress documents are stored under.
const StorageKey = "languageLearningProgress"

// ProgressRepository stores whole serialized progress documents, one per user.
// Get returns (nil, nil) when the user has no document.
type ProgressRepository interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Put(ctx context.Context, userID string, document []byte) error
	Delete(ctx context.Context, userID string) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

// OnboardingRepository stores first-run flags. Get returns (nil, nil) when absent.
type OnboardingRepository interface {
	Get(ctx context.Context, userID string) (*models.OnboardingState, error)
	Save(ctx context.Context, state models.OnboardingState) error
	Delete(ctx context.Context, userID string) error
}
