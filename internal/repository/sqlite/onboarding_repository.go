package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/repository"
)

type onboardingRepository struct {
	db *sql.DB
}

// NewOnboardingRepository creates a SQLite-backed OnboardingRepository
func NewOnboardingRepository(db *sql.DB) repository.OnboardingRepository {
	return &onboardingRepository{db: db}
}

func (r *onboardingRepository) Get(ctx context.Context, userID string) (*models.OnboardingState, error) {
	log := logger.FromContext(ctx).WithPrefix("onboarding_repo")
	log.Debug("getting onboarding state: user_id=%s", userID)

	query, args, err := sqlBuilder.Select("user_id", "completed", "user_data", "updated_at").
		From("onboarding_state").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var (
		s        models.OnboardingState
		userData sql.NullString
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.UserID, &s.Completed, &userData, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("onboarding state not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get onboarding state: %v", err)
		return nil, err
	}
	if userData.Valid && userData.String != "" {
		s.UserData = json.RawMessage(userData.String)
	}
	return &s, nil
}

func (r *onboardingRepository) Save(ctx context.Context, s models.OnboardingState) error {
	log := logger.FromContext(ctx).WithPrefix("onboarding_repo")
	log.Debug("saving onboarding state: user_id=%s, completed=%t", s.UserID, s.Completed)

	var userData any
	if len(s.UserData) > 0 {
		userData = string(s.UserData)
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := execBuilt(ctx, tx, sqlBuilder.Delete("onboarding_state").Where(squirrel.Eq{"user_id": s.UserID})); err != nil {
			log.Error("failed to clear onboarding state: %v", err)
			return err
		}
		stmt := sqlBuilder.Insert("onboarding_state").
			Columns("user_id", "completed", "user_data").
			Values(s.UserID, s.Completed, userData)
		if _, err := execBuilt(ctx, tx, stmt); err != nil {
			log.Error("failed to insert onboarding state: %v", err)
			return err
		}
		return nil
	})
}

func (r *onboardingRepository) Delete(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("onboarding_repo")
	log.Debug("deleting onboarding state: user_id=%s", userID)

	if _, err := execBuilt(ctx, r.db, sqlBuilder.Delete("onboarding_state").Where(squirrel.Eq{"user_id": userID})); err != nil {
		log.Error("failed to delete onboarding state: %v", err)
		return err
	}
	return nil
}
