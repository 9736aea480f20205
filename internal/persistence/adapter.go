// Package persistence turns progress documents into storage records and back.
// Saves report success as a bool. Loads yield nil for missing or corrupt
// records and an error only when storage could not be read.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/metrics"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/progress"
	"github.com/vytor/linguaflash/internal/repository"
)

type Adapter struct {
	repo    repository.ProgressRepository
	metrics *metrics.Metrics
}

func NewAdapter(repo repository.ProgressRepository, m *metrics.Metrics) *Adapter {
	return &Adapter{repo: repo, metrics: m}
}

// SaveProgress writes the whole document. It returns false when the write
// failed; the previously stored record is left as it was.
func (a *Adapter) SaveProgress(ctx context.Context, p *models.UserProgress) bool {
	log := logger.FromContext(ctx).WithPrefix("persistence")
	if p == nil || p.UserID == "" {
		log.Warn("refusing to save progress without a user id")
		return false
	}

	doc, err := json.Marshal(p)
	if err != nil {
		log.Error("failed to encode progress: user_id=%s, err=%v", p.UserID, err)
		a.metrics.PersistenceFailure("encode")
		return false
	}
	if err := a.repo.Put(ctx, p.UserID, doc); err != nil {
		log.Error("failed to save progress: user_id=%s, err=%v", p.UserID, err)
		a.metrics.PersistenceFailure("save")
		return false
	}
	log.Debug("progress saved: user_id=%s, bytes=%d", p.UserID, len(doc))
	return true
}

// LoadProgress returns the stored document upgraded to the current schema.
// It returns nil, nil when there is no record or the record is malformed, and
// an error when storage itself fails, so callers never mistake an outage for
// a new user.
func (a *Adapter) LoadProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("persistence")

	doc, err := a.repo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load progress: user_id=%s, err=%v", userID, err)
		a.metrics.PersistenceFailure("load")
		return nil, fmt.Errorf("load progress for %s: %w", userID, err)
	}
	if len(doc) == 0 {
		log.Debug("no stored progress: user_id=%s", userID)
		return nil, nil
	}

	var p models.UserProgress
	if err := json.Unmarshal(doc, &p); err != nil {
		log.Warn("discarding unreadable progress: user_id=%s, err=%v", userID, err)
		a.metrics.PersistenceFailure("decode")
		return nil, nil
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return progress.Migrate(&p), nil
}

// Clear removes the stored document.
func (a *Adapter) Clear(ctx context.Context, userID string) error {
	if err := a.repo.Delete(ctx, userID); err != nil {
		logger.FromContext(ctx).WithPrefix("persistence").Error("failed to clear progress: user_id=%s, err=%v", userID, err)
		a.metrics.PersistenceFailure("clear")
		return err
	}
	return nil
}

// UserIDs lists every user with a stored document.
func (a *Adapter) UserIDs(ctx context.Context) ([]string, error) {
	return a.repo.ListUserIDs(ctx)
}
