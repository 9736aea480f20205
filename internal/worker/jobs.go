package worker

import (
	"context"

	"github.com/vytor/linguaflash/internal/logger"
)

// StreakDecayJob zeroes the stored streak of one user when it has lapsed.
type StreakDecayJob struct {
	Decayer StreakDecayer
	UserID  string
}

func (j *StreakDecayJob) Name() string { return "streak_decay" }

func (j *StreakDecayJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("user_id", j.UserID)

	changed, err := j.Decayer.DecayStreak(ctx, j.UserID)
	if err != nil {
		return err
	}
	if changed {
		log.Info("lapsed streak reset")
	} else {
		log.Debug("streak still active")
	}
	return nil
}
