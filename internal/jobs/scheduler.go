package jobs

import (
	"context"
	"time"

	"github.com/vytor/linguaflash/internal/logger"
)

// UserLister returns every user with stored progress.
type UserLister interface {
	UserIDs(ctx context.Context) ([]string, error)
}

// Scheduler periodically enqueues a streak decay job for every stored user.
type Scheduler struct {
	users    UserLister
	queue    JobQueue
	interval time.Duration
	log      *logger.Logger
}

func NewScheduler(users UserLister, queue JobQueue, interval time.Duration) *Scheduler {
	return &Scheduler{
		users:    users,
		queue:    queue,
		interval: interval,
		log:      logger.Default().WithPrefix("scheduler"),
	}
}

// Sweep enqueues one decay job per user and returns how many were queued.
// A full queue makes it wait rather than skip users; it stops early only
// when ctx is done or the pool is stopped.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	ids, err := s.users.UserIDs(ctx)
	if err != nil {
		s.log.Error("failed to list users for sweep: %v", err)
		return 0, err
	}

	queued := 0
	for _, id := range ids {
		if err := s.queue.EnqueueStreakDecay(ctx, id); err != nil {
			s.log.Warn("streak sweep aborted after %d of %d users: user_id=%s, err=%v", queued, len(ids), id, err)
			return queued, err
		}
		queued++
	}
	s.log.Info("streak sweep queued %d users", queued)
	return queued, nil
}

// Run sweeps every interval until ctx is cancelled. A non-positive interval
// disables the schedule.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("streak sweep disabled")
		return
	}
	s.log.Info("streak sweep every %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scheduler stopped")
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}
