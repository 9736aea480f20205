package jobs

import (
	"context"

	"github.com/vytor/linguaflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	decayPool *worker.Pool
	decayer   worker.StreakDecayer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(decayPool *worker.Pool, decayer worker.StreakDecayer) JobQueue {
	return &WorkerQueue{
		decayPool: decayPool,
		decayer:   decayer,
	}
}

func (q *WorkerQueue) EnqueueStreakDecay(ctx context.Context, userID string) error {
	return q.decayPool.SubmitWait(ctx, &worker.StreakDecayJob{
		Decayer: q.decayer,
		UserID:  userID,
	})
}
