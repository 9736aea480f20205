package jobs

import "context"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueStreakDecay waits for queue room until ctx is done.
	EnqueueStreakDecay(ctx context.Context, userID string) error
}
