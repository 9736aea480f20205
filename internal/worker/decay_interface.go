package worker

import "context"

// StreakDecayer is the slice of the progress tracker the decay job needs.
// Declared here so the worker package does not import services.
type StreakDecayer interface {
	DecayStreak(ctx context.Context, userID string) (bool, error)
}
